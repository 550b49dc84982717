package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qnrlabs/order_service/internal/models"
)

func TestAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		callerID uint
		ownerID  uint
		role     string
		want     bool
	}{
		{name: "owner", callerID: 1, ownerID: 1, role: models.RoleUser, want: true},
		{name: "stranger", callerID: 2, ownerID: 1, role: models.RoleUser, want: false},
		{name: "admin on foreign order", callerID: 2, ownerID: 1, role: models.RoleAdmin, want: true},
		{name: "admin on own order", callerID: 1, ownerID: 1, role: models.RoleAdmin, want: true},
		{name: "unknown role", callerID: 2, ownerID: 1, role: "MANAGER", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Allowed(tt.callerID, tt.ownerID, tt.role))
		})
	}
}
