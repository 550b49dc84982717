package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "ADMIN", want: RoleAdmin, ok: true},
		{in: "admin", want: RoleAdmin, ok: true},
		{in: "User", want: RoleUser, ok: true},
		{in: " user ", want: RoleUser, ok: true},
		{in: "root", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
