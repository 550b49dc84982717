package authz

import "github.com/qnrlabs/order_service/internal/models"

// Allowed is the single ownership-or-admin predicate applied to every
// operation targeting a specific order. Callers that are denied must be
// answered with "not found", never "forbidden", so that order identifiers
// of other users cannot be probed.
func Allowed(callerID, ownerID uint, callerRole string) bool {
	return callerID == ownerID || callerRole == models.RoleAdmin
}
