package contexthelpers

import (
	"context"

	"github.com/myrjola/fraudintake/internal/models"
)

func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(isAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}

	return isAuthenticated
}

// AuthenticatedAdminID returns the id of the signed-in admin or 0.
func AuthenticatedAdminID(ctx context.Context) int64 {
	adminID, ok := ctx.Value(adminIDContextKey).(int64)
	if !ok {
		return 0
	}

	return adminID
}

// AuthenticatedRole returns the role of the signed-in admin or the empty role.
func AuthenticatedRole(ctx context.Context) models.AdminRole {
	role, ok := ctx.Value(adminRoleContextKey).(models.AdminRole)
	if !ok {
		return ""
	}

	return role
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}
