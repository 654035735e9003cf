package contexthelpers

import (
	"context"
	"net/http"

	"github.com/myrjola/fraudintake/internal/models"
)

func AuthenticateContext(r *http.Request, admin models.AdminUser) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, isAuthenticatedContextKey, true)
	ctx = context.WithValue(ctx, adminIDContextKey, admin.ID)
	ctx = context.WithValue(ctx, adminRoleContextKey, admin.Role)
	return r.WithContext(ctx)
}

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, csrfTokenContextKey, csrfToken)
	return r.WithContext(ctx)
}
