package contexthelpers

type contextKey string

const (
	isAuthenticatedContextKey = contextKey("isAuthenticated")
	adminIDContextKey         = contextKey("adminID")
	adminRoleContextKey       = contextKey("adminRole")
	csrfTokenContextKey       = contextKey("csrfToken")
)
