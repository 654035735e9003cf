package models

import "time"

type AdminRole string

const (
	AdminRoleViewer     AdminRole = "VIEWER"
	AdminRoleAnalyst    AdminRole = "ANALYST"
	AdminRoleAdmin      AdminRole = "ADMIN"
	AdminRoleSuperAdmin AdminRole = "SUPER_ADMIN"
)

// CanUpdateReports reports whether the role may change report status and priority.
func (r AdminRole) CanUpdateReports() bool {
	switch r {
	case AdminRoleAnalyst, AdminRoleAdmin, AdminRoleSuperAdmin:
		return true
	case AdminRoleViewer:
		return false
	}
	return false
}

// AdminUser is a back-office user of the case management API.
type AdminUser struct {
	ID           int64      `db:"id"            json:"id"`
	Username     string     `db:"username"      json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name"     json:"full_name"`
	Email        string     `db:"email"         json:"email"`
	Role         AdminRole  `db:"role"          json:"role"`
	Active       bool       `db:"is_active"     json:"is_active"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	LastLogin    *time.Time `db:"last_login"    json:"last_login,omitempty"`
}
