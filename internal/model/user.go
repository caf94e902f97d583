package model

import "strings"

// Role identifies the account kind assigned by the backend. The wire
// values are the backend's own; department admin roles all share the
// "admin_" prefix.
type Role string

const (
	RoleCitizen             Role = "warga"
	RoleAdminSanitation     Role = "admin_kebersihan"
	RoleAdminHealth         Role = "admin_kesehatan"
	RoleAdminInfrastructure Role = "admin_infrastruktur"
)

// adminRolePrefix marks the family of department-scoped admin roles.
const adminRolePrefix = "admin_"

// IsAdmin reports whether the role belongs to the admin role family.
func (r Role) IsAdmin() bool {
	return strings.HasPrefix(string(r), adminRolePrefix)
}

// Label returns a human-readable name for the role.
func (r Role) Label() string {
	switch r {
	case RoleCitizen:
		return "Citizen"
	case RoleAdminSanitation:
		return "Sanitation Admin"
	case RoleAdminHealth:
		return "Health Admin"
	case RoleAdminInfrastructure:
		return "Infrastructure Admin"
	default:
		return string(r)
	}
}

// User is the authenticated account as reported by the backend.
type User struct {
	// ID is the unique identifier for this account.
	ID string `json:"id"`

	// Email is the login address.
	Email string `json:"email"`

	// Name is the display name shown on reports and in the header.
	Name string `json:"name"`

	// Role determines which views and operations are available.
	Role Role `json:"role"`

	// Department is set for admin roles only.
	Department string `json:"department,omitempty"`
}
