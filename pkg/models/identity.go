package models

import "github.com/google/uuid"

// Role is the authorization capability of a caller.
type Role string

const (
	// RoleOwner sees and mutates only entities it owns.
	RoleOwner Role = "owner"
	// RoleSuperuser bypasses per-user filtering on read, update and delete.
	RoleSuperuser Role = "superuser"
)

// IsValidRole reports whether role is a known role.
func IsValidRole(role Role) bool {
	return role == RoleOwner || role == RoleSuperuser
}

// Identity is the authenticated caller, passed explicitly into every service
// operation instead of being read from global state.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// IsSuperuser reports whether the identity has the superuser capability.
func (i Identity) IsSuperuser() bool {
	return i.Role == RoleSuperuser
}
