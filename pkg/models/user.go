package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. Account lifecycle (signup, passwords) belongs to
// the external auth collaborator; the engine only reads users to resolve
// identities and display owners.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Superuser bool      `json:"superuser"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity derives the authorization identity for this user.
func (u *User) Identity() Identity {
	role := RoleOwner
	if u.Superuser {
		role = RoleSuperuser
	}
	return Identity{UserID: u.ID, Role: role}
}
