// Package auth provides JWT-based authentication for printcost-engine.
// Tokens are issued by the external auth collaborator and verified here with
// a shared HS256 signing key.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fbettencourt22/printcost-engine/pkg/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// IdentityKey is the context key for storing the authenticated identity.
	IdentityKey contextKey = "identity"
)

// Claims is the JWT claims structure issued by the auth collaborator.
// The subject is the user's UUID.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	Superuser bool   `json:"superuser,omitempty"`
}

// Identity resolves the authorization identity carried by the claims.
func (c *Claims) Identity() (models.Identity, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return models.Identity{}, fmt.Errorf("invalid subject in token: %w", err)
	}

	role := models.RoleOwner
	if c.Superuser {
		role = models.RoleSuperuser
	}
	return models.Identity{UserID: userID, Role: role}, nil
}

// GetIdentity retrieves the authenticated identity from the request context.
// Returns false if the request did not pass the auth middleware.
func GetIdentity(ctx context.Context) (models.Identity, bool) {
	ident, ok := ctx.Value(IdentityKey).(models.Identity)
	return ident, ok
}

// SetIdentity stores the authenticated identity in the context.
func SetIdentity(ctx context.Context, ident models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, ident)
}
