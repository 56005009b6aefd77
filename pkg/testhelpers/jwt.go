package testhelpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fbettencourt22/printcost-engine/pkg/auth"
)

// GenerateTestJWT signs a bearer token the way the auth collaborator does,
// for exercising authenticated routes in tests.
func GenerateTestJWT(signingKey string, userID uuid.UUID, email string, superuser bool) (string, error) {
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:     email,
		Superuser: superuser,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(signingKey))
}

// GenerateTestJWTWithBearer returns the signed token with the "Bearer "
// prefix ready for an Authorization header.
func GenerateTestJWTWithBearer(signingKey string, userID uuid.UUID, email string, superuser bool) (string, error) {
	token, err := GenerateTestJWT(signingKey, userID, email, superuser)
	if err != nil {
		return "", err
	}
	return "Bearer " + token, nil
}
