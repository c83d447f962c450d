package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService validates and issues the access tokens that guard the
// mutating admin routes. Login and session handling live outside this
// service; it only needs to verify what an upstream identity provider
// issued.
type TokenService interface {
	// GenerateAccessToken creates a signed access token for a user and roles.
	GenerateAccessToken(userID uuid.UUID, roles []string) (string, error)

	// ValidateAccessToken checks a token string and returns the parsed token.
	ValidateAccessToken(tokenString string) (*jwt.Token, error)
}
