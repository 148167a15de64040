package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims is the JWT payload attributing requests to a user.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"uid"`
	Name   string    `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// AccessTokenPayload carries the inputs for minting an access token.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Name   string
	JTI    string
}
