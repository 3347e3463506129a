package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService signs and verifies session tokens. Tokens carry no expiry:
// a token stays valid until it is removed from the user's token list.
type JWTService interface {
	// GenerateToken creates a signed token bound to userID. Each call yields
	// a distinct token, even within the same second.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks the signature and extracts the claims.
	// Returns ErrInvalidToken for anything malformed or wrongly signed.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	Subject  string    `json:"sub,omitempty"`
	IssuedAt time.Time `json:"iat,omitempty"`
	ID       string    `json:"jti,omitempty"`
}
