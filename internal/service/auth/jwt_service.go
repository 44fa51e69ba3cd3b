package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService validates the bearer tokens that identify a learner or author.
// Users are provisioned elsewhere; this service only checks tokens issued
// with the shared secret.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the user.
	// It is used by development tooling and tests.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken when the
	// token cannot be trusted.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the identity carried by a valid token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
