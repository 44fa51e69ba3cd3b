package domain

import "github.com/google/uuid"

// Caller is the identity a request acts under.
// The zero value is an anonymous caller.
type Caller struct {
	UserID uuid.UUID
}

// Anonymous returns a caller without an identity.
func Anonymous() Caller {
	return Caller{}
}

// NewCaller returns an authenticated caller for the given user.
// A nil user ID yields an anonymous caller.
func NewCaller(userID uuid.UUID) Caller {
	return Caller{UserID: userID}
}

// IsAuthenticated reports whether the caller carries a resolved identity.
func (c Caller) IsAuthenticated() bool {
	return c.UserID != uuid.Nil
}

// Is reports whether the caller is authenticated as the given user.
func (c Caller) Is(userID uuid.UUID) bool {
	return c.IsAuthenticated() && c.UserID == userID
}
