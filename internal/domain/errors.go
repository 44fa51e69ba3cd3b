// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidNodeKind is returned when a node kind is not one of the known kinds.
	ErrInvalidNodeKind = errors.New("invalid node kind")

	// ErrInvalidAttemptStatus is returned when an attempt status is not valid.
	ErrInvalidAttemptStatus = errors.New("invalid attempt status")
)
