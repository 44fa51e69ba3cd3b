package microcase

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the micro-case service.
// The API layer maps each of them to a status code and an error code.
var (
	// ErrNotConfigured indicates the service was built without a store.
	// API layer should map this to HTTP 500 server_not_configured.
	ErrNotConfigured = errors.New("micro case store is not configured")

	// ErrCaseNotFound indicates that no case exists with the requested ID.
	// API layer should map this to HTTP 404 case_not_found.
	ErrCaseNotFound = errors.New("micro case not found")

	// ErrForbidden indicates a draft case was requested by someone other than its author.
	// API layer should map this to HTTP 403 not_authorized.
	ErrForbidden = errors.New("not authorized to access this case")

	// ErrUnauthenticated indicates the operation needs a caller identity and none was given.
	// API layer should map this to HTTP 401 missing_token.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidPayload indicates a submission is missing required fields or is malformed.
	// API layer should map this to HTTP 400 invalid_payload.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInsertFailed indicates an attempt header was inserted without an identifier.
	// API layer should map this to HTTP 500 insert_failed.
	ErrInsertFailed = errors.New("attempt insert failed")
)

// ServiceError is a custom error type for micro-case service errors.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// invalidPayload wraps a validation failure so it matches ErrInvalidPayload
// while keeping the cause in the message.
func invalidPayload(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
}
