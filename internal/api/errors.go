package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/microcase-api/internal/api/shared"
	"github.com/phrazzld/microcase-api/internal/redact"
	"github.com/phrazzld/microcase-api/internal/service/auth"
	"github.com/phrazzld/microcase-api/internal/service/microcase"
	"github.com/phrazzld/microcase-api/internal/store"
)

// Error codes sent in the "error" field of the response envelope.
const (
	CodeServerNotConfigured = "server_not_configured"
	CodeCaseNotFound        = "case_not_found"
	CodeNotAuthorized       = "not_authorized"
	CodeMissingToken        = "missing_token"
	CodeInvalidPayload      = "invalid_payload"
	CodeMissingCaseID       = "missing_case_id"
	CodeInvalidCaseID       = "invalid_case_id"
	CodeStoreError          = "store_error"
	CodeInsertFailed        = "insert_failed"
	CodeInternalError       = "internal_error"
	CodeInvalidAction       = "invalid_action"
	CodeMethodNotAllowed    = "method_not_allowed"
	CodeNotFound            = "not_found"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	status, _ := classify(err)
	return status
}

// ErrorCode returns the envelope code for err.
func ErrorCode(err error) string {
	_, code := classify(err)
	return code
}

func classify(err error) (int, string) {
	var storeErr *store.StoreError

	switch {
	case err == nil:
		return http.StatusInternalServerError, CodeInternalError

	case errors.Is(err, microcase.ErrNotConfigured):
		return http.StatusInternalServerError, CodeServerNotConfigured

	// Authentication errors
	case errors.Is(err, microcase.ErrUnauthenticated),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, CodeMissingToken

	// Authorization errors
	case errors.Is(err, microcase.ErrForbidden):
		return http.StatusForbidden, CodeNotAuthorized

	// Not found errors
	case errors.Is(err, microcase.ErrCaseNotFound),
		errors.Is(err, store.ErrCaseNotFound):
		return http.StatusNotFound, CodeCaseNotFound

	// Bad request errors; a constraint violation on insert means the
	// payload referenced something that does not exist
	case errors.Is(err, microcase.ErrInvalidPayload),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest, CodeInvalidPayload

	case errors.Is(err, microcase.ErrInsertFailed):
		return http.StatusInternalServerError, CodeInsertFailed

	case errors.As(err, &storeErr),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrTransactionFailed):
		return http.StatusInternalServerError, CodeStoreError

	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// HandleAPIError writes the envelope for err. Store failures carry a
// redacted detail, as do payload errors so clients can tell what was wrong.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	var opts []shared.ResponseOption
	switch code {
	case CodeStoreError:
		opts = append(opts, shared.WithDetail(redact.Error(err)))
	case CodeInvalidPayload:
		opts = append(opts, shared.WithDetail(SanitizeValidationError(err)))
	}

	shared.RespondWithErrorAndLog(w, r, status, code, err, opts...)
}

// SanitizeValidationError turns a validation or decoding failure into a
// short message naming the offending field.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
	}

	return strings.TrimPrefix(err.Error(), microcase.ErrInvalidPayload.Error()+": ")
}

// validationTagMessage maps validation tags to user-friendly error messages
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid", "uuid4":
		return "must be a UUID"
	case "gte", "min":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
