package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var (
	errMissingCaseID = errors.New("case id is required")
	errInvalidCaseID = errors.New("case id is not a UUID")
)

// parseCaseID parses a case identifier taken from the path or the query.
//
// Returns:
//   - errMissingCaseID when the value is empty
//   - errInvalidCaseID when the value is not a UUID
func parseCaseID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, errMissingCaseID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errInvalidCaseID
	}
	return id, nil
}

// getPathCaseID extracts the case ID from the chi path parameter.
func getPathCaseID(r *http.Request, paramName string) (uuid.UUID, error) {
	return parseCaseID(chi.URLParam(r, paramName))
}

// respondCaseIDError writes the envelope for an error from parseCaseID.
func respondCaseIDError(w http.ResponseWriter, r *http.Request, err error) {
	code := CodeInvalidCaseID
	if errors.Is(err, errMissingCaseID) {
		code = CodeMissingCaseID
	}
	respondBadRequest(w, r, code, err)
}

// queryLimit reads a positive "limit" query parameter. Anything else
// yields zero, leaving the default to the service.
func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
