package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/microcase-api/internal/service/auth"
	"github.com/phrazzld/microcase-api/internal/service/microcase"
	"github.com/phrazzld/microcase-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"nil error", nil, http.StatusInternalServerError, CodeInternalError},
		{"not configured", microcase.ErrNotConfigured, http.StatusInternalServerError, CodeServerNotConfigured},
		{"unauthenticated", microcase.ErrUnauthenticated, http.StatusUnauthorized, CodeMissingToken},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, CodeMissingToken},
		{"forbidden", microcase.ErrForbidden, http.StatusForbidden, CodeNotAuthorized},
		{"case not found", microcase.ErrCaseNotFound, http.StatusNotFound, CodeCaseNotFound},
		{"store case not found", store.ErrCaseNotFound, http.StatusNotFound, CodeCaseNotFound},
		{
			"invalid payload",
			fmt.Errorf("%w: bad status", microcase.ErrInvalidPayload),
			http.StatusBadRequest,
			CodeInvalidPayload,
		},
		{
			"unknown case on insert",
			microcase.NewServiceError("record_attempt", "failed to insert attempt",
				store.NewStoreError("attempt", "insert", "case not found", store.ErrInvalidEntity)),
			http.StatusBadRequest,
			CodeInvalidPayload,
		},
		{
			"insert failed",
			microcase.NewServiceError("record_attempt", "no attempt identifier", microcase.ErrInsertFailed),
			http.StatusInternalServerError,
			CodeInsertFailed,
		},
		{
			"store error",
			microcase.NewServiceError("list_cases", "failed to list cases",
				store.NewStoreError("micro_case", "list", "query failed", errors.New("connection reset"))),
			http.StatusInternalServerError,
			CodeStoreError,
		},
		{"transaction failed", store.ErrTransactionFailed, http.StatusInternalServerError, CodeStoreError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
			assert.Equal(t, tt.expectedCode, ErrorCode(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	type payload struct {
		CaseID string `validate:"required"`
	}
	err := validator.New().Struct(payload{})

	assert.Equal(t, "invalid CaseID: required field", SanitizeValidationError(err))
	assert.Equal(t, "bad status",
		SanitizeValidationError(fmt.Errorf("%w: bad status", microcase.ErrInvalidPayload)))
	assert.Equal(t, "", SanitizeValidationError(nil))
}
