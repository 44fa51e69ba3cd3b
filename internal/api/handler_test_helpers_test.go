package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/api/middleware"
	"github.com/phrazzld/microcase-api/internal/mocks"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// newTestRouter mounts the handlers the way the server does, with a JWT
// mock that resolves testToken to userID.
func newTestRouter(svc *mocks.MockMicroCaseService, userID uuid.UUID) http.Handler {
	h := NewMicroCaseHandler(svc, nil)
	authMiddleware := middleware.NewAuthMiddleware(mocks.TokenForUser(testToken, userID))

	r := chi.NewRouter()
	r.Use(authMiddleware.OptionalAuthenticate)
	r.Route("/api/micro-cases", func(r chi.Router) {
		r.Get("/", h.ListCases)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/attempts", h.SubmitAttempt)
			r.Get("/attempts", h.ListMyAttempts)
			r.Get("/{id}/validation", h.ValidateCase)
		})
		r.Get("/{id}", h.GetCase)
	})
	r.Handle("/api/micro_cases", NewLegacyHandler(h))
	return r
}

func doRequest(t *testing.T, router http.Handler, method, target string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
