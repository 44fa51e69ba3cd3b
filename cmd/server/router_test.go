package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "info"},
		Auth: config.AuthConfig{
			JWTSecret:            strings.Repeat("s", 32),
			TokenLifetimeMinutes: 60,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestApp(t *testing.T) *application {
	t.Helper()
	app, err := newApplication(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	require.NoError(t, err)
	return app
}

func serve(t *testing.T, h http.Handler, method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApplicationRejectsShortSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = "short"

	_, err := newApplication(cfg, slog.Default(), nil)
	assert.Error(t, err)
}

func TestRouterWithoutDatabase(t *testing.T) {
	app := newTestApp(t)
	router := app.setupRouter()

	token, err := app.jwtService.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	t.Run("health", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("listing reports server_not_configured", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/api/micro-cases", "", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"server_not_configured"`)
		assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
	})

	t.Run("legacy listing reports server_not_configured", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/api/micro_cases?action=list", "", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"server_not_configured"`)
	})

	t.Run("anonymous submit is rejected before configuration", func(t *testing.T) {
		rec := serve(t, router, http.MethodPost, "/api/micro-cases/attempts", "", strings.NewReader(`{}`))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"missing_token"`)
	})

	t.Run("authenticated submit reports server_not_configured", func(t *testing.T) {
		body := `{"caseId":"` + uuid.NewString() + `","steps":[]}`
		rec := serve(t, router, http.MethodPost, "/api/micro-cases/attempts", token, strings.NewReader(body))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"server_not_configured"`)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/api/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"not_found"`)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "microcase_http_requests_total")
	})
}

func TestRouterWithoutMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	app, err := newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	require.NoError(t, err)

	rec := serve(t, app.setupRouter(), http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
