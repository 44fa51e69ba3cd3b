package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/microcase-api/internal/api"
	apiMiddleware "github.com/phrazzld/microcase-api/internal/api/middleware"
	"github.com/phrazzld/microcase-api/internal/api/shared"
)

const requestTimeout = 30 * time.Second

// setupRouter creates the router with its middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	if app.metrics != nil {
		r.Use(app.metrics.Middleware)
	}

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	r.Use(authMiddleware.OptionalAuthenticate)

	caseHandler := api.NewMicroCaseHandler(app.microcaseService, app.logger)

	r.Route("/api/micro-cases", func(r chi.Router) {
		r.Get("/", caseHandler.ListCases)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/attempts", caseHandler.SubmitAttempt)
			r.Get("/attempts", caseHandler.ListMyAttempts)
			r.Get("/{id}/validation", caseHandler.ValidateCase)
		})

		r.Get("/{id}", caseHandler.GetCase)
	})
	r.Handle("/api/micro_cases", api.NewLegacyHandler(caseHandler))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	if app.metrics != nil {
		r.Method(http.MethodGet, app.config.Metrics.Path, app.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, api.CodeNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, api.CodeMethodNotAllowed)
	})

	return r
}
