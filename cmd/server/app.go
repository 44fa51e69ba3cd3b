package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/microcase-api/internal/config"
	"github.com/phrazzld/microcase-api/internal/events"
	"github.com/phrazzld/microcase-api/internal/platform/metrics"
	"github.com/phrazzld/microcase-api/internal/platform/postgres"
	"github.com/phrazzld/microcase-api/internal/service/auth"
	"github.com/phrazzld/microcase-api/internal/service/microcase"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService       auth.JWTService
	microcaseService microcase.Service
	eventEmitter     *events.InMemoryEventEmitter
	metrics          *metrics.Metrics
}

// newApplication wires the stores, services and event handlers. A nil db
// yields an application whose case endpoints all fail with
// server_not_configured.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	if cfg.Metrics.Enabled {
		app.metrics = metrics.New()
		app.eventEmitter.RegisterHandler(app.metrics)
	}

	if db == nil {
		app.microcaseService = microcase.NewUnconfiguredService()
	} else {
		app.microcaseService = microcase.NewService(
			postgres.NewPostgresCaseStore(db, logger),
			postgres.NewPostgresAttemptStore(db, logger),
			db,
			microcase.Options{
				Audit:   cfg.Scoring.Audit,
				Emitter: app.eventEmitter,
			},
			logger,
		)
	}

	logger.Info("application initialized",
		slog.Bool("metrics_enabled", cfg.Metrics.Enabled),
		slog.Bool("database_configured", db != nil))
	return app, nil
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
