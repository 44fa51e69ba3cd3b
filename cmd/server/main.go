// Package main implements the entry point for the micro-case API server,
// which serves branching clinical scenarios and records learners' attempts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phrazzld/microcase-api/internal/config"
	"github.com/phrazzld/microcase-api/internal/platform/logger"
	"github.com/phrazzld/microcase-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, version) and exit")
	flag.Parse()

	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrateCmd != "" {
		if err := runMigrations(ctx, cfg, *migrateCmd, appLogger); err != nil {
			appLogger.Error("migration failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run initializes the application and serves until ctx is canceled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("database_configured", cfg.Database.URL != ""),
		slog.Bool("scoring_audit", cfg.Scoring.Audit))

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func runMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is empty: set %s_DATABASE_URL", config.EnvPrefix)
	}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return postgres.Migrate(ctx, db, command, logger)
}
