package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/microcase-api/internal/config"
	"github.com/phrazzld/microcase-api/internal/platform/postgres"
)

// setupAppDatabase connects to the configured database and, when enabled,
// applies pending migrations. It returns a nil *sql.DB when no database URL
// is configured; the server then runs unconfigured.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	if cfg.Database.URL == "" {
		logger.Warn("no database configured, case endpoints will report server_not_configured")
		return nil, nil
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, postgres.MigrateUp, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	logger.Info("database connection established")
	return db, nil
}

// openDatabase opens a pgx-backed pool and checks it with a ping.
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
