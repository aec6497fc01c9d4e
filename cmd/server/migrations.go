package main

import (
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/ali-aktas/hocalingo-api/internal/config"
	"github.com/ali-aktas/hocalingo-api/migrations"
)

// runMigrations executes the given goose command against the configured
// database using the embedded migration scripts.
func runMigrations(cfg *config.Config, command string, logger *slog.Logger) error {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up database for migrations: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database connection", "error", closeErr)
		}
	}()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		err = goose.Version(db, ".")
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, status or version)", command)
	}
	if err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}

	logger.Info("migration command completed", "command", command)
	return nil
}
