// Package main implements the entry point for the hocalingo API server:
// the spaced-repetition engine behind a personal vocabulary trainer, with
// background item generation and recurring maintenance jobs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ali-aktas/hocalingo-api/internal/config"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command instead of the server: up, down, status, version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"default_profile", cfg.Profile.DefaultID,
		"daily_goal", cfg.Study.DailyGoal)

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd, appLogger); err != nil {
			slog.Error("migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(context.Background(), cfg, appLogger); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run wires the application together and serves until shutdown.
func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		// newApplication did not take ownership of the connection yet.
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
