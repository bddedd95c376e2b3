// Package main runs the Career Plus API server: the marketplace REST API,
// the web assistant, and the Telegram bot webhook.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/careerplus/careerplus-api/internal/config"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/joho/godotenv"
)

func main() {
	migrateCmd := flag.String("migrate", "", "Run a database migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		slog.Error("server exited with error", "error", redact.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, migrateCmd string) error {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_provider", cfg.LLM.Provider,
		"session_store", cfg.Assistant.SessionStore,
		"telegram_enabled", cfg.Telegram.BotToken != "")

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer db.Close()
		return runMigrations(ctx, db, migrateCmd, log)
	}
	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, db, "up", log); err != nil {
			db.Close()
			return err
		}
	}

	completer, err := newCompleter(ctx, cfg.LLM, log)
	if err != nil {
		db.Close()
		return err
	}

	app, err := newApplication(cfg, log, db, postgresStores(db, cfg, log), completer)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
