// Command backfill normalizes legacy rows in place: transactions without a
// category get the fallback category and rows without a type become expenses.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"finance/internal/config"
	"finance/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	touched, err := repo.BackfillDefaults(context.Background())
	if err != nil {
		logger.Error("Backfill failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Backfill complete", "rows_touched", touched)
}
