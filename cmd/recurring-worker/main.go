package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tally/internal/blob"
	"tally/internal/config"
	"tally/internal/log"
	"tally/internal/services"
	"tally/internal/store"
)

func main() {
	// Load .env for local development; absence is fine in production
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	log.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	blobs, err := blob.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite backend", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer blobs.Close()

	settings := store.NewSettingsStore(blobs)
	records := store.NewRecordStore(blobs)
	processor := services.NewRecurringProcessor(settings, records)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Recurring expense processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// process once on startup, then on every tick
		if count, err := processor.ProcessDue(ctx, time.Now()); err != nil {
			logger.Error("Initial processing failed", "error", err)
		} else {
			logger.Info("Initial processing complete", "records_created", count)
		}

		ticker := time.NewTicker(cfg.RecurringInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case now := <-ticker.C:
				count, err := processor.ProcessDue(ctx, now)
				if err != nil {
					logger.Error("Periodic processing failed", "error", err)
					continue
				}
				logger.Info("Periodic processing complete",
					"records_created", count,
					"next_check", now.Add(cfg.RecurringInterval).Format("15:04:05"))
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Recurring-worker shutdown complete")
}
