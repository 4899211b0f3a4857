package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tally/internal/ai"
	"tally/internal/amqp"
	"tally/internal/blob"
	"tally/internal/chat"
	"tally/internal/config"
	apphttp "tally/internal/http"
	"tally/internal/log"
	"tally/internal/services"
	"tally/internal/store"
)

func main() {
	// Load .env for local development; absence is fine in production
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentApp)
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Blob backend
	var blobs blob.Store
	switch cfg.BlobBackend {
	case "memory":
		if cfg.DataDir != "" {
			blobs = blob.NewMemoryStoreFromDir(cfg.DataDir)
			logger.Info("Initialized memory backend", "data_dir", cfg.DataDir)
		} else {
			blobs = blob.NewMemoryStore()
			logger.Info("Initialized memory backend")
		}
	default:
		sqliteStore, err := blob.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite backend", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		blobs = sqliteStore
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	}

	records := store.NewRecordStore(blobs)
	settings := store.NewSettingsStore(blobs)
	sessions := store.NewChatStore(blobs)

	aggregator := services.NewAggregator(records)
	alerts := services.NewAlertEvaluator(settings)
	suggestions := services.NewSuggestionEngine(settings)

	// AI assistant; without an API key the chat falls back to canned replies
	var generator ai.Generator
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Failed to initialize Gemini client, chat will use fallback replies", "error", err)
		} else {
			generator = client
			logger.Info("Gemini client initialized", "model", cfg.GeminiModel)
		}
	} else {
		logger.Info("Gemini disabled - no GEMINI_API_KEY provided, chat will use fallback replies")
	}

	// Alert publishing is optional; without a broker alerts stay in-process
	var publisher *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without alert publishing", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - budget alerts will not be published")
	}

	chatService := chat.NewService(sessions, records, aggregator, generator)

	server := apphttp.NewServer(apphttp.Options{
		Records:          records,
		Settings:         settings,
		Chat:             chatService,
		Aggregator:       aggregator,
		Alerts:           alerts,
		Suggestions:      suggestions,
		Publisher:        publisher,
		SummaryCacheSize: cfg.SummaryCacheSize,
		SummaryCacheTTL:  cfg.SummaryCacheTTL,
		Logger:           logger.WithComponent(log.ComponentHTTP),
	})
	defer server.Shutdown()

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        server.Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting tally server", "port", cfg.Port, "backend", cfg.BlobBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
