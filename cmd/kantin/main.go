package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"kantin/internal/amqp"
	"kantin/internal/config"
	apphttp "kantin/internal/http"
	"kantin/internal/receipt"
	"kantin/internal/services"
	"kantin/internal/storage"
	"kantin/internal/store"
	"kantin/internal/store/memory"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose data backend (default: memory).
	var (
		writer store.TransactionWriter
		getter store.TransactionGetter
		dash   store.DashboardReader
	)
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		writer, getter, dash = repo, repo, repo
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		s := memory.New()
		writer, getter, dash = s, s, s
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	}

	// Choose receipt storage (default: inline data URIs).
	var resolver receipt.Resolver
	switch cfg.ReceiptStorage {
	case "drive":
		dr, err := receipt.NewDriveResolverFromEnv(context.Background(), cfg.ReceiptMaxBytes)
		if err != nil {
			logger.Error("Failed to initialize Google Drive receipt storage", "error", err)
			os.Exit(1)
		}
		resolver = dr
		logger.Info("Initialized drive receipt storage", "folder_id", cfg.GoogleDriveFolderID)
	default:
		resolver = receipt.NewInlineResolver(cfg.ReceiptMaxBytes)
		logger.Info("Initialized inline receipt storage", "max_bytes", cfg.ReceiptMaxBytes)
	}

	// Sale-recorded event feed is optional; without a broker the sales
	// are still recorded, just never mirrored to the ledger.
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		events = client
		logger.Info("Initialized AMQP event feed", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	sales := services.NewSaleService(writer, events)
	srv := apphttp.NewServer(":"+cfg.Port, sales, dash, getter, resolver, cfg.ReceiptMaxBytes)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
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

	logger.Info("Starting kantin server", "port", cfg.Port, "backend", cfg.DataBackend, "receipt_storage", cfg.ReceiptStorage)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
