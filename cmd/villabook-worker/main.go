package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"villabook/internal/amqp"
	"villabook/internal/cli"
	"villabook/internal/ledger"
	"villabook/internal/ledger/google"
	"villabook/internal/ledger/memory"
	"villabook/internal/worker"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.LedgerBackend == "none" {
		logger.Info("Ledger backend disabled, nothing to sync")
		return
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		writer  ledger.BookingWriter
		deleter ledger.BookingDeleter
	)
	switch cfg.LedgerBackend {
	case "sheets":
		client, err := google.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets ledger", "error", err)
			os.Exit(1)
		}
		writer, deleter = client, client
		logger.Info("Using Google Sheets ledger", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	case "memory":
		store := memory.New()
		writer, deleter = store, store
		logger.Info("Using in-memory ledger")
	default:
		logger.Error("Unknown ledger backend", "backend", cfg.LedgerBackend)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, writer, deleter, cfg.SyncBatchSize)

	// Recover anything that went unsynced while the worker was down.
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", "error", err)
	}

	go func() {
		logger.Info("Starting booking sync consumer", "queue", cfg.AMQPQueue)
		err := amqpClient.ConsumeBookingSync(ctx, func(msg *amqp.BookingSyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		})
		if err != nil {
			slog.ErrorContext(ctx, "Consumer stopped", "error", err)
			cancel()
		}
	}()

	// Interval drain catches bookings whose messages were lost.
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := syncWorker.ProcessPendingBookings(ctx); err != nil {
					slog.ErrorContext(ctx, "Pending sync failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Warn("Worker context cancelled")
	}

	cancel()
	time.Sleep(2 * time.Second) // let in-flight handlers finish
	logger.Info("Worker stopped")
}
