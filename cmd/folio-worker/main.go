package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"folio/internal/amqp"
	"folio/internal/backend"
	"folio/internal/cache"
	"folio/internal/charts"
	"folio/internal/config"
	"folio/internal/ingest"
	applog "folio/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting folio-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink, closeSink, err := backend.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer closeSink()
	logger.Info("Initialized data backend", applog.FieldBackend, cfg.DataBackend)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// The dashboard rebuild and the chart render both scan the full
	// transaction sheet. Cache the rows for the duration of one
	// refresh so each message costs a single remote read.
	reader := cache.NewRowReader(sink, time.Minute)
	importer := ingest.NewImporter(sink, ingest.Config{
		DateLayout: cfg.DateLayout,
		BatchSize:  cfg.BatchSize,
		Delay:      cfg.Delay,
	}).WithReader(reader)
	renderer := charts.NewRenderer(cfg.ChartOutputDir)

	refresh := func(msg *amqp.RefreshMessage) error {
		log := logger.With(applog.FieldRunID, msg.RunID)
		log.Info("Refresh requested", "imported", msg.Imported)

		reader.Invalidate()
		result, err := importer.RefreshDashboard(ctx)
		if err != nil {
			log.Error("Dashboard refresh failed", applog.FieldError, err)
			return err
		}
		log.Info("Dashboard rebuilt", applog.FieldBatchGroups, result.Groups, "failed_groups", result.FailedGroups)

		txs, err := ingest.LoadTransactions(ctx, reader)
		if err != nil {
			log.Error("Failed to load transactions for charts", applog.FieldError, err)
			return err
		}
		rendered, failed, err := renderer.RenderAll(ctx, txs)
		if err != nil {
			log.Error("Chart rendering failed", applog.FieldError, err)
			return err
		}
		log.Info("Charts regenerated", "rendered", rendered, "failed", failed)
		return nil
	}

	go func() {
		if err := amqpClient.ConsumeRefresh(ctx, refresh); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", applog.FieldError, err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give the consumer a moment to ack in-flight deliveries.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}

