package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"folio/internal/amqp"
	"folio/internal/backend"
	"folio/internal/config"
	"folio/internal/ingest"
	applog "folio/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentImporter,
	})
	applog.SetDefault(logger)

	var file string
	flag.StringVar(&file, "file", "", "path to the CSV export to import (reads stdin when empty)")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	sink, closeSink, err := backend.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer closeSink()
	logger.Info("Initialized data backend", applog.FieldBackend, cfg.DataBackend)

	var input io.Reader = os.Stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			logger.Error("Failed to open CSV file", applog.FieldError, err, "file", file)
			os.Exit(1)
		}
		defer f.Close()
		input = f
	}

	importer := ingest.NewImporter(sink, ingest.Config{
		DateLayout: cfg.DateLayout,
		BatchSize:  cfg.BatchSize,
		Delay:      cfg.Delay,
	})

	summary, err := importer.ImportCSV(ctx, input)
	if err != nil {
		logger.Error("Import failed", applog.FieldError, err, applog.FieldRunID, summary.RunID)
		os.Exit(1)
	}

	logger.Info("Import complete",
		applog.FieldRunID, summary.RunID,
		"read", summary.Read,
		"imported", summary.Imported,
		"duplicates", summary.Duplicates,
		"malformed", summary.Malformed,
		"failed_groups", summary.FailedGroups,
	)

	// Notify the refresh worker. Chart regeneration happens out of
	// band, so a broker outage never fails an otherwise good import.
	if summary.Imported > 0 {
		publishRefresh(ctx, cfg, summary, logger)
	}
}

func publishRefresh(ctx context.Context, cfg *config.Config, summary ingest.Summary, logger *applog.Logger) {
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Refresh notification skipped, broker unavailable", applog.FieldError, err)
		return
	}
	defer client.Close()

	if err := client.PublishRefresh(ctx, summary.RunID, summary.Imported); err != nil {
		logger.Warn("Failed to publish refresh notification", applog.FieldError, err, applog.FieldRunID, summary.RunID)
		return
	}
	logger.Info("Published refresh notification", applog.FieldRunID, summary.RunID)
}

