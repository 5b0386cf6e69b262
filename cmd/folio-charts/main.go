package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"folio/internal/backend"
	"folio/internal/charts"
	"folio/internal/config"
	"folio/internal/ingest"
	applog "folio/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentCharts,
	})
	applog.SetDefault(logger)

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

	txs, err := ingest.LoadTransactions(ctx, sink)
	if err != nil {
		logger.Error("Failed to load transactions", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Loaded transactions", applog.FieldCount, len(txs))

	renderer := charts.NewRenderer(cfg.ChartOutputDir)
	rendered, failed, err := renderer.RenderAll(ctx, txs)
	if err != nil {
		logger.Error("Chart rendering failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Charts generated",
		"rendered", rendered,
		"failed", failed,
		"output_dir", cfg.ChartOutputDir,
	)
	if failed > 0 {
		os.Exit(1)
	}
}

