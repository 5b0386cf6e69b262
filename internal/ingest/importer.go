package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"folio/internal/aggregate"
	"folio/internal/batch"
	"folio/internal/classify"
	"folio/internal/core"
	"folio/internal/sheets"
)

type (
	// Config carries the tunables of an import run.
	Config struct {
		// DateLayout is the Go layout of dates in the source CSV.
		DateLayout string
		// BatchSize bounds append groups and dashboard write groups.
		BatchSize int
		// Delay is the pause between consecutive sink write groups.
		Delay time.Duration
	}

	// Summary is the user-visible outcome of an import run.
	Summary struct {
		RunID         string
		Read          int
		Duplicates    int
		Malformed     int
		Imported      int
		FailedGroups  int
		FailedFormats int
	}

	// Importer drives one synchronous import run: normalize, classify,
	// dedup, append, then rebuild the dashboard. Per-record failures
	// are isolated; per-group failures are isolated; only an
	// unreachable sink at the start of the run is fatal.
	Importer struct {
		sink   sheets.Sink
		reader sheets.RowReader
		cfg    Config
		sched  *batch.Scheduler

		sleep func(time.Duration)
		now   func() time.Time
	}
)

func NewImporter(sink sheets.Sink, cfg Config) *Importer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = batch.DefaultGroupSize
	}
	if cfg.Delay < 0 {
		cfg.Delay = batch.DefaultDelay
	}
	return &Importer{
		sink:   sink,
		reader: sink,
		cfg:    cfg,
		sched:  batch.NewScheduler(sink, cfg.BatchSize, cfg.Delay),
		sleep:  time.Sleep,
		now:    time.Now,
	}
}

// WithReader overrides where transaction rows are read from. Long-lived
// processes put a caching reader in front of the sink here.
func (imp *Importer) WithReader(reader sheets.RowReader) *Importer {
	imp.reader = reader
	return imp
}

// ImportCSV runs a full import from a headered CSV stream.
func (imp *Importer) ImportCSV(ctx context.Context, r io.Reader) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}

	if err := imp.sink.Ping(ctx); err != nil {
		if !errors.Is(err, core.ErrSinkUnavailable) {
			err = fmt.Errorf("%w: %v", core.ErrSinkUnavailable, err)
		}
		return summary, err
	}

	records, err := ReadRecords(r)
	if err != nil {
		return summary, fmt.Errorf("read records: %w", err)
	}
	summary.Read = len(records)
	slog.InfoContext(ctx, "Read transaction records",
		"run_id", summary.RunID, "count", len(records))

	table := imp.loadRuleTable(ctx)
	filter := imp.loadExistingIDs(ctx)

	normalizer := NewNormalizer(imp.cfg.DateLayout)
	normalizer.now = imp.now
	var fresh []core.Transaction
	for _, rec := range records {
		t, err := normalizer.Normalize(rec)
		if err != nil {
			summary.Malformed++
			slog.WarnContext(ctx, "Rejected malformed record",
				"run_id", summary.RunID, "error", err)
			continue
		}
		if !filter.Admit(t.ID) {
			summary.Duplicates++
			continue
		}
		t.Category = classify.Classify(table, t.Description, t.Merchant)
		fresh = append(fresh, t)
	}

	summary.Imported = imp.appendBatched(ctx, fresh, &summary)

	if summary.Imported > 0 {
		res := imp.rebuildDashboard(ctx)
		summary.FailedGroups += res.FailedGroups
		summary.FailedFormats += res.FailedFormats
	}

	slog.InfoContext(ctx, "Import run finished",
		"run_id", summary.RunID,
		"read", summary.Read,
		"duplicates", summary.Duplicates,
		"malformed", summary.Malformed,
		"imported", summary.Imported,
		"failed_groups", summary.FailedGroups)
	return summary, nil
}

// RefreshDashboard rebuilds the dashboard grid from the persisted
// transaction set without importing anything.
func (imp *Importer) RefreshDashboard(ctx context.Context) (batch.Result, error) {
	if err := imp.sink.Ping(ctx); err != nil {
		return batch.Result{}, fmt.Errorf("%w: %v", core.ErrSinkUnavailable, err)
	}
	return imp.rebuildDashboard(ctx), nil
}

// loadRuleTable fetches override rules from the sink's Categories
// worksheet. A read failure leaves only the built-in defaults in
// effect; classification must not depend on the override tier being
// reachable.
func (imp *Importer) loadRuleTable(ctx context.Context) classify.Table {
	rules, err := imp.sink.ListRules(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Could not load category overrides, using defaults", "error", err)
		return classify.NewTable(nil)
	}
	return classify.NewTable(rules)
}

// loadExistingIDs fetches the persisted transaction id column once for
// the whole run.
func (imp *Importer) loadExistingIDs(ctx context.Context) *Filter {
	ids, err := imp.reader.ReadColumn(ctx, core.ColTransactionID)
	if err != nil {
		slog.WarnContext(ctx, "Could not load existing transaction ids", "error", err)
		return NewFilter(nil)
	}
	return NewFilter(ids)
}

// appendBatched appends the new transactions in bounded groups with
// pacing between groups. A failed group is logged and skipped; its
// records are not counted as imported.
func (imp *Importer) appendBatched(ctx context.Context, txs []core.Transaction, summary *Summary) int {
	imported := 0
	for start := 0; start < len(txs); start += imp.cfg.BatchSize {
		end := start + imp.cfg.BatchSize
		if end > len(txs) {
			end = len(txs)
		}
		rows := make([][]string, 0, end-start)
		for _, t := range txs[start:end] {
			rows = append(rows, t.Row())
		}
		if err := imp.sink.AppendRows(ctx, rows); err != nil {
			summary.FailedGroups++
			slog.ErrorContext(ctx, "Append group failed, continuing",
				"from", start, "count", len(rows), "error", err)
		} else {
			imported += len(rows)
		}
		if end < len(txs) && imp.cfg.Delay > 0 {
			imp.sleep(imp.cfg.Delay)
		}
	}
	return imported
}

func (imp *Importer) rebuildDashboard(ctx context.Context) batch.Result {
	txs, err := LoadTransactions(ctx, imp.reader)
	if err != nil {
		slog.ErrorContext(ctx, "Could not load transactions for dashboard", "error", err)
		return batch.Result{FailedGroups: 1}
	}
	if len(txs) == 0 {
		slog.InfoContext(ctx, "No transactions to analyze, dashboard left untouched")
		return batch.Result{}
	}
	if err := imp.sink.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "Could not clear dashboard", "error", err)
		return batch.Result{FailedGroups: 1}
	}
	writes, formats := aggregate.BuildDashboard(txs)
	return imp.sched.Flush(ctx, writes, formats)
}
