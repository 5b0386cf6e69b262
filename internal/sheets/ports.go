package sheets

import (
	"context"

	"folio/internal/classify"
)

// Ports for outbound adapters. The transaction worksheet is an
// append-only log of fixed-width rows (core.SheetHeader); the dashboard
// is a grid of labeled cells rebuilt from scratch on every run.
type (
	// ValueWrite is one logical (location, grid-of-values) write.
	ValueWrite struct {
		Location string
		Values   [][]string
	}

	// CellStyle is a best-effort presentation hint for a dashboard cell.
	CellStyle struct {
		Bold     bool
		FontSize int
	}

	RowAppender interface {
		AppendRows(ctx context.Context, rows [][]string) error
	}

	RowReader interface {
		// ReadAllRows returns every transaction row, header first.
		ReadAllRows(ctx context.Context) ([][]string, error)
		// ReadColumn returns one column of the transaction worksheet,
		// header excluded. Used to fetch existing transaction ids
		// without pulling the whole sheet.
		ReadColumn(ctx context.Context, index int) ([]string, error)
	}

	GridWriter interface {
		// BatchWrite applies a group of value writes as one call.
		BatchWrite(ctx context.Context, writes []ValueWrite) error
		// Clear empties the dashboard grid.
		Clear(ctx context.Context) error
		// ApplyFormat styles one location. Failures are expected to be
		// tolerated by callers.
		ApplyFormat(ctx context.Context, location string, style CellStyle) error
	}

	// RuleSource supplies classification rule overrides, typically from
	// a Categories worksheet maintained next to the transaction log.
	RuleSource interface {
		ListRules(ctx context.Context) ([]classify.Rule, error)
	}

	// Pinger reports whether the sink is reachable. Checked once at the
	// start of a run; an unreachable sink aborts before any processing.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// Sink is the full persistence surface an import run needs.
	Sink interface {
		RowAppender
		RowReader
		GridWriter
		RuleSource
		Pinger
	}
)
