// Package backend selects and constructs the persistence sink shared
// by the folio commands.
package backend

import (
	"context"
	"fmt"

	"folio/internal/config"
	"folio/internal/sheets"
	gsheet "folio/internal/sheets/google"
	"folio/internal/sheets/memory"
	"folio/internal/storage"
)

// Type identifies a persistence backend.
type Type string

const (
	Sheets Type = "sheets"
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

// IsValid reports whether the type names a known backend.
func (t Type) IsValid() bool {
	switch t {
	case Sheets, SQLite, Memory:
		return true
	}
	return false
}

// New constructs the sink named by cfg.DataBackend. The returned close
// func is always non-nil and safe to call.
func New(ctx context.Context, cfg *config.Config) (sheets.Sink, func() error, error) {
	noop := func() error { return nil }

	switch Type(cfg.DataBackend) {
	case Sheets:
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("initialize sheets backend: %w", err)
		}
		return cli, noop, nil
	case SQLite:
		store, err := storage.NewStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, noop, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		return store, store.Close, nil
	case Memory:
		return memory.New(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}
