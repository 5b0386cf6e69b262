// Package storage implements the persistence sink on a local SQLite
// database. It mirrors the spreadsheet sink's shape: an append-only
// transaction log, a rules table for classification overrides, and a
// dashboard_cells table holding the regenerated grid.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"folio/internal/classify"
	"folio/internal/core"
	"folio/internal/sheets"
)

type Store struct {
	db *sql.DB
}

var _ sheets.Sink = (*Store)(nil)

// columnNames maps core column indexes onto table columns.
var columnNames = []string{
	"date", "description", "amount", "category",
	"account", "transaction_id", "pending", "merchant",
}

func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", core.ErrSinkUnavailable, err)
	}
	return nil
}

func (s *Store) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions
			(date, description, amount, category, account, transaction_id, pending, merchant)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		cells := make([]any, len(columnNames))
		for i := range columnNames {
			if i < len(row) {
				cells[i] = row[i]
			} else {
				cells[i] = ""
			}
		}
		if _, err := stmt.ExecContext(ctx, cells...); err != nil {
			return fmt.Errorf("insert transaction row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	slog.DebugContext(ctx, "Appended transaction rows to SQLite", "count", len(rows))
	return nil
}

func (s *Store) ReadAllRows(ctx context.Context) ([][]string, error) {
	query := fmt.Sprintf("SELECT %s FROM transactions ORDER BY id", strings.Join(columnNames, ", "))
	dbRows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer dbRows.Close()

	out := [][]string{append([]string(nil), core.SheetHeader...)}
	for dbRows.Next() {
		row := make([]string, len(columnNames))
		dest := make([]any, len(columnNames))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := dbRows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		out = append(out, row)
	}
	return out, dbRows.Err()
}

func (s *Store) ReadColumn(ctx context.Context, index int) ([]string, error) {
	if index < 0 || index >= len(columnNames) {
		return nil, fmt.Errorf("column index %d out of range", index)
	}
	query := fmt.Sprintf("SELECT %s FROM transactions ORDER BY id", columnNames[index])
	dbRows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select column %s: %w", columnNames[index], err)
	}
	defer dbRows.Close()

	var out []string
	for dbRows.Next() {
		var v string
		if err := dbRows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan column value: %w", err)
		}
		out = append(out, v)
	}
	return out, dbRows.Err()
}

func (s *Store) BatchWrite(ctx context.Context, writes []sheets.ValueWrite) error {
	if len(writes) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dashboard_cells (location, payload) VALUES (?, ?)
		ON CONFLICT(location) DO UPDATE SET payload = excluded.payload`)
	if err != nil {
		return fmt.Errorf("prepare batch write: %w", err)
	}
	defer stmt.Close()

	for _, w := range writes {
		payload, err := json.Marshal(w.Values)
		if err != nil {
			return fmt.Errorf("encode cell payload at %s: %w", w.Location, err)
		}
		if _, err := stmt.ExecContext(ctx, w.Location, string(payload)); err != nil {
			return fmt.Errorf("write cell %s: %w", w.Location, err)
		}
	}
	return tx.Commit()
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM dashboard_cells"); err != nil {
		return fmt.Errorf("clear dashboard cells: %w", err)
	}
	return nil
}

// ApplyFormat is a no-op: a local store has no presentation layer.
func (s *Store) ApplyFormat(ctx context.Context, location string, _ sheets.CellStyle) error {
	slog.DebugContext(ctx, "Ignoring format on local store", "location", location)
	return nil
}

func (s *Store) ListRules(ctx context.Context) ([]classify.Rule, error) {
	dbRows, err := s.db.QueryContext(ctx,
		"SELECT category, keywords FROM rules ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("select rules: %w", err)
	}
	defer dbRows.Close()

	// ParseRuleRows expects a header row first; feed it a synthetic one
	// so rule parsing stays identical across sinks.
	rows := [][]string{{"Category", "Keywords"}}
	for dbRows.Next() {
		var category, keywords string
		if err := dbRows.Scan(&category, &keywords); err != nil {
			return nil, fmt.Errorf("scan rule row: %w", err)
		}
		rows = append(rows, []string{category, keywords})
	}
	if err := dbRows.Err(); err != nil {
		return nil, err
	}
	return classify.ParseRuleRows(rows), nil
}

// ReplaceRules overwrites the stored override rules in order.
func (s *Store) ReplaceRules(ctx context.Context, rules []classify.Rule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace rules: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rules"); err != nil {
		return fmt.Errorf("clear rules: %w", err)
	}
	for i, rule := range rules {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO rules (position, category, keywords) VALUES (?, ?, ?)",
			i, string(rule.Category), strings.Join(rule.Keywords, ", "))
		if err != nil {
			return fmt.Errorf("insert rule %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Cell returns the grid values held at location, or nil.
func (s *Store) Cell(ctx context.Context, location string) ([][]string, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM dashboard_cells WHERE location = ?", location).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select cell %s: %w", location, err)
	}
	var values [][]string
	if err := json.Unmarshal([]byte(payload), &values); err != nil {
		return nil, fmt.Errorf("decode cell payload at %s: %w", location, err)
	}
	return values, nil
}
