// Package memory provides an in-memory sink, used as the default
// backend for local runs and as the test double for the importer,
// scheduler and aggregation pipelines.
package memory

import (
	"context"
	"fmt"
	"sync"

	"folio/internal/classify"
	"folio/internal/core"
	"folio/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	rows  [][]string
	grid  map[string][][]string
	rules []classify.Rule

	// FailBatchWrites makes the next N BatchWrite calls fail; used to
	// exercise partial-failure handling in tests.
	FailBatchWrites int
	// FailFormats makes every ApplyFormat call fail.
	FailFormats bool
	// Unreachable makes Ping fail.
	Unreachable bool
}

var _ sheets.Sink = (*Store)(nil)

// New returns a store holding only the transaction header row.
func New() *Store {
	return &Store{
		rows: [][]string{append([]string(nil), core.SheetHeader...)},
		grid: map[string][][]string{},
	}
}

// NewWithRules returns a store that serves the given override rules.
func NewWithRules(rules []classify.Rule) *Store {
	s := New()
	s.rules = rules
	return s
}

func (s *Store) Ping(_ context.Context) error {
	if s.Unreachable {
		return core.ErrSinkUnavailable
	}
	return nil
}

func (s *Store) AppendRows(_ context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.rows = append(s.rows, append([]string(nil), row...))
	}
	return nil
}

func (s *Store) ReadAllRows(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, row := range s.rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (s *Store) ReadColumn(_ context.Context, index int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for i, row := range s.rows {
		if i == 0 || index >= len(row) {
			continue
		}
		out = append(out, row[index])
	}
	return out, nil
}

func (s *Store) BatchWrite(_ context.Context, writes []sheets.ValueWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailBatchWrites > 0 {
		s.FailBatchWrites--
		return fmt.Errorf("batch write rejected")
	}
	for _, w := range writes {
		values := make([][]string, len(w.Values))
		for i, row := range w.Values {
			values[i] = append([]string(nil), row...)
		}
		s.grid[w.Location] = values
	}
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = map[string][][]string{}
	return nil
}

func (s *Store) ApplyFormat(_ context.Context, location string, _ sheets.CellStyle) error {
	if s.FailFormats {
		return fmt.Errorf("format rejected for %s", location)
	}
	return nil
}

func (s *Store) ListRules(_ context.Context) ([]classify.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]classify.Rule(nil), s.rules...), nil
}

// Cell returns the grid values last written at location.
func (s *Store) Cell(location string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid[location]
}

// GridLen reports how many distinct locations hold values.
func (s *Store) GridLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.grid)
}
