package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExpiring(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := NewExpiring[int](time.Minute)
	c.now = func() time.Time { return now }

	if _, ok := c.Get(); ok {
		t.Fatalf("empty cache returned a value")
	}

	c.Set(42)
	if v, ok := c.Get(); !ok || v != 42 {
		t.Fatalf("got %d, %v", v, ok)
	}

	now = now.Add(59 * time.Second)
	if _, ok := c.Get(); !ok {
		t.Fatalf("value expired early")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get(); ok {
		t.Fatalf("value survived its TTL")
	}
}

func TestExpiringZeroTTL(t *testing.T) {
	c := NewExpiring[string](0)
	c.Set("keep")
	if v, ok := c.Get(); !ok || v != "keep" {
		t.Fatalf("zero-TTL value lost: %q, %v", v, ok)
	}
	c.Invalidate()
	if _, ok := c.Get(); ok {
		t.Fatalf("invalidated value still served")
	}
}

type countingReader struct {
	rows  [][]string
	calls int
	err   error
}

func (r *countingReader) ReadAllRows(context.Context) ([][]string, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.rows, nil
}

func (r *countingReader) ReadColumn(context.Context, int) ([]string, error) {
	panic("cached reader must not delegate column reads")
}

func TestRowReaderCaches(t *testing.T) {
	src := &countingReader{rows: [][]string{
		{"Date", "Description", "Amount", "Category", "Account", "Transaction ID", "Pending", "Merchant Name"},
		{"2024-01-10", "Purchase", "-10", "Buy", "A", "tx_001", "No", ""},
		{"2024-01-11", "Short row"},
	}}
	r := NewRowReader(src, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rows, err := r.ReadAllRows(ctx)
		if err != nil || len(rows) != 3 {
			t.Fatalf("read %d: rows=%v err=%v", i, rows, err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("source read %d times, want 1", src.calls)
	}

	// Column reads come from the cached rows, header excluded, short
	// rows padded.
	ids, err := r.ReadColumn(ctx, 5)
	if err != nil {
		t.Fatalf("ReadColumn: %v", err)
	}
	if len(ids) != 2 || ids[0] != "tx_001" || ids[1] != "" {
		t.Fatalf("ids %v", ids)
	}
	if src.calls != 1 {
		t.Fatalf("column read hit the source")
	}

	r.Invalidate()
	if _, err := r.ReadAllRows(ctx); err != nil {
		t.Fatalf("post-invalidate read: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("invalidate did not force a source read")
	}
}

func TestRowReaderSourceError(t *testing.T) {
	src := &countingReader{err: errors.New("unreachable")}
	r := NewRowReader(src, time.Minute)
	if _, err := r.ReadAllRows(context.Background()); err == nil {
		t.Fatalf("source error swallowed")
	}
	// Errors are not cached.
	src.err = nil
	src.rows = [][]string{{"Date"}}
	if rows, err := r.ReadAllRows(context.Background()); err != nil || len(rows) != 1 {
		t.Fatalf("recovery read rows=%v err=%v", rows, err)
	}
}
