package cache

import (
	"context"
	"time"

	"folio/internal/sheets"
)

// RowReader caches the transaction worksheet in front of a slow sink.
// The dashboard rebuild and the chart render both read the full sheet;
// putting this in front of the sink turns those into one remote read.
// Invalidate after appending rows.
type RowReader struct {
	src  sheets.RowReader
	rows *Expiring[[][]string]
}

// NewRowReader wraps src with an expiring row cache.
func NewRowReader(src sheets.RowReader, ttl time.Duration) *RowReader {
	return &RowReader{
		src:  src,
		rows: NewExpiring[[][]string](ttl),
	}
}

// ReadAllRows returns the cached rows, fetching from the source when
// the cache is empty or expired.
func (r *RowReader) ReadAllRows(ctx context.Context) ([][]string, error) {
	if rows, ok := r.rows.Get(); ok {
		return rows, nil
	}
	rows, err := r.src.ReadAllRows(ctx)
	if err != nil {
		return nil, err
	}
	r.rows.Set(rows)
	return rows, nil
}

// ReadColumn extracts one column from the cached rows, header excluded.
// Rows shorter than the requested column contribute an empty string.
func (r *RowReader) ReadColumn(ctx context.Context, index int) ([]string, error) {
	rows, err := r.ReadAllRows(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if index < len(row) {
			out = append(out, row[index])
		} else {
			out = append(out, "")
		}
	}
	return out, nil
}

// Invalidate drops the cached rows so the next read hits the source.
func (r *RowReader) Invalidate() {
	r.rows.Invalidate()
}
