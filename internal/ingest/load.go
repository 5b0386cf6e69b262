package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/core"
	"folio/internal/sheets"
)

// LoadTransactions reads the full persisted transaction set back from
// the sink. Rows that no longer parse (hand-edited amounts, stray
// notes) are skipped with a log line rather than failing the load.
func LoadTransactions(ctx context.Context, reader sheets.RowReader) ([]core.Transaction, error) {
	rows, err := reader.ReadAllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read all rows: %w", err)
	}
	var txs []core.Transaction
	for i, row := range rows {
		if i == 0 {
			// Header row.
			continue
		}
		t, err := core.TransactionFromRow(row)
		if err != nil {
			slog.DebugContext(ctx, "Skipping unparseable persisted row", "row", i+1, "error", err)
			continue
		}
		txs = append(txs, t)
	}
	return txs, nil
}
