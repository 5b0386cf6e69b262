// Package ingest turns raw CSV records into canonical classified
// transactions and appends them to the persistence sink, skipping
// records that were already imported.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Record is one raw CSV row keyed by header name. Expected columns:
// Date, Description, Amount, Account, Merchant, TransactionID, Pending.
type Record map[string]string

// ReadRecords reads every record from a headered CSV stream.
func ReadRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(records)+2, err)
		}
		rec := make(Record, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
