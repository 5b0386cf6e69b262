package ingest

import (
	"errors"
	"testing"
	"time"

	"folio/internal/core"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer("2006-01-02")
	tx, err := n.Normalize(Record{
		"Date":          "2024-03-15",
		"Description":   "Purchase of Apple (AAPL)",
		"Amount":        "$1,250.50",
		"Account":       "Brokerage",
		"Merchant":      "Broker Inc",
		"TransactionID": "tx_001",
		"Pending":       "No",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if tx.Date != "2024-03-15" || !tx.DateParsed {
		t.Fatalf("date %q parsed=%v", tx.Date, tx.DateParsed)
	}
	if tx.Amount.String() != "1250.5" {
		t.Fatalf("amount %s", tx.Amount)
	}
	if tx.ID != "tx_001" || tx.Account != "Brokerage" || tx.Pending != "No" {
		t.Fatalf("fields lost: %+v", tx)
	}
	if tx.Category != core.CategoryOther {
		t.Fatalf("normalizer classified: %s", tx.Category)
	}
}

func TestNormalizeCustomDateLayout(t *testing.T) {
	n := NewNormalizer("01/02/2006")
	tx, err := n.Normalize(Record{"Date": "03/15/2024", "Amount": "1", "TransactionID": "tx"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if tx.Date != "2024-03-15" || !tx.DateParsed {
		t.Fatalf("date not canonicalized: %q parsed=%v", tx.Date, tx.DateParsed)
	}
}

func TestNormalizeUnparseableDateKept(t *testing.T) {
	n := NewNormalizer("2006-01-02")
	tx, err := n.Normalize(Record{"Date": "sometime in March", "Amount": "1", "TransactionID": "tx"})
	if err != nil {
		t.Fatalf("bad date rejected the record: %v", err)
	}
	if tx.Date != "sometime in March" || tx.DateParsed {
		t.Fatalf("raw date not flagged: %q parsed=%v", tx.Date, tx.DateParsed)
	}
}

func TestNormalizeMalformedAmountRejects(t *testing.T) {
	n := NewNormalizer("2006-01-02")
	_, err := n.Normalize(Record{"Date": "2024-01-02", "Amount": "N/A", "TransactionID": "tx"})
	if !errors.Is(err, core.ErrMalformedAmount) {
		t.Fatalf("expected ErrMalformedAmount, got %v", err)
	}
}

func TestNormalizeSynthesizedIDs(t *testing.T) {
	n := NewNormalizer("2006-01-02")
	n.now = func() time.Time { return time.Unix(1700000000, 0) }

	first, err := n.Normalize(Record{"Date": "2024-01-02", "Amount": "1"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	second, err := n.Normalize(Record{"Date": "2024-01-02", "Amount": "2"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if first.ID != "csv_0_1700000000" {
		t.Fatalf("first id %q", first.ID)
	}
	if second.ID != "csv_1_1700000000" {
		t.Fatalf("second id %q", second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("synthesized ids collide within a run")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	n := NewNormalizer("2006-01-02")
	tx, err := n.Normalize(Record{"Date": "2024-01-02", "Amount": "1", "TransactionID": "tx"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if tx.Account != core.DefaultAccount {
		t.Fatalf("account %q, want %q", tx.Account, core.DefaultAccount)
	}
	if tx.Pending != core.DefaultPending {
		t.Fatalf("pending %q, want %q", tx.Pending, core.DefaultPending)
	}
}
