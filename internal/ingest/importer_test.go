package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"folio/internal/classify"
	"folio/internal/core"
	"folio/internal/sheets/memory"
)

const csvHeader = "Date,Description,Amount,Account,Merchant,TransactionID,Pending\n"

func sampleCSV() string {
	return csvHeader +
		"2024-01-02,Initial fund capital,100000.00,Fund,,tx_001,No\n" +
		"2024-01-10,Purchase of Apple (AAPL),-1250.50,Brokerage,Broker Inc,tx_002,No\n" +
		"2024-02-05,Dividend payment (AAPL),37.50,Brokerage,,tx_003,No\n" +
		"2024-02-20,Management fee Q1,-75.00,Fund,,tx_004,No\n"
}

func newTestImporter(sink *memory.Store) *Importer {
	imp := NewImporter(sink, Config{DateLayout: "2006-01-02", BatchSize: 10})
	imp.sleep = func(time.Duration) {}
	imp.sched.WithSleep(func(time.Duration) {})
	return imp
}

func TestImportCSV(t *testing.T) {
	sink := memory.New()
	imp := newTestImporter(sink)

	summary, err := imp.ImportCSV(context.Background(), strings.NewReader(sampleCSV()))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if summary.RunID == "" {
		t.Fatalf("no run id assigned")
	}
	if summary.Read != 4 || summary.Imported != 4 || summary.Duplicates != 0 || summary.Malformed != 0 {
		t.Fatalf("summary %+v", summary)
	}

	rows, _ := sink.ReadAllRows(context.Background())
	if len(rows) != 5 {
		t.Fatalf("sheet holds %d rows, want header + 4", len(rows))
	}

	txs, err := LoadTransactions(context.Background(), sink)
	if err != nil {
		t.Fatalf("LoadTransactions: %v", err)
	}
	wantCategories := map[string]core.Category{
		"tx_001": core.CategoryCapital,
		"tx_002": core.CategoryBuy,
		"tx_003": core.CategoryDividend,
		"tx_004": core.CategoryFee,
	}
	for _, tx := range txs {
		if tx.Category != wantCategories[tx.ID] {
			t.Fatalf("%s classified %s, want %s", tx.ID, tx.Category, wantCategories[tx.ID])
		}
	}

	// The dashboard was rebuilt after a non-empty import.
	if title := sink.Cell("A1"); len(title) == 0 || title[0][0] != "Investment Dashboard" {
		t.Fatalf("dashboard title not written: %v", title)
	}
}

func TestImportCSVIdempotent(t *testing.T) {
	sink := memory.New()
	imp := newTestImporter(sink)

	if _, err := imp.ImportCSV(context.Background(), strings.NewReader(sampleCSV())); err != nil {
		t.Fatalf("first import: %v", err)
	}
	summary, err := imp.ImportCSV(context.Background(), strings.NewReader(sampleCSV()))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if summary.Imported != 0 || summary.Duplicates != 4 {
		t.Fatalf("re-import summary %+v, want 0 imported, 4 duplicates", summary)
	}
	rows, _ := sink.ReadAllRows(context.Background())
	if len(rows) != 5 {
		t.Fatalf("re-import grew the sheet to %d rows", len(rows))
	}
}

func TestImportCSVWithinBatchDuplicate(t *testing.T) {
	sink := memory.New()
	imp := newTestImporter(sink)

	in := csvHeader +
		"2024-01-10,Purchase of Apple (AAPL),-100,Brokerage,,tx_dup,No\n" +
		"2024-01-11,Purchase of Apple (AAPL),-200,Brokerage,,tx_dup,No\n"
	summary, err := imp.ImportCSV(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if summary.Imported != 1 || summary.Duplicates != 1 {
		t.Fatalf("summary %+v, want first occurrence only", summary)
	}
	txs, _ := LoadTransactions(context.Background(), sink)
	if len(txs) != 1 || txs[0].Amount.String() != "-100" {
		t.Fatalf("surviving transaction %+v, want the first occurrence", txs)
	}
}

func TestImportCSVMalformedAmount(t *testing.T) {
	sink := memory.New()
	imp := newTestImporter(sink)

	in := csvHeader +
		"2024-01-10,Purchase of Apple (AAPL),not-a-number,Brokerage,,tx_001,No\n" +
		"2024-01-11,Dividend payment (KO),37.50,Brokerage,,tx_002,No\n"
	summary, err := imp.ImportCSV(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if summary.Malformed != 1 || summary.Imported != 1 {
		t.Fatalf("summary %+v, want 1 malformed, 1 imported", summary)
	}
}

func TestImportCSVUnreachableSink(t *testing.T) {
	sink := memory.New()
	sink.Unreachable = true
	imp := newTestImporter(sink)

	_, err := imp.ImportCSV(context.Background(), strings.NewReader(sampleCSV()))
	if !errors.Is(err, core.ErrSinkUnavailable) {
		t.Fatalf("expected ErrSinkUnavailable, got %v", err)
	}
}

func TestImportCSVOverrideRules(t *testing.T) {
	sink := memory.NewWithRules([]classify.Rule{
		{Category: core.CategoryFee, Keywords: []string{"apple"}},
	})
	imp := newTestImporter(sink)

	in := csvHeader + "2024-01-10,Purchase of Apple (AAPL),-100,Brokerage,,tx_001,No\n"
	if _, err := imp.ImportCSV(context.Background(), strings.NewReader(in)); err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	txs, _ := LoadTransactions(context.Background(), sink)
	if len(txs) != 1 || txs[0].Category != core.CategoryFee {
		t.Fatalf("override rule not applied: %+v", txs)
	}
}

func TestImportCSVAppendPacing(t *testing.T) {
	sink := memory.New()
	imp := NewImporter(sink, Config{DateLayout: "2006-01-02", BatchSize: 10, Delay: 500 * time.Millisecond})
	var sleeps int
	imp.sleep = func(time.Duration) { sleeps++ }
	imp.sched.WithSleep(func(time.Duration) {})

	var b strings.Builder
	b.WriteString(csvHeader)
	for i := 0; i < 23; i++ {
		fmt.Fprintf(&b, "2024-01-10,Purchase of Apple (AAPL),-10,Brokerage,,tx_%03d,No\n", i)
	}
	summary, err := imp.ImportCSV(context.Background(), strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if summary.Imported != 23 {
		t.Fatalf("imported %d, want 23", summary.Imported)
	}
	// 23 appends in groups of 10 pause after groups 1 and 2 only.
	if sleeps != 2 {
		t.Fatalf("slept %d times, want 2", sleeps)
	}
}

func TestImportCSVEmptyInput(t *testing.T) {
	sink := memory.New()
	imp := newTestImporter(sink)

	summary, err := imp.ImportCSV(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if summary.Read != 0 || summary.Imported != 0 {
		t.Fatalf("summary %+v", summary)
	}
	// Nothing imported, dashboard untouched.
	if sink.GridLen() != 0 {
		t.Fatalf("dashboard written on empty import")
	}
}

func TestImportCSVFailedDashboardGroups(t *testing.T) {
	sink := memory.New()
	imp := newTestImporter(sink)

	sink.FailBatchWrites = 1
	summary, err := imp.ImportCSV(context.Background(), strings.NewReader(sampleCSV()))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if summary.Imported != 4 {
		t.Fatalf("imported %d, want 4", summary.Imported)
	}
	if summary.FailedGroups != 1 {
		t.Fatalf("failed groups %d, want 1", summary.FailedGroups)
	}
}

func TestRefreshDashboard(t *testing.T) {
	sink := memory.New()
	imp := newTestImporter(sink)

	if _, err := imp.ImportCSV(context.Background(), strings.NewReader(sampleCSV())); err != nil {
		t.Fatalf("import: %v", err)
	}
	res, err := imp.RefreshDashboard(context.Background())
	if err != nil {
		t.Fatalf("RefreshDashboard: %v", err)
	}
	if res.Groups == 0 || res.FailedGroups != 0 {
		t.Fatalf("result %+v", res)
	}
	if title := sink.Cell("A1"); len(title) == 0 || title[0][0] != "Investment Dashboard" {
		t.Fatalf("dashboard title missing after refresh")
	}
}

func TestRefreshDashboardUnreachable(t *testing.T) {
	sink := memory.New()
	imp := newTestImporter(sink)
	sink.Unreachable = true
	if _, err := imp.RefreshDashboard(context.Background()); !errors.Is(err, core.ErrSinkUnavailable) {
		t.Fatalf("expected ErrSinkUnavailable, got %v", err)
	}
}
