package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"folio/internal/sheets"
)

func findWrite(writes []sheets.ValueWrite, location string) ([][]string, bool) {
	for _, w := range writes {
		if w.Location == location {
			return w.Values, true
		}
	}
	return nil, false
}

func TestBuildDashboardLayout(t *testing.T) {
	writes, formats := BuildDashboard(sampleTxs())

	title, ok := findWrite(writes, "A1")
	if !ok || title[0][0] != "Investment Dashboard" {
		t.Fatalf("title write missing: %v", title)
	}

	summary, ok := findWrite(writes, "A4")
	if !ok || len(summary) != 6 {
		t.Fatalf("summary block: %v", summary)
	}
	if summary[0][0] != "Total Capital Deployed:" || summary[0][1] != "$100,000.00" {
		t.Fatalf("capital row %v", summary[0])
	}
	// Buys and fees are presented as positive magnitudes.
	if summary[1][1] != "$3,250.50" {
		t.Fatalf("buy row %v", summary[1])
	}
	if summary[4][1] != "$75.00" {
		t.Fatalf("fee row %v", summary[4])
	}
	if summary[5][0] != "Current Portfolio Value:" || summary[5][1] != "$97,224.50" {
		t.Fatalf("portfolio row %v", summary[5])
	}

	if _, ok := findWrite(writes, "A11"); !ok {
		t.Fatalf("fund allocation header missing")
	}
	alloc, ok := findWrite(writes, "A12")
	if !ok || len(alloc) != 2 {
		t.Fatalf("allocation block: %v", alloc)
	}

	// Monthly matrix header carries the month column plus categories.
	header, ok := findWrite(writes, "D5")
	if !ok || header[0][0] != "Month" {
		t.Fatalf("matrix header: %v", header)
	}
	months, ok := findWrite(writes, "D6")
	if !ok || len(months) != 3 {
		t.Fatalf("matrix rows: %v", months)
	}
	if len(months[0]) != len(header[0]) {
		t.Fatalf("matrix row width %d, header width %d", len(months[0]), len(header[0]))
	}

	// Title is bold 14pt.
	if len(formats) == 0 || formats[0].Location != "A1" || !formats[0].Style.Bold || formats[0].Style.FontSize != 14 {
		t.Fatalf("title format %+v", formats)
	}
}

func TestBuildDashboardNoDividends(t *testing.T) {
	txs := sampleTxs()[:3]
	writes, _ := BuildDashboard(txs)
	for _, w := range writes {
		if len(w.Values) > 0 && w.Values[0][0] == "Dividend Income by Stock" {
			t.Fatalf("dividend block written with no dividends")
		}
	}
}

func TestCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234.56", "$1,234.56"},
		{"1250.5", "$1,250.50"},
		{"-50.25", "$-50.25"},
		{"0", "$0.00"},
		{"1000000", "$1,000,000.00"},
		{"999", "$999.00"},
	}
	for _, tc := range cases {
		got := currency(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Fatalf("currency(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
