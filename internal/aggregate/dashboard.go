package aggregate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"folio/internal/batch"
	"folio/internal/core"
	"folio/internal/sheets"
)

// BuildDashboard lays the derived tables out as logical dashboard
// writes plus best-effort formats. The layout mirrors the reporting
// dashboard consumers already depend on: summary and allocation blocks
// in columns A:B, chart-data blocks in columns D onward. The caller
// flushes the writes through the batch scheduler.
func BuildDashboard(txs []core.Transaction) ([]sheets.ValueWrite, []batch.Format) {
	var writes []sheets.ValueWrite
	var formats []batch.Format

	cell := func(location, value string) {
		writes = append(writes, sheets.ValueWrite{Location: location, Values: [][]string{{value}}})
	}
	grid := func(location string, values [][]string) {
		if len(values) > 0 {
			writes = append(writes, sheets.ValueWrite{Location: location, Values: values})
		}
	}
	bold := func(location string, fontSize int) {
		formats = append(formats, batch.Format{
			Location: location,
			Style:    sheets.CellStyle{Bold: true, FontSize: fontSize},
		})
	}

	cell("A1", "Investment Dashboard")
	bold("A1", 14)

	summary := Summarize(txs)
	cell("A3", "Portfolio Summary")
	bold("A3", 0)
	grid("A4", [][]string{
		{"Total Capital Deployed:", currency(summary.TotalCapital)},
		{"Total Stock Purchases:", currency(summary.TotalBuy.Abs())},
		{"Total Stock Sales:", currency(summary.TotalSell)},
		{"Total Dividend Income:", currency(summary.TotalDividend)},
		{"Total Fees:", currency(summary.TotalFee.Abs())},
		{"Current Portfolio Value:", currency(summary.PortfolioValue)},
	})

	allocation := FundAllocation(txs)
	cell("A11", "Fund Allocation")
	bold("A11", 0)
	allocationRows := make([][]string, 0, len(allocation))
	for _, a := range allocation {
		allocationRows = append(allocationRows, []string{a.Account, currency(a.Amount)})
	}
	grid("A12", allocationRows)

	holdings := StockHoldings(txs)
	holdingsStart := len(allocation) + 14
	cell(fmt.Sprintf("A%d", holdingsStart), "Stock Holdings")
	bold(fmt.Sprintf("A%d", holdingsStart), 0)
	holdingRows := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		holdingRows = append(holdingRows, []string{h.Symbol, currency(h.Amount)})
	}
	grid(fmt.Sprintf("A%d", holdingsStart+1), holdingRows)

	cell("D3", "Chart Data")
	bold("D3", 0)

	matrix := MonthlyByCategory(txs)
	cell("D4", "Monthly Activity by Category")
	header := []string{"Month"}
	for _, c := range matrix.Categories {
		header = append(header, string(c))
	}
	grid("D5", [][]string{header})
	monthlyRows := make([][]string, 0, len(matrix.Months))
	for _, m := range matrix.Months {
		row := []string{m}
		for _, c := range matrix.Categories {
			row = append(row, matrix.Cells[m][c].StringFixed(2))
		}
		monthlyRows = append(monthlyRows, row)
	}
	grid("D6", monthlyRows)

	// Open positions carry a negative signed sum; the chart data block
	// presents them as positive sizes.
	stockStart := len(monthlyRows) + 8
	cell(fmt.Sprintf("D%d", stockStart), "Stock Allocation")
	grid(fmt.Sprintf("D%d", stockStart+1), [][]string{{"Stock", "Amount"}})
	var openRows [][]string
	for _, h := range holdings {
		if h.Amount.IsNegative() {
			openRows = append(openRows, []string{h.Symbol, h.Amount.Abs().StringFixed(2)})
		}
	}
	grid(fmt.Sprintf("D%d", stockStart+2), openRows)

	fundStart := stockStart + len(openRows) + 4
	cell(fmt.Sprintf("D%d", fundStart), "Fund Performance")
	grid(fmt.Sprintf("D%d", fundStart+1), [][]string{{"Fund", "Value"}})
	fundRows := make([][]string, 0, len(allocation))
	for _, a := range allocation {
		fundRows = append(fundRows, []string{a.Account, a.Amount.StringFixed(2)})
	}
	grid(fmt.Sprintf("D%d", fundStart+2), fundRows)

	dividends := DividendBySymbol(txs)
	if len(dividends) > 0 {
		divStart := fundStart + len(fundRows) + 4
		cell(fmt.Sprintf("D%d", divStart), "Dividend Income by Stock")
		grid(fmt.Sprintf("D%d", divStart+1), [][]string{{"Stock", "Dividend"}})
		divRows := make([][]string, 0, len(dividends))
		for _, d := range dividends {
			divRows = append(divRows, []string{d.Symbol, d.Amount.StringFixed(2)})
		}
		grid(fmt.Sprintf("D%d", divStart+2), divRows)
	}

	return writes, formats
}

// currency renders an amount as "$1,234.56"; the sign follows the
// dollar symbol for negative values.
func currency(d decimal.Decimal) string {
	negative := d.IsNegative()
	fixed := d.Abs().StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	grouped := groupThousands(parts[0])
	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("$%s%s.%s", sign, grouped, parts[1])
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
