// Package aggregate derives reporting tables from the full classified
// transaction set. Every table is an independent pure reduction,
// rebuilt from scratch on each run; nothing here is patched
// incrementally, and nothing here knows about the sink or its rate
// limits.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"folio/internal/classify"
	"folio/internal/core"
)

type (
	AccountAmount struct {
		Account string
		Amount  decimal.Decimal
	}

	SymbolAmount struct {
		Symbol string
		Amount decimal.Decimal
	}

	MonthAmount struct {
		Month  string
		Amount decimal.Decimal
	}

	CategoryCount struct {
		Category core.Category
		Count    int
	}

	// MonthlyMatrix is the dense (month, category) sum table: every
	// month present in the data has a cell for every category present
	// anywhere in the data, zero-filled when that combination never
	// occurred. Months are in ascending YYYY-MM order.
	MonthlyMatrix struct {
		Months     []string
		Categories []core.Category
		Cells      map[string]map[core.Category]decimal.Decimal
	}

	// Summary holds the portfolio headline figures derived from the
	// ingestion-assigned categories. Sums are signed as stored; the
	// rendering layer decides about absolute-value presentation.
	Summary struct {
		TotalCapital   decimal.Decimal
		TotalBuy       decimal.Decimal
		TotalSell      decimal.Decimal
		TotalDividend  decimal.Decimal
		TotalFee       decimal.Decimal
		PortfolioValue decimal.Decimal
	}
)

// FundAllocation sums signed amounts per account, ordered by ascending
// amount (largest outflows first).
func FundAllocation(txs []core.Transaction) []AccountAmount {
	sums := map[string]decimal.Decimal{}
	for _, t := range txs {
		sums[t.Account] = sums[t.Account].Add(t.Amount)
	}
	out := make([]AccountAmount, 0, len(sums))
	for account, amount := range sums {
		out = append(out, AccountAmount{Account: account, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.LessThan(out[j].Amount)
		}
		return out[i].Account < out[j].Account
	})
	return out
}

// StockHoldings sums signed amounts per stock symbol, ascending.
// Transactions without a symbol are excluded. A negative sum means the
// position is still open under the buys-are-outflows convention; the
// values stay signed here, inversion is a presentation decision.
func StockHoldings(txs []core.Transaction) []SymbolAmount {
	sums := map[string]decimal.Decimal{}
	for _, t := range txs {
		symbol := t.Symbol()
		if symbol == "" {
			continue
		}
		sums[symbol] = sums[symbol].Add(t.Amount)
	}
	return sortedSymbols(sums, true)
}

// DividendBySymbol sums dividend income per stock symbol, descending.
// Dividends are selected with the sign-aware type classifier.
func DividendBySymbol(txs []core.Transaction) []SymbolAmount {
	sums := map[string]decimal.Decimal{}
	for _, t := range txs {
		if classify.TypeOf(t.Description, t.Amount) != core.CategoryDividend {
			continue
		}
		symbol := t.Symbol()
		if symbol == "" {
			continue
		}
		sums[symbol] = sums[symbol].Add(t.Amount)
	}
	return sortedSymbols(sums, false)
}

// MonthlyByCategory builds the dense (month, category) sum matrix from
// the ingestion-assigned categories.
func MonthlyByCategory(txs []core.Transaction) MonthlyMatrix {
	monthSet := map[string]struct{}{}
	categorySet := map[core.Category]struct{}{}
	sums := map[string]map[core.Category]decimal.Decimal{}

	for _, t := range txs {
		month := t.Month()
		monthSet[month] = struct{}{}
		categorySet[t.Category] = struct{}{}
		if sums[month] == nil {
			sums[month] = map[core.Category]decimal.Decimal{}
		}
		sums[month][t.Category] = sums[month][t.Category].Add(t.Amount)
	}

	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	var categories []core.Category
	for _, c := range core.Categories {
		if _, present := categorySet[c]; present {
			categories = append(categories, c)
		}
	}

	cells := make(map[string]map[core.Category]decimal.Decimal, len(months))
	for _, m := range months {
		cells[m] = make(map[core.Category]decimal.Decimal, len(categories))
		for _, c := range categories {
			cells[m][c] = sums[m][c]
		}
	}
	return MonthlyMatrix{Months: months, Categories: categories, Cells: cells}
}

// CumulativeBalance returns the running sum of all amounts per month in
// strict chronological order. Lexicographic ordering of YYYY-MM months
// coincides with chronological ordering.
func CumulativeBalance(txs []core.Transaction) []MonthAmount {
	sums := map[string]decimal.Decimal{}
	for _, t := range txs {
		month := t.Month()
		sums[month] = sums[month].Add(t.Amount)
	}
	months := make([]string, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthAmount, 0, len(months))
	running := decimal.Zero
	for _, m := range months {
		running = running.Add(sums[m])
		out = append(out, MonthAmount{Month: m, Amount: running})
	}
	return out
}

// TypeCounts counts transactions per sign-aware type, in taxonomy
// order, omitting types with no transactions.
func TypeCounts(txs []core.Transaction) []CategoryCount {
	counts := map[core.Category]int{}
	for _, t := range txs {
		counts[classify.TypeOf(t.Description, t.Amount)]++
	}
	var out []CategoryCount
	for _, c := range core.Categories {
		if counts[c] > 0 {
			out = append(out, CategoryCount{Category: c, Count: counts[c]})
		}
	}
	return out
}

// Summarize computes the portfolio headline figures.
func Summarize(txs []core.Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Category {
		case core.CategoryCapital:
			s.TotalCapital = s.TotalCapital.Add(t.Amount)
		case core.CategoryBuy:
			s.TotalBuy = s.TotalBuy.Add(t.Amount)
		case core.CategorySell:
			s.TotalSell = s.TotalSell.Add(t.Amount)
		case core.CategoryDividend:
			s.TotalDividend = s.TotalDividend.Add(t.Amount)
		case core.CategoryFee:
			s.TotalFee = s.TotalFee.Add(t.Amount)
		}
	}
	s.PortfolioValue = s.TotalCapital.
		Add(s.TotalBuy).
		Add(s.TotalSell).
		Add(s.TotalDividend).
		Add(s.TotalFee)
	return s
}

func sortedSymbols(sums map[string]decimal.Decimal, ascending bool) []SymbolAmount {
	out := make([]SymbolAmount, 0, len(sums))
	for symbol, amount := range sums {
		out = append(out, SymbolAmount{Symbol: symbol, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			if ascending {
				return out[i].Amount.LessThan(out[j].Amount)
			}
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
