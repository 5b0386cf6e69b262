// Package charts is the rendering sink: it consumes the aggregated
// tables and produces one PNG per chart type. A chart that fails to
// render is logged and skipped; the remaining charts are still
// produced.
package charts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/sync/errgroup"

	"folio/internal/aggregate"
	"folio/internal/classify"
	"folio/internal/core"
)

const (
	chartWidth  = 1024
	chartHeight = 640
)

// Renderer writes chart PNGs into OutputDir.
type Renderer struct {
	OutputDir string
}

func NewRenderer(outputDir string) *Renderer {
	return &Renderer{OutputDir: outputDir}
}

// renderable is the common Render surface of go-chart's chart types.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

type chartDef struct {
	file  string
	build func(txs []core.Transaction) (renderable, bool)
}

var defs = []chartDef{
	{"1_portfolio_allocation.png", buildAllocationPie},
	{"2_stock_holdings.png", buildHoldingsBar},
	{"3_monthly_activity.png", buildMonthlyBar},
	{"4_portfolio_growth.png", buildGrowthLine},
	{"5_fund_performance.png", buildFundBar},
	{"6_dividend_income.png", buildDividendBar},
	{"7_dividend_sources.png", buildDividendPie},
	{"8_transaction_counts.png", buildCountsBar},
}

// RenderAll renders every chart, returning how many rendered and how
// many failed. Charts with no underlying data are skipped silently and
// counted in neither figure.
func (r *Renderer) RenderAll(ctx context.Context, txs []core.Transaction) (rendered, failed int, err error) {
	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return 0, 0, fmt.Errorf("create chart output dir: %w", err)
	}

	var okCount, failCount atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for _, def := range defs {
		g.Go(func() error {
			c, ok := def.build(txs)
			if !ok {
				slog.InfoContext(ctx, "Skipping chart with no data", "file", def.file)
				return nil
			}
			if err := r.renderTo(def.file, c); err != nil {
				failCount.Add(1)
				slog.ErrorContext(ctx, "Chart render failed, continuing",
					"file", def.file, "error", err)
				return nil
			}
			okCount.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(okCount.Load()), int(failCount.Load()), err
	}
	return int(okCount.Load()), int(failCount.Load()), nil
}

func (r *Renderer) renderTo(file string, c renderable) error {
	path := filepath.Join(r.OutputDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := c.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

// buildAllocationPie charts where buy money went, per account. Buys
// are selected with the sign-aware classifier so refunds and sales
// don't dilute the allocation.
func buildAllocationPie(txs []core.Transaction) (renderable, bool) {
	sums := map[string]decimal.Decimal{}
	for _, t := range txs {
		if classify.TypeOf(t.Description, t.Amount) == core.CategoryBuy {
			sums[t.Account] = sums[t.Account].Add(t.Amount.Abs())
		}
	}
	var values []chart.Value
	for account, amount := range sums {
		if v := amount.InexactFloat64(); v > 0 {
			values = append(values, chart.Value{Label: account, Value: v})
		}
	}
	if len(values) == 0 {
		return nil, false
	}
	return &chart.PieChart{
		Title:  "Investment Allocation by Fund",
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}, true
}

func buildHoldingsBar(txs []core.Transaction) (renderable, bool) {
	var bars []chart.Value
	for _, h := range aggregate.StockHoldings(txs) {
		// Open positions only: negative signed sum means still held.
		if h.Amount.IsNegative() {
			bars = append(bars, chart.Value{Label: h.Symbol, Value: h.Amount.Abs().InexactFloat64()})
		}
	}
	if len(bars) == 0 {
		return nil, false
	}
	return &chart.BarChart{
		Title:    "Current Stock Holdings",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Bars:     bars,
	}, true
}

func buildMonthlyBar(txs []core.Transaction) (renderable, bool) {
	matrix := aggregate.MonthlyByCategory(txs)
	if len(matrix.Months) == 0 {
		return nil, false
	}
	bars := make([]chart.Value, 0, len(matrix.Months))
	for _, m := range matrix.Months {
		net := decimal.Zero
		for _, c := range matrix.Categories {
			net = net.Add(matrix.Cells[m][c])
		}
		bars = append(bars, chart.Value{Label: m, Value: net.InexactFloat64()})
	}
	return &chart.BarChart{
		Title:    "Monthly Transaction Activity",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 30,
		Bars:     bars,
	}, true
}

func buildGrowthLine(txs []core.Transaction) (renderable, bool) {
	balance := aggregate.CumulativeBalance(txs)
	if len(balance) < 2 {
		return nil, false
	}
	xs := make([]float64, len(balance))
	ys := make([]float64, len(balance))
	ticks := make([]chart.Tick, len(balance))
	for i, b := range balance {
		xs[i] = float64(i)
		ys[i] = b.Amount.InexactFloat64()
		ticks[i] = chart.Tick{Value: float64(i), Label: b.Month}
	}
	return &chart.Chart{
		Title:  "Cumulative Portfolio Value Over Time",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Ticks: ticks},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Balance", XValues: xs, YValues: ys},
		},
	}, true
}

func buildFundBar(txs []core.Transaction) (renderable, bool) {
	allocation := aggregate.FundAllocation(txs)
	if len(allocation) == 0 {
		return nil, false
	}
	bars := make([]chart.Value, 0, len(allocation))
	for _, a := range allocation {
		bars = append(bars, chart.Value{Label: a.Account, Value: a.Amount.InexactFloat64()})
	}
	return &chart.BarChart{
		Title:    "Fund Performance Comparison",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Bars:     bars,
	}, true
}

func buildDividendBar(txs []core.Transaction) (renderable, bool) {
	sums := map[string]decimal.Decimal{}
	var months []string
	for _, t := range txs {
		if classify.TypeOf(t.Description, t.Amount) != core.CategoryDividend {
			continue
		}
		m := t.Month()
		if _, seen := sums[m]; !seen {
			months = append(months, m)
		}
		sums[m] = sums[m].Add(t.Amount)
	}
	if len(months) == 0 {
		return nil, false
	}
	sort.Strings(months)
	bars := make([]chart.Value, 0, len(months))
	for _, m := range months {
		bars = append(bars, chart.Value{Label: m, Value: sums[m].InexactFloat64()})
	}
	return &chart.BarChart{
		Title:    "Dividend Income by Month",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 30,
		Bars:     bars,
	}, true
}

func buildDividendPie(txs []core.Transaction) (renderable, bool) {
	dividends := aggregate.DividendBySymbol(txs)
	var values []chart.Value
	for _, d := range dividends {
		if v := d.Amount.InexactFloat64(); v > 0 {
			values = append(values, chart.Value{Label: d.Symbol, Value: v})
		}
	}
	if len(values) == 0 {
		return nil, false
	}
	return &chart.PieChart{
		Title:  "Dividend Income by Stock",
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}, true
}

func buildCountsBar(txs []core.Transaction) (renderable, bool) {
	counts := aggregate.TypeCounts(txs)
	if len(counts) == 0 {
		return nil, false
	}
	bars := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, chart.Value{Label: string(c.Category), Value: float64(c.Count)})
	}
	return &chart.BarChart{
		Title:    "Number of Transactions by Type",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Bars:     bars,
	}, true
}
