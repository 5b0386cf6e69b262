package classify

import (
	"strings"

	"github.com/shopspring/decimal"

	"folio/internal/core"
)

// incomeKeywords is the fallback heuristic applied when no rule matched.
var incomeKeywords = []string{"income", "deposit", "payroll"}

// Classify maps a transaction description and merchant name to a
// category. It is a pure function: identical inputs always yield the
// same category. Rules are scanned in table order, overrides first, and
// the first rule with any keyword appearing in the description or
// merchant wins. Matching is case-insensitive substring matching, so a
// short keyword can over-match; that is the documented behavior, not a
// defect to tighten.
func Classify(table Table, description, merchant string) core.Category {
	description = strings.ToLower(description)
	merchant = strings.ToLower(merchant)

	for _, tier := range [][]Rule{table.Overrides, table.Defaults} {
		for _, rule := range tier {
			for _, kw := range rule.Keywords {
				if kw == "" {
					continue
				}
				if strings.Contains(description, kw) || strings.Contains(merchant, kw) {
					return rule.Category
				}
			}
		}
	}

	for _, kw := range incomeKeywords {
		if strings.Contains(description, kw) {
			return core.CategoryIncome
		}
	}
	return core.CategoryOther
}

// Keyword families consulted by the sign-aware classifier. These are
// broader than the rule-table keywords on purpose.
var (
	buyWords  = []string{"purchase", "accumulate", "long position", "acquisition", "investment in"}
	sellWords = []string{"sell", "liquidate", "close position", "divestment", "profit-taking"}
	feeWords  = []string{"fee", "expense", "commission", "research", "audit"}
)

// TypeOf is the sign-aware transaction type classifier used by the
// aggregation engine. Unlike Classify it consults the amount sign: a
// purchase-family keyword only yields Buy on an outflow, a sale-family
// keyword only yields Sell on an inflow. The two classifiers can
// disagree on edge cases such as a positive-amount purchase refund;
// that divergence is expected.
func TypeOf(description string, amount decimal.Decimal) core.Category {
	desc := strings.ToLower(description)
	switch {
	case strings.Contains(desc, "initial fund capital"):
		return core.CategoryCapital
	case amount.IsNegative() && containsAny(desc, buyWords):
		return core.CategoryBuy
	case amount.IsPositive() && containsAny(desc, sellWords):
		return core.CategorySell
	case strings.Contains(desc, "dividend"):
		return core.CategoryDividend
	case amount.IsNegative() && containsAny(desc, feeWords):
		return core.CategoryFee
	default:
		return core.CategoryOther
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
