// Package classify assigns semantic categories to transactions using an
// ordered keyword rule table, with an optional override tier supplied by
// the persistence sink.
package classify

import (
	"strings"

	"folio/internal/core"
)

type (
	// Rule pairs a category with the lowercase keywords that select it.
	Rule struct {
		Category core.Category
		Keywords []string
	}

	// Table is the two-tier rule set consulted during classification.
	// Overrides come from an external source (the Categories worksheet)
	// and are scanned before the built-in defaults. A Table is read-only
	// for the duration of a batch.
	Table struct {
		Overrides []Rule
		Defaults  []Rule
	}
)

// DefaultRules returns the built-in rule tier. Order matters: the first
// matching rule wins.
func DefaultRules() []Rule {
	return []Rule{
		{core.CategoryBuy, []string{"purchase", "accumulate", "long position", "strategic acquisition", "initial investment"}},
		{core.CategorySell, []string{"sell", "liquidate", "close position", "profit-taking", "strategic divestment"}},
		{core.CategoryDividend, []string{"dividend", "payout", "income"}},
		{core.CategoryFee, []string{"management fee", "administrative expense", "trading commission", "research", "audit", "performance fee"}},
		{core.CategoryCapital, []string{"initial fund capital", "deployment"}},
	}
}

// NewTable builds a table from external override rules layered over the
// built-in defaults. A nil or empty override slice leaves only the
// defaults in effect.
func NewTable(overrides []Rule) Table {
	return Table{Overrides: overrides, Defaults: DefaultRules()}
}

// ParseRuleRows converts Categories-worksheet rows into rules. The first
// row is assumed to be a header. Each data row is "Category, comma
// separated keywords"; rows naming a category outside the taxonomy, or
// with no keyword column, are skipped.
func ParseRuleRows(rows [][]string) []Rule {
	var rules []Rule
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		category, err := core.ParseCategory(strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		var keywords []string
		for _, kw := range strings.Split(row[1], ",") {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		rules = append(rules, Rule{Category: category, Keywords: keywords})
	}
	return rules
}
