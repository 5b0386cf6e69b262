package classify

import (
	"reflect"
	"testing"

	"folio/internal/core"
)

func TestParseRuleRows(t *testing.T) {
	rows := [][]string{
		{"Category", "Keywords"},
		{"Buy", "purchase, accumulate"},
		{"Fee", "management fee"},
		{"fee", " AUDIT , "},
		{"Groceries", "milk"},
		{"Sell"},
		{"", "orphan keywords"},
	}
	got := ParseRuleRows(rows)
	want := []Rule{
		{core.CategoryBuy, []string{"purchase", "accumulate"}},
		{core.CategoryFee, []string{"management fee"}},
		{core.CategoryFee, []string{"audit"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseRuleRows:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseRuleRowsEmpty(t *testing.T) {
	if got := ParseRuleRows(nil); got != nil {
		t.Fatalf("expected nil for no rows, got %+v", got)
	}
	if got := ParseRuleRows([][]string{{"Category", "Keywords"}}); got != nil {
		t.Fatalf("expected nil for header only, got %+v", got)
	}
}

func TestDefaultRulesCoverTaxonomy(t *testing.T) {
	covered := map[core.Category]bool{}
	for _, r := range DefaultRules() {
		covered[r.Category] = true
		if len(r.Keywords) == 0 {
			t.Fatalf("rule for %s has no keywords", r.Category)
		}
	}
	for _, c := range []core.Category{core.CategoryBuy, core.CategorySell, core.CategoryDividend, core.CategoryFee, core.CategoryCapital} {
		if !covered[c] {
			t.Fatalf("no default rule for %s", c)
		}
	}
}
