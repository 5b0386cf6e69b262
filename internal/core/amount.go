// Package core defines the canonical transaction model shared by the
// ingestion, classification and aggregation layers.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a signed decimal amount string. Amounts exported by
// banks and brokers frequently carry a currency symbol and thousand
// separators ("$1,250.50"); those are stripped and the parse retried
// before giving up. A string that still fails to parse yields
// ErrMalformedAmount; the amount is never silently defaulted to zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if d, err := decimal.NewFromString(s); err == nil {
		return d, nil
	}
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return d, nil
}
