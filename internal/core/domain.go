package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the closed set of semantic transaction categories.
type Category string

const (
	CategoryBuy      Category = "Buy"
	CategorySell     Category = "Sell"
	CategoryDividend Category = "Dividend"
	CategoryFee      Category = "Fee"
	CategoryCapital  Category = "Capital"
	CategoryIncome   Category = "Income"
	CategoryOther    Category = "Other"
)

// Categories lists every valid category in a stable order.
var Categories = []Category{
	CategoryBuy,
	CategorySell,
	CategoryDividend,
	CategoryFee,
	CategoryCapital,
	CategoryIncome,
	CategoryOther,
}

var (
	ErrMalformedAmount = errors.New("malformed amount")
	ErrSinkUnavailable = errors.New("persistence sink unavailable")
	ErrInvalidCategory = errors.New("invalid category")
	ErrEmptyID         = errors.New("empty transaction id")
)

const (
	// DefaultAccount is used when the source record carries no account label.
	DefaultAccount = "Unknown"
	// DefaultPending is used when the source record carries no pending flag.
	DefaultPending = "No"
)

type (
	// Transaction is the canonical, immutable record produced by the
	// normalizer and classifier. Amount sign convention: negative is an
	// outflow (buys, fees), positive is an inflow (sales, dividends).
	Transaction struct {
		// Date is the YYYY-MM-DD rendering of the transaction date. When
		// the source date could not be parsed the raw string is retained
		// verbatim and DateParsed is false.
		Date        string
		DateParsed  bool
		Description string
		Amount      decimal.Decimal
		Category    Category
		Account     string
		ID          string
		Pending     string
		Merchant    string
	}
)

// ParseCategory maps a string onto the closed category set.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Month returns the YYYY-MM truncation of the transaction date.
// Lexicographic ordering of the result coincides with chronological
// ordering, which the cumulative balance table relies on.
func (t Transaction) Month() string {
	if len(t.Date) >= 7 {
		return t.Date[:7]
	}
	return t.Date
}

// Symbol returns the stock symbol derived from the description, or ""
// when the description carries no parenthesized ticker.
func (t Transaction) Symbol() string {
	return ExtractStockSymbol(t.Description)
}

func (t Transaction) Validate() error {
	if t.ID == "" {
		return ErrEmptyID
	}
	if _, err := ParseCategory(string(t.Category)); err != nil {
		return err
	}
	return nil
}
