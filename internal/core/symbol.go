package core

import "regexp"

// Descriptions reference tickers as a parenthesized all-caps token, e.g.
// "Purchase of Apple (AAPL)" or "Dividend payout (BRK.B)".
var symbolPattern = regexp.MustCompile(`\(([A-Z\.]+)\)`)

// ExtractStockSymbol returns the first parenthesized all-caps token in
// the description, or "" when there is none.
func ExtractStockSymbol(description string) string {
	m := symbolPattern.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	return m[1]
}
