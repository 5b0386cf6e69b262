package core

import (
	"fmt"
	"time"
)

// SheetHeader is the fixed column layout of the Transactions worksheet.
var SheetHeader = []string{
	"Date", "Description", "Amount", "Category",
	"Account", "Transaction ID", "Pending", "Merchant Name",
}

// Column indexes into SheetHeader.
const (
	ColDate = iota
	ColDescription
	ColAmount
	ColCategory
	ColAccount
	ColTransactionID
	ColPending
	ColMerchant
)

// DateLayout is the canonical on-sheet date rendering.
const DateLayout = "2006-01-02"

// Row renders the transaction as a Transactions-worksheet row.
func (t Transaction) Row() []string {
	return []string{
		t.Date,
		t.Description,
		t.Amount.String(),
		string(t.Category),
		t.Account,
		t.ID,
		t.Pending,
		t.Merchant,
	}
}

// TransactionFromRow rebuilds a transaction from a persisted worksheet
// row. Rows with an unparseable amount are rejected; an unknown category
// falls back to Other rather than failing, since older rows may predate
// the current taxonomy.
func TransactionFromRow(row []string) (Transaction, error) {
	if len(row) < len(SheetHeader) {
		padded := make([]string, len(SheetHeader))
		copy(padded, row)
		row = padded
	}
	amount, err := ParseAmount(row[ColAmount])
	if err != nil {
		return Transaction{}, fmt.Errorf("row amount: %w", err)
	}
	category, err := ParseCategory(row[ColCategory])
	if err != nil {
		category = CategoryOther
	}
	_, dateErr := time.Parse(DateLayout, row[ColDate])
	return Transaction{
		Date:        row[ColDate],
		DateParsed:  dateErr == nil,
		Description: row[ColDescription],
		Amount:      amount,
		Category:    category,
		Account:     row[ColAccount],
		ID:          row[ColTransactionID],
		Pending:     row[ColPending],
		Merchant:    row[ColMerchant],
	}, nil
}
