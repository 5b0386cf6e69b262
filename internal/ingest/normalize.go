package ingest

import (
	"fmt"
	"time"

	"folio/internal/core"
)

// Normalizer parses raw record fields into the canonical transaction
// form. Date parsing is best-effort: an unparseable date keeps the raw
// string and flags the transaction, since a mis-formatted date should
// not block an otherwise valid record. A malformed amount does reject
// the record; an amount silently zeroed would corrupt every aggregate.
type Normalizer struct {
	// DateLayout is the caller-specified Go layout of source dates.
	DateLayout string

	now func() time.Time
	seq int
}

func NewNormalizer(dateLayout string) *Normalizer {
	if dateLayout == "" {
		dateLayout = core.DateLayout
	}
	return &Normalizer{DateLayout: dateLayout, now: time.Now}
}

// Normalize converts one raw record. The returned transaction carries
// CategoryOther until the classifier assigns a real category.
//
// When the record has no transaction id one is synthesized as
// csv_<sequence>_<epoch-seconds>. The synthesized id is unique within
// this run only; re-imports at the same second could collide, so
// sources wanting idempotent re-import must supply real ids.
func (n *Normalizer) Normalize(rec Record) (core.Transaction, error) {
	amount, err := core.ParseAmount(rec["Amount"])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record %q: %w", rec["TransactionID"], err)
	}

	date := rec["Date"]
	parsed := false
	if t, err := time.Parse(n.DateLayout, date); err == nil {
		date = t.Format(core.DateLayout)
		parsed = true
	}

	id := rec["TransactionID"]
	if id == "" {
		id = fmt.Sprintf("csv_%d_%d", n.seq, n.now().Unix())
		n.seq++
	}

	account := rec["Account"]
	if account == "" {
		account = core.DefaultAccount
	}
	pending := rec["Pending"]
	if pending == "" {
		pending = core.DefaultPending
	}

	return core.Transaction{
		Date:        date,
		DateParsed:  parsed,
		Description: rec["Description"],
		Amount:      amount,
		Category:    core.CategoryOther,
		Account:     account,
		ID:          id,
		Pending:     pending,
		Merchant:    rec["Merchant"],
	}, nil
}
