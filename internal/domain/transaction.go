package domain

import (
	"time"
)

// Payment modes the extractor is asked to guess from contextual keywords.
// The enumeration is open on the statement side: anything the model cannot
// place becomes Other, and a missing field defaults to Unknown.
const (
	PaymentUPI        = "UPI"
	PaymentCard       = "Card"
	PaymentCash       = "Cash"
	PaymentNetBanking = "NetBanking"
	PaymentOther      = "Other"
	PaymentUnknown    = "Unknown"
)

// Transaction is one candidate spending record extracted from statement text.
// It lives in memory only for the duration of one ingest batch; the store's
// natural key (date, raw_description, amount) decides whether it is persisted
// or silently discarded as a duplicate.
type Transaction struct {
	Date           time.Time // parsed from "date" (YYYY-MM-DD)
	MerchantName   string    // clean human-readable label, never a raw ID string
	RawDescription string    // original statement line, verbatim
	PaymentMode    string    // one of the Payment* constants
	Amount         float64   // always positive; credits/deposits are excluded upstream
	Category       string    // free-text label (Food, Travel, Utilities, ...)
}
