package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityKind tags the kind of record a bank transaction can be matched to.
type EntityKind string

const (
	KindInvoice EntityKind = "invoice"
	KindPayment EntityKind = "payment"
	KindExpense EntityKind = "expense"
)

// MatchRecord links a bank transaction to its real-world counterpart.
// Amount is the matched transaction amount, stored separately from the
// entity's own total so partial settlement can be layered in later.
type MatchRecord struct {
	ID            int64
	SessionID     int64
	TransactionID int64
	EntityKind    EntityKind
	EntityID      int64
	Amount        decimal.Decimal
	Confidence    int // 0-100
	Actor         string
	MatchedAt     time.Time
}

// MatchCandidate is a scored suggestion for one transaction. Never persisted.
type MatchCandidate struct {
	EntityKind  EntityKind
	EntityID    int64
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Reference   string
	Score       int // 0-100
}
