package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the reconciliation session lifecycle. The only
// transition is pending -> completed.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionCompleted SessionStatus = "completed"
)

// ReconciliationSession compares a bank-reported balance against the
// internally tracked balance for one account over a bounded period.
type ReconciliationSession struct {
	ID                    int64
	Reference             string // "R2024-03-001"
	AccountID             int64
	Actor                 string
	PeriodStart           time.Time
	PeriodEnd             time.Time
	BankStartingBalance   decimal.Decimal
	BankEndingBalance     decimal.Decimal
	SystemStartingBalance decimal.Decimal
	SystemEndingBalance   decimal.Decimal
	Difference            decimal.Decimal // bank ending - system ending
	Status                SessionStatus
	CompletedAt           time.Time // zero while pending
}
