package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a bank transaction by the sign of its amount.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
)

// TransactionStatus is the match lifecycle of a bank transaction.
type TransactionStatus string

const (
	TxnPending TransactionStatus = "pending"
	TxnMatched TransactionStatus = "matched"
)

// BankTransaction is one normalized statement row persisted for an account.
// Transactions are immutable after import except for the matched flag.
type BankTransaction struct {
	ID          int64
	AccountID   int64
	Date        time.Time
	Description string
	Reference   string          // empty if the statement carried none
	Amount      decimal.Decimal // positive = inflow, negative = outflow
	Type        TransactionType
	Balance     decimal.Decimal // statement-declared running balance, zero if absent
	HasBalance  bool
	Status      TransactionStatus
	MatchedAt   time.Time // zero while pending
}

// TypeForAmount derives the transaction type from the amount sign.
func TypeForAmount(amount decimal.Decimal) TransactionType {
	if amount.IsNegative() {
		return TypeWithdrawal
	}
	return TypeDeposit
}
