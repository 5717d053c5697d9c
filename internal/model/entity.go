package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a receivable record owned by the invoicing module. Only the
// Paid flag is ever mutated here.
type Invoice struct {
	ID                int64
	TenantID          int64
	Number            string
	CustomerReference string
	Amount            decimal.Decimal
	Date              time.Time
	Paid              bool
}

// Payment is a recorded customer payment. Only TransactionID is ever
// mutated here; zero means not yet linked to a bank transaction.
type Payment struct {
	ID                int64
	TenantID          int64
	CustomerReference string
	Amount            decimal.Decimal
	Date              time.Time
	TransactionID     int64
}

// Expense is a payable record owned by the expense module.
type Expense struct {
	ID                int64
	TenantID          int64
	SupplierReference string
	Amount            decimal.Decimal
	Date              time.Time
}
