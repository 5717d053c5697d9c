package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is a bank account under reconciliation for one tenant.
type BankAccount struct {
	ID           int64
	TenantID     int64
	Name         string
	BankName     string // free-form bank name, resolved to a statement profile key
	Balance      decimal.Decimal
	ReconciledAt time.Time // zero if never reconciled
}
