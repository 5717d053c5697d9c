package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearline-dev/clearline/internal/model"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// CreateAccount inserts a bank account and returns its id.
func (s *Store) CreateAccount(a *model.BankAccount) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO bank_accounts (tenant_id, name, bank_name, balance, reconciled_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.TenantID, a.Name, a.BankName, a.Balance.String(), fmtTime(a.ReconciledAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting account: %w", err)
	}
	return res.LastInsertId()
}

// GetAccount loads one bank account by id.
func (s *Store) GetAccount(id int64) (*model.BankAccount, error) {
	row := s.db.QueryRow(
		`SELECT id, tenant_id, name, bank_name, balance, reconciled_at
		 FROM bank_accounts WHERE id = ?`, id)

	var a model.BankAccount
	var balance, reconciledAt string
	err := row.Scan(&a.ID, &a.TenantID, &a.Name, &a.BankName, &balance, &reconciledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading account %d: %w", id, err)
	}
	if a.Balance, err = parseDec(balance); err != nil {
		return nil, err
	}
	if a.ReconciledAt, err = parseTime(reconciledAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAccountBalance sets an account's current balance within tx.
func UpdateAccountBalance(tx *sql.Tx, accountID int64, balance decimal.Decimal) error {
	_, err := tx.Exec(`UPDATE bank_accounts SET balance = ? WHERE id = ?`,
		balance.String(), accountID)
	if err != nil {
		return fmt.Errorf("updating account %d balance: %w", accountID, err)
	}
	return nil
}

// MarkAccountReconciled records the reconciled balance and timestamp
// within tx, as part of session completion.
func MarkAccountReconciled(tx *sql.Tx, accountID int64, balance decimal.Decimal, at time.Time) error {
	_, err := tx.Exec(`UPDATE bank_accounts SET balance = ?, reconciled_at = ? WHERE id = ?`,
		balance.String(), fmtTime(at), accountID)
	if err != nil {
		return fmt.Errorf("marking account %d reconciled: %w", accountID, err)
	}
	return nil
}
