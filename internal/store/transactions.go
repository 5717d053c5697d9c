package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearline-dev/clearline/internal/model"
)

const txnColumns = `id, account_id, date, description, reference, amount, type, balance, status, matched_at`

// InsertTransaction persists one bank transaction within tx and returns
// its id.
func InsertTransaction(tx *sql.Tx, t *model.BankTransaction) (int64, error) {
	balance := ""
	if t.HasBalance {
		balance = t.Balance.String()
	}
	res, err := tx.Exec(
		`INSERT INTO bank_transactions (account_id, date, description, reference, amount, type, balance, status, matched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.AccountID, fmtDate(t.Date), t.Description, t.Reference,
		t.Amount.String(), string(t.Type), balance, string(t.Status), fmtTime(t.MatchedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	return res.LastInsertId()
}

// TransactionExists reports whether the account already holds a
// transaction with identical date, amount and description.
func (s *Store) TransactionExists(accountID int64, date time.Time, amount decimal.Decimal, description string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(1) FROM bank_transactions
		 WHERE account_id = ? AND date = ? AND amount = ? AND description = ?`,
		accountID, fmtDate(date), amount.String(), description,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking duplicate: %w", err)
	}
	return n > 0, nil
}

// GetTransaction loads one bank transaction by id.
func (s *Store) GetTransaction(id int64) (*model.BankTransaction, error) {
	row := s.db.QueryRow(`SELECT `+txnColumns+` FROM bank_transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return t, err
}

// UnmatchedInPeriod returns the account's pending transactions dated
// within [start, end], in date order.
func (s *Store) UnmatchedInPeriod(accountID int64, start, end time.Time) ([]*model.BankTransaction, error) {
	rows, err := s.db.Query(
		`SELECT `+txnColumns+` FROM bank_transactions
		 WHERE account_id = ? AND status = ? AND date >= ? AND date <= ?
		 ORDER BY date, id`,
		accountID, string(model.TxnPending), fmtDate(start), fmtDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("listing unmatched transactions: %w", err)
	}
	defer rows.Close()

	var txns []*model.BankTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// MarkTransactionMatched flags a transaction matched within tx.
func MarkTransactionMatched(tx *sql.Tx, txnID int64, at time.Time) error {
	_, err := tx.Exec(
		`UPDATE bank_transactions SET status = ?, matched_at = ? WHERE id = ?`,
		string(model.TxnMatched), fmtTime(at), txnID,
	)
	if err != nil {
		return fmt.Errorf("flagging transaction %d matched: %w", txnID, err)
	}
	return nil
}

// SystemBalance returns the running sum of matched transaction amounts
// for an account up to and including asOf. This is the internally
// tracked balance a reconciliation session compares against.
func (s *Store) SystemBalance(accountID int64, asOf time.Time) (decimal.Decimal, error) {
	rows, err := s.db.Query(
		`SELECT amount FROM bank_transactions
		 WHERE account_id = ? AND status = ? AND date <= ?`,
		accountID, string(model.TxnMatched), fmtDate(asOf),
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing matched transactions: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("scanning amount: %w", err)
		}
		amount, err := parseDec(raw)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	return total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.BankTransaction, error) {
	var t model.BankTransaction
	var date, amount, typ, balance, status, matchedAt string
	err := row.Scan(&t.ID, &t.AccountID, &date, &t.Description, &t.Reference,
		&amount, &typ, &balance, &status, &matchedAt)
	if err != nil {
		return nil, err
	}
	if t.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if t.Amount, err = parseDec(amount); err != nil {
		return nil, err
	}
	if balance != "" {
		if t.Balance, err = parseDec(balance); err != nil {
			return nil, err
		}
		t.HasBalance = true
	}
	if t.MatchedAt, err = parseTime(matchedAt); err != nil {
		return nil, err
	}
	t.Type = model.TransactionType(typ)
	t.Status = model.TransactionStatus(status)
	return &t, nil
}
