package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/clearline-dev/clearline/internal/model"
)

const sessionColumns = `id, reference, account_id, actor, period_start, period_end,
	bank_starting_balance, bank_ending_balance, system_starting_balance,
	system_ending_balance, difference, status, completed_at`

// InsertSession persists a new reconciliation session and returns its id.
func (s *Store) InsertSession(sess *model.ReconciliationSession) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO reconciliation_sessions
		 (reference, account_id, actor, period_start, period_end,
		  bank_starting_balance, bank_ending_balance, system_starting_balance,
		  system_ending_balance, difference, status, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.Reference, sess.AccountID, sess.Actor,
		fmtDate(sess.PeriodStart), fmtDate(sess.PeriodEnd),
		sess.BankStartingBalance.String(), sess.BankEndingBalance.String(),
		sess.SystemStartingBalance.String(), sess.SystemEndingBalance.String(),
		sess.Difference.String(), string(sess.Status), fmtTime(sess.CompletedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}
	return res.LastInsertId()
}

// GetSession loads one session by id.
func (s *Store) GetSession(id int64) (*model.ReconciliationSession, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM reconciliation_sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	return sess, err
}

// HasPendingSession reports whether the account already has a session in
// the pending state.
func (s *Store) HasPendingSession(accountID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(1) FROM reconciliation_sessions WHERE account_id = ? AND status = ?`,
		accountID, string(model.SessionPending),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking pending sessions: %w", err)
	}
	return n > 0, nil
}

// CountSessionsWithPrefix returns how many session references start with
// prefix, used to allocate the next sequence within a month.
func (s *Store) CountSessionsWithPrefix(prefix string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(1) FROM reconciliation_sessions WHERE reference LIKE ?`,
		prefix+"%",
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return n, nil
}

// CompleteSession writes the recomputed balances and the completed
// status within tx.
func CompleteSession(tx *sql.Tx, sess *model.ReconciliationSession) error {
	_, err := tx.Exec(
		`UPDATE reconciliation_sessions
		 SET system_ending_balance = ?, difference = ?, status = ?, completed_at = ?
		 WHERE id = ?`,
		sess.SystemEndingBalance.String(), sess.Difference.String(),
		string(sess.Status), fmtTime(sess.CompletedAt), sess.ID,
	)
	if err != nil {
		return fmt.Errorf("completing session %d: %w", sess.ID, err)
	}
	return nil
}

func scanSession(row rowScanner) (*model.ReconciliationSession, error) {
	var sess model.ReconciliationSession
	var start, end, bankStart, bankEnd, sysStart, sysEnd, diff, status, completedAt string
	err := row.Scan(&sess.ID, &sess.Reference, &sess.AccountID, &sess.Actor,
		&start, &end, &bankStart, &bankEnd, &sysStart, &sysEnd, &diff, &status, &completedAt)
	if err != nil {
		return nil, err
	}
	if sess.PeriodStart, err = parseDate(start); err != nil {
		return nil, err
	}
	if sess.PeriodEnd, err = parseDate(end); err != nil {
		return nil, err
	}
	if sess.BankStartingBalance, err = parseDec(bankStart); err != nil {
		return nil, err
	}
	if sess.BankEndingBalance, err = parseDec(bankEnd); err != nil {
		return nil, err
	}
	if sess.SystemStartingBalance, err = parseDec(sysStart); err != nil {
		return nil, err
	}
	if sess.SystemEndingBalance, err = parseDec(sysEnd); err != nil {
		return nil, err
	}
	if sess.Difference, err = parseDec(diff); err != nil {
		return nil, err
	}
	if sess.CompletedAt, err = parseTime(completedAt); err != nil {
		return nil, err
	}
	sess.Status = model.SessionStatus(status)
	return &sess, nil
}
