package store

import (
	"database/sql"
	"fmt"

	"github.com/clearline-dev/clearline/internal/model"
)

// InsertMatchRecord persists a match within tx and returns its id. The
// UNIQUE constraint on transaction_id backs the one-active-match
// invariant at the schema level.
func InsertMatchRecord(tx *sql.Tx, m *model.MatchRecord) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO match_records
		 (session_id, transaction_id, entity_kind, entity_id, amount, confidence, actor, matched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.SessionID, m.TransactionID, string(m.EntityKind), m.EntityID,
		m.Amount.String(), m.Confidence, m.Actor, fmtTime(m.MatchedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting match record: %w", err)
	}
	return res.LastInsertId()
}

// MatchesForSession returns the session's match records in match order.
func (s *Store) MatchesForSession(sessionID int64) ([]*model.MatchRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, transaction_id, entity_kind, entity_id, amount, confidence, actor, matched_at
		 FROM match_records WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	var matches []*model.MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanMatch(row rowScanner) (*model.MatchRecord, error) {
	var m model.MatchRecord
	var kind, amount, matchedAt string
	err := row.Scan(&m.ID, &m.SessionID, &m.TransactionID, &kind, &m.EntityID,
		&amount, &m.Confidence, &m.Actor, &matchedAt)
	if err != nil {
		return nil, err
	}
	if m.Amount, err = parseDec(amount); err != nil {
		return nil, err
	}
	if m.MatchedAt, err = parseTime(matchedAt); err != nil {
		return nil, err
	}
	m.EntityKind = model.EntityKind(kind)
	return &m, nil
}
