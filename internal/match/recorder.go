package match

import (
	"database/sql"
	"errors"
	"time"

	"github.com/clearline-dev/clearline/internal/model"
	"github.com/clearline-dev/clearline/internal/store"
)

// ErrAlreadyMatched rejects a match attempt against a transaction that
// already has one. An existing match is never overwritten.
var ErrAlreadyMatched = errors.New("transaction already matched")

// Recorder applies chosen matches.
type Recorder struct {
	store *store.Store
	now   func() time.Time
}

// NewRecorder creates a Recorder.
func NewRecorder(st *store.Store) *Recorder {
	return &Recorder{store: st, now: time.Now}
}

// Record links a transaction to the chosen candidate: inserts the match
// record, flags the transaction matched, and applies the counterpart
// mutation, all in one database transaction.
func (r *Recorder) Record(session *model.ReconciliationSession, txn *model.BankTransaction,
	candidate model.MatchCandidate, actor string) (*model.MatchRecord, error) {

	if txn.Status == model.TxnMatched || !txn.MatchedAt.IsZero() {
		return nil, ErrAlreadyMatched
	}

	entity, err := resolveEntity(r.store, candidate.EntityKind, candidate.EntityID)
	if err != nil {
		return nil, err
	}

	record := &model.MatchRecord{
		SessionID:     session.ID,
		TransactionID: txn.ID,
		EntityKind:    candidate.EntityKind,
		EntityID:      candidate.EntityID,
		Amount:        txn.Amount,
		Confidence:    candidate.Score,
		Actor:         actor,
		MatchedAt:     r.now(),
	}

	err = r.store.Transaction(func(tx *sql.Tx) error {
		id, err := store.InsertMatchRecord(tx, record)
		if err != nil {
			return err
		}
		record.ID = id
		if err := store.MarkTransactionMatched(tx, txn.ID, record.MatchedAt); err != nil {
			return err
		}
		return entity.applyMatch(tx, txn.ID, txn.Amount)
	})
	if err != nil {
		return nil, err
	}

	txn.Status = model.TxnMatched
	txn.MatchedAt = record.MatchedAt
	return record, nil
}
