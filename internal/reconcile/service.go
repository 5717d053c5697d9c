// Package reconcile runs the reconciliation session workflow: a
// period-bounded comparison of a bank-reported balance against the
// internally tracked balance for one account.
package reconcile

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearline-dev/clearline/internal/id"
	"github.com/clearline-dev/clearline/internal/match"
	"github.com/clearline-dev/clearline/internal/model"
	"github.com/clearline-dev/clearline/internal/store"
)

var (
	// ErrSessionCompleted rejects operations on a completed session.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrSessionPending rejects starting a session while another is
	// pending for the same account. Sessions are serialized per account.
	ErrSessionPending = errors.New("account has a pending session")

	// ErrStrictDifference rejects completion with a nonzero difference
	// under the strict policy.
	ErrStrictDifference = errors.New("difference is nonzero")
)

// Service coordinates session lifecycle, candidate suggestion and
// automatic matching.
type Service struct {
	store     *store.Store
	finder    *match.Finder
	recorder  *match.Recorder
	threshold int
	strict    bool
	log       *slog.Logger
	now       func() time.Time
}

// NewService creates a reconciliation Service. threshold is the
// auto-match score floor (0 = default); strict requires a zero
// difference to complete a session.
func NewService(st *store.Store, threshold int, strict bool, log *slog.Logger) *Service {
	return &Service{
		store:     st,
		finder:    match.NewFinder(st),
		recorder:  match.NewRecorder(st),
		threshold: threshold,
		strict:    strict,
		log:       log,
		now:       time.Now,
	}
}

// Start opens a pending session for the account over [periodStart,
// periodEnd]. System balances are the running sums of matched
// transaction amounts up to each boundary date.
func (s *Service) Start(accountID int64, actor string, periodStart, periodEnd time.Time,
	bankStart, bankEnd decimal.Decimal) (*model.ReconciliationSession, error) {

	if _, err := s.store.GetAccount(accountID); err != nil {
		return nil, err
	}
	pending, err := s.store.HasPendingSession(accountID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("account %d: %w", accountID, ErrSessionPending)
	}

	sysStart, err := s.store.SystemBalance(accountID, periodStart)
	if err != nil {
		return nil, err
	}
	sysEnd, err := s.store.SystemBalance(accountID, periodEnd)
	if err != nil {
		return nil, err
	}

	ref, err := s.nextReference(periodEnd)
	if err != nil {
		return nil, err
	}

	sess := &model.ReconciliationSession{
		Reference:             ref,
		AccountID:             accountID,
		Actor:                 actor,
		PeriodStart:           periodStart,
		PeriodEnd:             periodEnd,
		BankStartingBalance:   bankStart,
		BankEndingBalance:     bankEnd,
		SystemStartingBalance: sysStart,
		SystemEndingBalance:   sysEnd,
		Difference:            bankEnd.Sub(sysEnd),
		Status:                model.SessionPending,
	}
	if sess.ID, err = s.store.InsertSession(sess); err != nil {
		return nil, err
	}

	s.log.Info("Started reconciliation session",
		"session", sess.Reference, "account", accountID,
		"period_start", periodStart.Format("2006-01-02"),
		"period_end", periodEnd.Format("2006-01-02"),
		"difference", sess.Difference.String())
	return sess, nil
}

// Suggestion pairs one unmatched transaction with its scored candidates.
type Suggestion struct {
	Transaction *model.BankTransaction
	Candidates  []model.MatchCandidate
}

// Suggest returns, for every unmatched transaction in the session's
// period, its candidate list for manual review. Read-only.
func (s *Service) Suggest(sess *model.ReconciliationSession) ([]Suggestion, error) {
	account, err := s.store.GetAccount(sess.AccountID)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.UnmatchedInPeriod(sess.AccountID, sess.PeriodStart, sess.PeriodEnd)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(txns))
	for _, txn := range txns {
		candidates, err := s.finder.Candidates(account.TenantID, txn)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, Suggestion{Transaction: txn, Candidates: candidates})
	}
	return suggestions, nil
}

// AutoMatch runs unattended matching across the session's period and
// returns the number of transactions matched.
func (s *Service) AutoMatch(sess *model.ReconciliationSession, actor string) (int, error) {
	if sess.Status == model.SessionCompleted {
		return 0, ErrSessionCompleted
	}
	account, err := s.store.GetAccount(sess.AccountID)
	if err != nil {
		return 0, err
	}
	txns, err := s.store.UnmatchedInPeriod(sess.AccountID, sess.PeriodStart, sess.PeriodEnd)
	if err != nil {
		return 0, err
	}

	auto := match.NewAutoMatcher(s.finder, s.recorder, s.threshold, s.log)
	return auto.Run(sess, account.TenantID, txns, actor)
}

// Match applies one manually chosen candidate within the session.
func (s *Service) Match(sess *model.ReconciliationSession, txn *model.BankTransaction,
	candidate model.MatchCandidate, actor string) (*model.MatchRecord, error) {

	if sess.Status == model.SessionCompleted {
		return nil, ErrSessionCompleted
	}
	return s.recorder.Record(sess, txn, candidate, actor)
}

// Complete recomputes the ending balance and difference, marks the
// session completed, and propagates the bank ending balance and
// reconciled timestamp onto the account, atomically. By default a
// nonzero difference is informational; under the strict policy it
// blocks completion.
func (s *Service) Complete(sess *model.ReconciliationSession) error {
	if sess.Status == model.SessionCompleted {
		return ErrSessionCompleted
	}

	sysEnd, err := s.store.SystemBalance(sess.AccountID, sess.PeriodEnd)
	if err != nil {
		return err
	}
	sess.SystemEndingBalance = sysEnd
	sess.Difference = sess.BankEndingBalance.Sub(sysEnd)

	if s.strict && !sess.Difference.IsZero() {
		return fmt.Errorf("session %s: %w: %s", sess.Reference, ErrStrictDifference, sess.Difference.String())
	}

	sess.Status = model.SessionCompleted
	sess.CompletedAt = s.now()

	err = s.store.Transaction(func(tx *sql.Tx) error {
		if err := store.CompleteSession(tx, sess); err != nil {
			return err
		}
		return store.MarkAccountReconciled(tx, sess.AccountID, sess.BankEndingBalance, sess.CompletedAt)
	})
	if err != nil {
		sess.Status = model.SessionPending
		sess.CompletedAt = time.Time{}
		return err
	}

	s.log.Info("Completed reconciliation session",
		"session", sess.Reference, "account", sess.AccountID,
		"difference", sess.Difference.String())
	return nil
}

// nextReference allocates the next session reference within the month
// of the period end.
func (s *Service) nextReference(periodEnd time.Time) (string, error) {
	prefix := id.SessionRefPrefix(periodEnd.Year(), int(periodEnd.Month()))
	n, err := s.store.CountSessionsWithPrefix(prefix)
	if err != nil {
		return "", err
	}
	return id.FormatSessionRef(periodEnd.Year(), int(periodEnd.Month()), n+1), nil
}
