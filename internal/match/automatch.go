package match

import (
	"log/slog"

	"github.com/clearline-dev/clearline/internal/model"
)

// DefaultAutoThreshold is the minimum score for unattended matching.
const DefaultAutoThreshold = 90

// AutoMatcher applies matches without review when the evidence is
// unambiguous.
type AutoMatcher struct {
	finder    *Finder
	recorder  *Recorder
	threshold int
	log       *slog.Logger
}

// NewAutoMatcher creates an AutoMatcher. A threshold of 0 means
// DefaultAutoThreshold.
func NewAutoMatcher(finder *Finder, recorder *Recorder, threshold int, log *slog.Logger) *AutoMatcher {
	if threshold <= 0 {
		threshold = DefaultAutoThreshold
	}
	return &AutoMatcher{finder: finder, recorder: recorder, threshold: threshold, log: log}
}

// Run evaluates every transaction and applies a match only when exactly
// one candidate reaches the threshold score. Zero candidates, several,
// or a lone candidate below threshold all leave the transaction for
// manual review. Returns the number auto-matched. Re-running over
// already-resolved data matches nothing new.
func (a *AutoMatcher) Run(session *model.ReconciliationSession, tenantID int64,
	txns []*model.BankTransaction, actor string) (int, error) {

	matched := 0
	for _, txn := range txns {
		if txn.Status == model.TxnMatched {
			continue
		}
		candidates, err := a.finder.Candidates(tenantID, txn)
		if err != nil {
			return matched, err
		}
		if len(candidates) != 1 || candidates[0].Score < a.threshold {
			continue
		}
		if _, err := a.recorder.Record(session, txn, candidates[0], actor); err != nil {
			return matched, err
		}
		matched++
		a.log.Info("Auto-matched transaction",
			"transaction", txn.ID, "kind", candidates[0].EntityKind,
			"entity", candidates[0].EntityID, "score", candidates[0].Score)
	}
	return matched, nil
}
