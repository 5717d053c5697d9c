package match

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/clearline-dev/clearline/internal/model"
	"github.com/clearline-dev/clearline/internal/store"
)

// Candidate search parameters.
const (
	windowDays    = 7
	maxCandidates = 5
)

// invoiceSlack is how far below the transaction amount an invoice may
// fall and still qualify, to absorb tax and rounding differences.
var invoiceSlack = decimal.NewFromFloat(0.05)

// Finder searches for match candidates. All methods are read-only.
type Finder struct {
	store *store.Store
}

// NewFinder creates a Finder over a store.
func NewFinder(st *store.Store) *Finder {
	return &Finder{store: st}
}

// Candidates returns the top scored candidates for one transaction.
// Deposits are matched against unpaid invoices and unlinked payments,
// withdrawals against expenses, all within a +-7 day window for the
// transaction's tenant.
func (f *Finder) Candidates(tenantID int64, txn *model.BankTransaction) ([]model.MatchCandidate, error) {
	start := txn.Date.AddDate(0, 0, -windowDays)
	end := txn.Date.AddDate(0, 0, windowDays)
	amount := txn.Amount.Abs()

	var candidates []model.MatchCandidate
	if txn.Type == model.TypeDeposit {
		invoices, err := f.store.UnpaidInvoicesInWindow(tenantID, start, end)
		if err != nil {
			return nil, err
		}
		for _, inv := range invoices {
			if !invoiceAmountOK(amount, inv.Amount) {
				continue
			}
			candidates = append(candidates, model.MatchCandidate{
				EntityKind:  model.KindInvoice,
				EntityID:    inv.ID,
				Description: "Invoice " + inv.Number,
				Amount:      inv.Amount,
				Date:        inv.Date,
				Reference:   inv.CustomerReference,
				Score:       Score(txn.Amount, txn.Date, txn.Reference, inv.Amount, inv.Date, inv.CustomerReference),
			})
		}

		payments, err := f.store.UnlinkedPaymentsInWindow(tenantID, start, end)
		if err != nil {
			return nil, err
		}
		for _, p := range payments {
			if !p.Amount.Abs().Equal(amount) {
				continue
			}
			candidates = append(candidates, model.MatchCandidate{
				EntityKind:  model.KindPayment,
				EntityID:    p.ID,
				Description: "Payment from " + p.CustomerReference,
				Amount:      p.Amount,
				Date:        p.Date,
				Reference:   p.CustomerReference,
				Score:       Score(txn.Amount, txn.Date, txn.Reference, p.Amount, p.Date, p.CustomerReference),
			})
		}
	} else {
		expenses, err := f.store.ExpensesInWindow(tenantID, start, end)
		if err != nil {
			return nil, err
		}
		for _, e := range expenses {
			if !e.Amount.Abs().Equal(amount) {
				continue
			}
			candidates = append(candidates, model.MatchCandidate{
				EntityKind:  model.KindExpense,
				EntityID:    e.ID,
				Description: "Expense " + e.SupplierReference,
				Amount:      e.Amount,
				Date:        e.Date,
				Reference:   e.SupplierReference,
				Score:       Score(txn.Amount, txn.Date, txn.Reference, e.Amount, e.Date, e.SupplierReference),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates, nil
}

// invoiceAmountOK accepts an exact match or an invoice up to 5% below
// the transaction amount.
func invoiceAmountOK(txnAmount, invAmount decimal.Decimal) bool {
	if invAmount.Equal(txnAmount) {
		return true
	}
	diff := txnAmount.Sub(invAmount)
	return diff.IsPositive() && diff.LessThanOrEqual(txnAmount.Mul(invoiceSlack))
}
