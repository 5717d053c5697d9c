package match

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/clearline-dev/clearline/internal/model"
	"github.com/clearline-dev/clearline/internal/store"
)

// matchable is the counterpart mutation applied when a match is
// recorded. One implementation per entity kind, resolved from the
// candidate's tag.
type matchable interface {
	applyMatch(tx *sql.Tx, transactionID int64, txnAmount decimal.Decimal) error
}

type invoiceMatch struct{ inv *model.Invoice }

// applyMatch marks the invoice paid only when the transaction covers its
// full total. Partial settlement is not modeled; a short payment leaves
// the invoice open.
func (m invoiceMatch) applyMatch(tx *sql.Tx, _ int64, txnAmount decimal.Decimal) error {
	if txnAmount.Abs().GreaterThanOrEqual(m.inv.Amount) {
		return store.MarkInvoicePaid(tx, m.inv.ID)
	}
	return nil
}

type paymentMatch struct{ p *model.Payment }

func (m paymentMatch) applyMatch(tx *sql.Tx, transactionID int64, _ decimal.Decimal) error {
	return store.LinkPayment(tx, m.p.ID, transactionID)
}

type expenseMatch struct{ e *model.Expense }

func (m expenseMatch) applyMatch(*sql.Tx, int64, decimal.Decimal) error {
	// Expenses carry no back-reference to mutate.
	return nil
}

// resolveEntity loads the tagged entity behind a candidate.
func resolveEntity(st *store.Store, kind model.EntityKind, id int64) (matchable, error) {
	switch kind {
	case model.KindInvoice:
		inv, err := st.GetInvoice(id)
		if err != nil {
			return nil, err
		}
		return invoiceMatch{inv: inv}, nil
	case model.KindPayment:
		p, err := st.GetPayment(id)
		if err != nil {
			return nil, err
		}
		return paymentMatch{p: p}, nil
	case model.KindExpense:
		e, err := st.GetExpense(id)
		if err != nil {
			return nil, err
		}
		return expenseMatch{e: e}, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}
