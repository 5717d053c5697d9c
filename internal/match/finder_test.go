package match

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline-dev/clearline/internal/model"
	"github.com/clearline-dev/clearline/internal/store"
)

const testTenant = int64(1)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedAccount(t *testing.T, s *store.Store) int64 {
	t.Helper()
	id, err := s.CreateAccount(&model.BankAccount{
		TenantID: testTenant, Name: "Checking", BankName: "Santander",
	})
	require.NoError(t, err)
	return id
}

func insertTxn(t *testing.T, s *store.Store, accountID int64, d time.Time, amount, desc, ref string) *model.BankTransaction {
	t.Helper()
	txn := &model.BankTransaction{
		AccountID:   accountID,
		Date:        d,
		Description: desc,
		Reference:   ref,
		Amount:      dec(amount),
		Type:        model.TypeForAmount(dec(amount)),
		Status:      model.TxnPending,
	}
	require.NoError(t, s.Transaction(func(tx *sql.Tx) error {
		var err error
		txn.ID, err = store.InsertTransaction(tx, txn)
		return err
	}))
	return txn
}

func TestCandidates_DepositMatchesInvoicesAndPayments(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	_, err := s.CreateInvoice(&model.Invoice{
		TenantID: testTenant, Number: "1042", CustomerReference: "INV-1042",
		Amount: dec("119000"), Date: day(2024, 3, 10),
	})
	require.NoError(t, err)
	_, err = s.CreatePayment(&model.Payment{
		TenantID: testTenant, CustomerReference: "ACME",
		Amount: dec("119000"), Date: day(2024, 3, 12),
	})
	require.NoError(t, err)
	// An expense never competes for a deposit.
	_, err = s.CreateExpense(&model.Expense{
		TenantID: testTenant, SupplierReference: "RENT",
		Amount: dec("119000"), Date: day(2024, 3, 10),
	})
	require.NoError(t, err)

	txn := insertTxn(t, s, accountID, day(2024, 3, 10), "119000", "WIRE IN", "")

	candidates, err := NewFinder(s).Candidates(testTenant, txn)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// Invoice on the same day outranks the payment two days off.
	assert.Equal(t, model.KindInvoice, candidates[0].EntityKind)
	assert.Equal(t, 80, candidates[0].Score)
	assert.Equal(t, model.KindPayment, candidates[1].EntityKind)
	assert.Equal(t, 70, candidates[1].Score)
}

func TestCandidates_WithdrawalMatchesExpensesOnly(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	_, err := s.CreateExpense(&model.Expense{
		TenantID: testTenant, SupplierReference: "OFFICE RENT",
		Amount: dec("1500"), Date: day(2024, 3, 1),
	})
	require.NoError(t, err)
	_, err = s.CreateInvoice(&model.Invoice{
		TenantID: testTenant, Number: "1042", Amount: dec("1500"), Date: day(2024, 3, 1),
	})
	require.NoError(t, err)

	txn := insertTxn(t, s, accountID, day(2024, 3, 1), "-1500", "RENT PAYMENT", "")

	candidates, err := NewFinder(s).Candidates(testTenant, txn)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, model.KindExpense, candidates[0].EntityKind)
}

func TestCandidates_DateWindow(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	_, err := s.CreateExpense(&model.Expense{
		TenantID: testTenant, SupplierReference: "IN WINDOW",
		Amount: dec("200"), Date: day(2024, 3, 17),
	})
	require.NoError(t, err)
	_, err = s.CreateExpense(&model.Expense{
		TenantID: testTenant, SupplierReference: "OUT OF WINDOW",
		Amount: dec("200"), Date: day(2024, 3, 18),
	})
	require.NoError(t, err)

	txn := insertTxn(t, s, accountID, day(2024, 3, 10), "-200", "SUPPLIER", "")

	candidates, err := NewFinder(s).Candidates(testTenant, txn)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Expense IN WINDOW", candidates[0].Description)
}

func TestCandidates_InvoiceSlack(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	// 4% below the transaction: accepted.
	_, err := s.CreateInvoice(&model.Invoice{
		TenantID: testTenant, Number: "A", Amount: dec("96"), Date: day(2024, 3, 10),
	})
	require.NoError(t, err)
	// 6% below: rejected.
	_, err = s.CreateInvoice(&model.Invoice{
		TenantID: testTenant, Number: "B", Amount: dec("94"), Date: day(2024, 3, 10),
	})
	require.NoError(t, err)
	// Above the transaction: rejected.
	_, err = s.CreateInvoice(&model.Invoice{
		TenantID: testTenant, Number: "C", Amount: dec("101"), Date: day(2024, 3, 10),
	})
	require.NoError(t, err)

	txn := insertTxn(t, s, accountID, day(2024, 3, 10), "100", "PAYMENT", "")

	candidates, err := NewFinder(s).Candidates(testTenant, txn)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Invoice A", candidates[0].Description)
}

func TestCandidates_PaymentExactAmountOnly(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	_, err := s.CreatePayment(&model.Payment{
		TenantID: testTenant, CustomerReference: "CLOSE",
		Amount: dec("99.99"), Date: day(2024, 3, 10),
	})
	require.NoError(t, err)

	txn := insertTxn(t, s, accountID, day(2024, 3, 10), "100", "PAYMENT", "")

	candidates, err := NewFinder(s).Candidates(testTenant, txn)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestCandidates_TopFive(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	for i := 0; i < 8; i++ {
		_, err := s.CreateExpense(&model.Expense{
			TenantID: testTenant, SupplierReference: fmt.Sprintf("SUPPLIER %d", i),
			Amount: dec("200"), Date: day(2024, 3, 8+i%3),
		})
		require.NoError(t, err)
	}

	txn := insertTxn(t, s, accountID, day(2024, 3, 10), "-200", "SUPPLIER", "")

	candidates, err := NewFinder(s).Candidates(testTenant, txn)
	require.NoError(t, err)
	assert.Len(t, candidates, 5)
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Score, candidates[i].Score)
	}
}
