package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline-dev/clearline/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func seedAccount(t *testing.T, s *Store) int64 {
	t.Helper()
	id, err := s.CreateAccount(&model.BankAccount{
		TenantID: 1,
		Name:     "Main Checking",
		BankName: "Banco Santander",
		Balance:  dec("1000"),
	})
	require.NoError(t, err)
	return id
}

func TestAccountRoundTrip(t *testing.T) {
	s := openTestStore(t)
	id := seedAccount(t, s)

	a, err := s.GetAccount(id)
	require.NoError(t, err)
	assert.Equal(t, "Main Checking", a.Name)
	assert.Equal(t, "Banco Santander", a.BankName)
	assert.True(t, a.Balance.Equal(dec("1000")))
	assert.True(t, a.ReconciledAt.IsZero())
}

func TestGetAccount_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetAccount(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactionInsertAndDuplicateProbe(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	err := s.Transaction(func(tx *sql.Tx) error {
		_, err := InsertTransaction(tx, &model.BankTransaction{
			AccountID:   accountID,
			Date:        day(2024, 3, 5),
			Description: "CUSTOMER PAYMENT",
			Amount:      dec("1234.56"),
			Type:        model.TypeDeposit,
			Status:      model.TxnPending,
		})
		return err
	})
	require.NoError(t, err)

	exists, err := s.TransactionExists(accountID, day(2024, 3, 5), dec("1234.56"), "CUSTOMER PAYMENT")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.TransactionExists(accountID, day(2024, 3, 6), dec("1234.56"), "CUSTOMER PAYMENT")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTransactionRollback(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	boom := errors.New("boom")
	err := s.Transaction(func(tx *sql.Tx) error {
		if _, err := InsertTransaction(tx, &model.BankTransaction{
			AccountID:   accountID,
			Date:        day(2024, 3, 5),
			Description: "SHOULD ROLL BACK",
			Amount:      dec("10"),
			Type:        model.TypeDeposit,
			Status:      model.TxnPending,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := s.TransactionExists(accountID, day(2024, 3, 5), dec("10"), "SHOULD ROLL BACK")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnmatchedInPeriod(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	insert := func(d time.Time, desc string, status model.TransactionStatus) {
		require.NoError(t, s.Transaction(func(tx *sql.Tx) error {
			_, err := InsertTransaction(tx, &model.BankTransaction{
				AccountID: accountID, Date: d, Description: desc,
				Amount: dec("10"), Type: model.TypeDeposit, Status: status,
			})
			return err
		}))
	}
	insert(day(2024, 2, 28), "before period", model.TxnPending)
	insert(day(2024, 3, 5), "in period", model.TxnPending)
	insert(day(2024, 3, 10), "already matched", model.TxnMatched)
	insert(day(2024, 4, 1), "after period", model.TxnPending)

	txns, err := s.UnmatchedInPeriod(accountID, day(2024, 3, 1), day(2024, 3, 31))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "in period", txns[0].Description)
}

func TestSystemBalance(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	insert := func(d time.Time, amount string, status model.TransactionStatus) {
		require.NoError(t, s.Transaction(func(tx *sql.Tx) error {
			_, err := InsertTransaction(tx, &model.BankTransaction{
				AccountID: accountID, Date: d, Description: amount,
				Amount: dec(amount), Type: model.TypeForAmount(dec(amount)), Status: status,
			})
			return err
		}))
	}
	insert(day(2024, 3, 1), "100", model.TxnMatched)
	insert(day(2024, 3, 10), "-40", model.TxnMatched)
	insert(day(2024, 3, 20), "25", model.TxnMatched)
	insert(day(2024, 3, 15), "999", model.TxnPending) // pending never counts

	bal, err := s.SystemBalance(accountID, day(2024, 3, 15))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("60")), "got %s", bal)

	bal, err = s.SystemBalance(accountID, day(2024, 3, 31))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("85")), "got %s", bal)
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	sess := &model.ReconciliationSession{
		Reference:             "R2024-03-001",
		AccountID:             accountID,
		Actor:                 "maria",
		PeriodStart:           day(2024, 3, 1),
		PeriodEnd:             day(2024, 3, 31),
		BankStartingBalance:   dec("1000"),
		BankEndingBalance:     dec("2084.56"),
		SystemStartingBalance: dec("1000"),
		SystemEndingBalance:   dec("2000"),
		Difference:            dec("84.56"),
		Status:                model.SessionPending,
	}
	id, err := s.InsertSession(sess)
	require.NoError(t, err)

	got, err := s.GetSession(id)
	require.NoError(t, err)
	assert.Equal(t, "R2024-03-001", got.Reference)
	assert.Equal(t, model.SessionPending, got.Status)
	assert.True(t, got.Difference.Equal(dec("84.56")))
	assert.True(t, got.CompletedAt.IsZero())

	pending, err := s.HasPendingSession(accountID)
	require.NoError(t, err)
	assert.True(t, pending)

	n, err := s.CountSessionsWithPrefix("R2024-03-")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMatchRecordUniquePerTransaction(t *testing.T) {
	s := openTestStore(t)
	accountID := seedAccount(t, s)

	var txnID int64
	require.NoError(t, s.Transaction(func(tx *sql.Tx) error {
		var err error
		txnID, err = InsertTransaction(tx, &model.BankTransaction{
			AccountID: accountID, Date: day(2024, 3, 5), Description: "PAY",
			Amount: dec("100"), Type: model.TypeDeposit, Status: model.TxnPending,
		})
		return err
	}))

	sessID, err := s.InsertSession(&model.ReconciliationSession{
		Reference: "R2024-03-001", AccountID: accountID, Actor: "maria",
		PeriodStart: day(2024, 3, 1), PeriodEnd: day(2024, 3, 31),
		BankStartingBalance: dec("0"), BankEndingBalance: dec("0"),
		SystemStartingBalance: dec("0"), SystemEndingBalance: dec("0"),
		Difference: dec("0"), Status: model.SessionPending,
	})
	require.NoError(t, err)

	record := &model.MatchRecord{
		SessionID: sessID, TransactionID: txnID,
		EntityKind: model.KindInvoice, EntityID: 1,
		Amount: dec("100"), Confidence: 95, Actor: "maria", MatchedAt: time.Now(),
	}
	require.NoError(t, s.Transaction(func(tx *sql.Tx) error {
		_, err := InsertMatchRecord(tx, record)
		return err
	}))

	// A second match for the same transaction violates the schema.
	err = s.Transaction(func(tx *sql.Tx) error {
		_, err := InsertMatchRecord(tx, record)
		return err
	})
	assert.Error(t, err)

	matches, err := s.MatchesForSession(sessID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, model.KindInvoice, matches[0].EntityKind)
}

func TestEntityWindows(t *testing.T) {
	s := openTestStore(t)

	_, err := s.CreateInvoice(&model.Invoice{
		TenantID: 1, Number: "1042", CustomerReference: "ACME",
		Amount: dec("1234.56"), Date: day(2024, 3, 4),
	})
	require.NoError(t, err)
	_, err = s.CreateInvoice(&model.Invoice{
		TenantID: 1, Number: "1040", CustomerReference: "ACME",
		Amount: dec("90"), Date: day(2024, 3, 4), Paid: true,
	})
	require.NoError(t, err)
	_, err = s.CreateInvoice(&model.Invoice{
		TenantID: 2, Number: "9001", CustomerReference: "OTHER TENANT",
		Amount: dec("1234.56"), Date: day(2024, 3, 4),
	})
	require.NoError(t, err)

	invoices, err := s.UnpaidInvoicesInWindow(1, day(2024, 3, 1), day(2024, 3, 10))
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "1042", invoices[0].Number)

	pid, err := s.CreatePayment(&model.Payment{
		TenantID: 1, CustomerReference: "ACME", Amount: dec("50"), Date: day(2024, 3, 5),
	})
	require.NoError(t, err)
	_, err = s.CreatePayment(&model.Payment{
		TenantID: 1, CustomerReference: "LINKED", Amount: dec("50"),
		Date: day(2024, 3, 5), TransactionID: 77,
	})
	require.NoError(t, err)

	payments, err := s.UnlinkedPaymentsInWindow(1, day(2024, 3, 1), day(2024, 3, 10))
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, pid, payments[0].ID)
}

func TestInvoicePaidAndPaymentLink(t *testing.T) {
	s := openTestStore(t)

	invID, err := s.CreateInvoice(&model.Invoice{
		TenantID: 1, Number: "1042", Amount: dec("100"), Date: day(2024, 3, 4),
	})
	require.NoError(t, err)
	payID, err := s.CreatePayment(&model.Payment{
		TenantID: 1, Amount: dec("100"), Date: day(2024, 3, 4),
	})
	require.NoError(t, err)

	require.NoError(t, s.Transaction(func(tx *sql.Tx) error {
		if err := MarkInvoicePaid(tx, invID); err != nil {
			return err
		}
		return LinkPayment(tx, payID, 42)
	}))

	inv, err := s.GetInvoice(invID)
	require.NoError(t, err)
	assert.True(t, inv.Paid)

	p, err := s.GetPayment(payID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.TransactionID)
}
