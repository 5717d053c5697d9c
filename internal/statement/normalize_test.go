package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline-dev/clearline/internal/bankprofile"
)

func TestParseAmount_MixedSeparators(t *testing.T) {
	cases := map[string]string{
		"1.234,56":     "1234.56",
		"1,234.56":     "1234.56",
		"45,00":        "45",
		"45.00":        "45",
		"1,234":        "1234",
		"12.345.678,9": "12345678.9",
		"-1.234,56":    "-1234.56",
		"$ 1,200.50":   "1200.5",
		"€45,00":       "45",
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got.String(), "input %q", in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	_, err := ParseAmount("")
	assert.Error(t, err)

	_, err = ParseAmount("not a number")
	assert.Error(t, err)
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "PAYROLL ACME CORP",
		CleanDescription("  PAYROLL   ACME \t CORP "))

	// Leading bank operation code is dropped.
	assert.Equal(t, "TRANSFER FROM SAVINGS",
		CleanDescription("TRF0001234 TRANSFER FROM SAVINGS"))

	// Short or non-conforming prefixes stay.
	assert.Equal(t, "A1 CATERING", CleanDescription("A1 CATERING"))
	assert.Equal(t, "ACME123 SUPPLIES", CleanDescription("ACME123 SUPPLIES"))
}

func dmyProfile() bankprofile.Profile {
	p := bankprofile.Default()
	p.DateFormat = "02/01/2006"
	return p
}

func TestNormalize_ProfileDateFormat(t *testing.T) {
	n := NewNormalizer(dmyProfile())
	txn, err := n.Normalize(Row{Number: 1, Fields: []string{"15/03/2024", "Invoice payment", "INV-42", "119000", "250000"}})
	require.NoError(t, err)

	assert.Equal(t, 2024, txn.Date.Year())
	assert.Equal(t, 3, int(txn.Date.Month()))
	assert.Equal(t, 15, txn.Date.Day())
}

func TestNormalize_DateFallback(t *testing.T) {
	// ISO date fails the profile's d/m/Y layout but parses via fallback.
	n := NewNormalizer(dmyProfile())
	txn, err := n.Normalize(Row{Number: 1, Fields: []string{"2024-03-15", "Invoice payment", "", "100.00", ""}})
	require.NoError(t, err)

	assert.Equal(t, 2024, txn.Date.Year())
	assert.Equal(t, 3, int(txn.Date.Month()))
	assert.Equal(t, 15, txn.Date.Day())
}

func TestNormalize_BadDate(t *testing.T) {
	n := NewNormalizer(dmyProfile())
	_, err := n.Normalize(Row{Number: 4, Fields: []string{"NOTADATE", "desc", "", "100.00", ""}})
	require.Error(t, err)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 4, rowErr.Row)
	assert.Contains(t, rowErr.Message, "parsing date")
}

func TestNormalize_DualColumnSign(t *testing.T) {
	p := bankprofile.Profile{
		Key:               "dual",
		DateColumn:        0,
		DescriptionColumn: 1,
		ReferenceColumn:   bankprofile.NoColumn,
		DebitColumn:       2,
		CreditColumn:      3,
		AmountColumn:      bankprofile.NoColumn,
		BalanceColumn:     4,
		DateFormat:        "02/01/2006",
	}
	n := NewNormalizer(p)

	// Debit only: outflow, negative.
	txn, err := n.Normalize(Row{Number: 1, Fields: []string{"10/03/2024", "Office rent", "1500.00", "", "98500.00"}})
	require.NoError(t, err)
	assert.Equal(t, "-1500", txn.Amount.String())

	// Credit only: inflow, positive.
	txn, err = n.Normalize(Row{Number: 2, Fields: []string{"11/03/2024", "Customer payment", "", "2300.00", "100800.00"}})
	require.NoError(t, err)
	assert.Equal(t, "2300", txn.Amount.String())
	assert.True(t, txn.HasBalance)
	assert.Equal(t, "100800", txn.Balance.String())
}

func TestNormalize_ZeroAmountDropped(t *testing.T) {
	n := NewNormalizer(dmyProfile())
	_, err := n.Normalize(Row{Number: 1, Fields: []string{"15/03/2024", "Fee adjustment", "", "0.00", ""}})
	assert.ErrorIs(t, err, ErrZeroAmount)
}

func TestNormalize_DescriptionCleanup(t *testing.T) {
	n := NewNormalizer(dmyProfile())
	txn, err := n.Normalize(Row{Number: 1, Fields: []string{"15/03/2024", " TRF0001234  WIRE  IN ", "REF-9", "100", ""}})
	require.NoError(t, err)
	assert.Equal(t, "WIRE IN", txn.Description)
	assert.Equal(t, "REF-9", txn.Reference)
}
