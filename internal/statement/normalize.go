package statement

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearline-dev/clearline/internal/bankprofile"
)

// Transaction is a canonical statement row: what a raw row becomes once
// the profile has been applied.
type Transaction struct {
	Date        time.Time
	Description string
	Reference   string
	Amount      decimal.Decimal // positive = credit into the account
	Balance     decimal.Decimal
	HasBalance  bool
}

// dateFallbacks are tried in order when the profile's declared format
// does not parse.
var dateFallbacks = []string{"02/01/2006", "02-01-2006", "2006-01-02", "01/02/2006"}

// bankCodePrefix matches a leading bank operation code such as "TRF00012345 ".
var bankCodePrefix = regexp.MustCompile(`^[A-Z]{2,4}\d{4,}\s*`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// currencyJunk strips currency symbols and spacing before numeric parsing.
var currencyJunk = strings.NewReplacer(
	"$", "", "€", "", "£", "", "R$", "", "US$", "",
	" ", "", "\t", "", " ", "",
)

// Normalizer converts raw statement rows into canonical transactions
// using one bank profile.
type Normalizer struct {
	profile bankprofile.Profile
}

// NewNormalizer creates a Normalizer for a profile.
func NewNormalizer(p bankprofile.Profile) *Normalizer {
	return &Normalizer{profile: p}
}

// Normalize applies the profile to one raw row. It returns ErrZeroAmount
// for rows that net to zero and a *RowError for unparseable dates or
// amounts; both are row-local.
func (n *Normalizer) Normalize(row Row) (Transaction, error) {
	date, err := n.parseDate(field(row.Fields, n.profile.DateColumn))
	if err != nil {
		return Transaction{}, rowErr(row, err)
	}

	amount, err := n.parseSignedAmount(row.Fields)
	if err != nil {
		return Transaction{}, rowErr(row, err)
	}
	if amount.IsZero() {
		return Transaction{}, ErrZeroAmount
	}

	txn := Transaction{
		Date:        date,
		Description: CleanDescription(field(row.Fields, n.profile.DescriptionColumn)),
		Reference:   strings.TrimSpace(field(row.Fields, n.profile.ReferenceColumn)),
		Amount:      amount,
	}

	if raw := field(row.Fields, n.profile.BalanceColumn); strings.TrimSpace(raw) != "" {
		if bal, err := ParseAmount(raw); err == nil {
			txn.Balance = bal
			txn.HasBalance = true
		}
	}
	return txn, nil
}

// parseSignedAmount computes credit - debit for dual-column profiles, or
// reads the single signed amount column.
func (n *Normalizer) parseSignedAmount(fields []string) (decimal.Decimal, error) {
	if n.profile.DualColumn() {
		debit, err := parseOptionalAmount(field(fields, n.profile.DebitColumn))
		if err != nil {
			return decimal.Zero, err
		}
		credit, err := parseOptionalAmount(field(fields, n.profile.CreditColumn))
		if err != nil {
			return decimal.Zero, err
		}
		return credit.Sub(debit), nil
	}
	return ParseAmount(field(fields, n.profile.AmountColumn))
}

// parseDate tries the profile's declared format, then the fallback list.
func (n *Normalizer) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	layouts := append([]string{n.profile.DateFormat}, dateFallbacks...)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q", raw)
}

// ParseAmount parses a statement amount, tolerating mixed separator
// conventions. When both "," and "." appear, the one occurring last is
// the decimal separator. A lone "," within the last three characters is
// a decimal separator; any other "," is a thousands separator.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := currencyJunk.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if strings.Count(s, ",") == 1 && strings.Index(s, ",") >= len(s)-3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q", raw)
	}
	return amount, nil
}

// parseOptionalAmount treats empty/dash fields as zero, for debit/credit
// pairs where only one side is filled.
func parseOptionalAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	return ParseAmount(s)
}

// CleanDescription collapses whitespace, trims, and drops a leading bank
// operation code (2-4 uppercase letters followed by 4+ digits).
func CleanDescription(raw string) string {
	s := whitespaceRun.ReplaceAllString(strings.TrimSpace(raw), " ")
	return strings.TrimSpace(bankCodePrefix.ReplaceAllString(s, ""))
}

func field(fields []string, idx int) string {
	if idx == bankprofile.NoColumn || idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

func rowErr(row Row, err error) *RowError {
	return &RowError{
		Row:     row.Number,
		Message: err.Error(),
		Raw:     strings.Join(row.Fields, ","),
	}
}
