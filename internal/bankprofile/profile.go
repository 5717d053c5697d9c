// Package bankprofile maps bank names to statement column layouts.
package bankprofile

import "strings"

// NoColumn marks a column the profile does not carry.
const NoColumn = -1

// Profile describes how to read one bank's statement rows. A profile uses
// either a single signed AmountColumn or a DebitColumn/CreditColumn pair.
type Profile struct {
	Key               string
	DateColumn        int
	DescriptionColumn int
	ReferenceColumn   int
	DebitColumn       int
	CreditColumn      int
	AmountColumn      int
	BalanceColumn     int
	DateFormat        string // Go reference layout
}

// DualColumn reports whether amounts come from separate debit/credit columns.
func (p Profile) DualColumn() bool {
	return p.DebitColumn != NoColumn && p.CreditColumn != NoColumn
}

// Normalize canonicalizes a free-form bank name into a registry key:
// lower-cased, "banco "/"bank " prefix dropped, spaces/dashes/dots
// replaced by underscores.
func Normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "banco ")
	key = strings.TrimPrefix(key, "bank ")
	key = strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(key)
	return key
}

// Default returns the fallback profile used for unrecognized banks:
// date, description, reference, signed amount, balance.
func Default() Profile {
	return Profile{
		Key:               "default",
		DateColumn:        0,
		DescriptionColumn: 1,
		ReferenceColumn:   2,
		DebitColumn:       NoColumn,
		CreditColumn:      NoColumn,
		AmountColumn:      3,
		BalanceColumn:     4,
		DateFormat:        "02/01/2006",
	}
}
