package bankprofile

import "sync"

// Registry resolves normalized bank names to profiles, falling back to
// the default profile for unknown names. Profiles are immutable once
// registered.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewRegistry creates a registry containing only the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]Profile)}
	for _, p := range builtins {
		r.profiles[p.Key] = p
	}
	return r
}

// Register adds or replaces a profile under its key. Used at startup to
// overlay profiles from configuration.
func (r *Registry) Register(p Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.Key] = p
}

// Resolve returns the profile for a free-form bank name. Never fails:
// unrecognized names get the default profile.
func (r *Registry) Resolve(bankName string) Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.profiles[Normalize(bankName)]; ok {
		return p
	}
	return Default()
}

// builtins are the banks known out of the box. Dual-column banks report
// debit and credit separately; the rest use one signed amount column.
var builtins = []Profile{
	{
		Key:               "santander",
		DateColumn:        0,
		DescriptionColumn: 1,
		ReferenceColumn:   2,
		DebitColumn:       3,
		CreditColumn:      4,
		AmountColumn:      NoColumn,
		BalanceColumn:     5,
		DateFormat:        "02/01/2006",
	},
	{
		Key:               "bbva",
		DateColumn:        0,
		DescriptionColumn: 2,
		ReferenceColumn:   3,
		DebitColumn:       NoColumn,
		CreditColumn:      NoColumn,
		AmountColumn:      4,
		BalanceColumn:     5,
		DateFormat:        "02-01-2006",
	},
	{
		Key:               "chase",
		DateColumn:        1,
		DescriptionColumn: 2,
		ReferenceColumn:   6,
		DebitColumn:       NoColumn,
		CreditColumn:      NoColumn,
		AmountColumn:      3,
		BalanceColumn:     5,
		DateFormat:        "01/02/2006",
	},
	{
		Key:               "nacion",
		DateColumn:        0,
		DescriptionColumn: 1,
		ReferenceColumn:   NoColumn,
		DebitColumn:       2,
		CreditColumn:      3,
		AmountColumn:      NoColumn,
		BalanceColumn:     4,
		DateFormat:        "02/01/2006",
	},
}
