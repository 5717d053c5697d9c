// Package id formats and parses reconciliation session references.
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSessionRef returns a session reference like "R2024-03-001".
func FormatSessionRef(year, month, seq int) string {
	return fmt.Sprintf("R%04d-%02d-%03d", year, month, seq)
}

// SessionRefPrefix returns the month prefix shared by all references in
// a month, "R2024-03-".
func SessionRefPrefix(year, month int) string {
	return fmt.Sprintf("R%04d-%02d-", year, month)
}

// ParseSessionRef parses "R2024-03-001" into year, month, seq.
func ParseSessionRef(ref string) (year, month, seq int, err error) {
	if !strings.HasPrefix(ref, "R") {
		return 0, 0, 0, fmt.Errorf("invalid session reference: %q", ref)
	}

	parts := strings.SplitN(ref[1:], "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid session reference format: %q", ref)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in session reference %q: %w", ref, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in session reference %q: %w", ref, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in session reference %q: %w", ref, err)
	}

	return year, month, seq, nil
}
