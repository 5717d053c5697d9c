// Package match finds and records counterparts for bank transactions.
package match

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Scoring weights. The sum is capped at maxScore.
const (
	pointsExactAmount  = 50
	pointsSameDay      = 30
	pointsWithin3Days  = 20
	pointsWithin7Days  = 10
	pointsReferenceHit = 20
	maxScore           = 100
)

// Score rates how likely an entity is the true counterpart of a
// transaction, 0-100. Missing data for a rule contributes zero; the
// function never fails.
func Score(txnAmount decimal.Decimal, txnDate time.Time, txnRef string,
	entityAmount decimal.Decimal, entityDate time.Time, entityRef string) int {

	score := 0
	if txnAmount.Abs().Equal(entityAmount.Abs()) {
		score += pointsExactAmount
	}

	switch days := daysApart(txnDate, entityDate); {
	case days == 0:
		score += pointsSameDay
	case days <= 3:
		score += pointsWithin3Days
	case days <= 7:
		score += pointsWithin7Days
	}

	if txnRef != "" && entityRef != "" &&
		strings.Contains(strings.ToLower(entityRef), strings.ToLower(txnRef)) {
		score += pointsReferenceHit
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

// daysApart returns the absolute distance in calendar days.
func daysApart(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(ad.Sub(bd).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
