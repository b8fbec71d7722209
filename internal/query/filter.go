// Package query filters the canonical transaction table and computes the
// aggregates the dashboard renders.
package query

import (
	"time"

	"homespend/internal/core"
)

// Filter returns the transactions matching every predicate in spec. The
// input is never mutated; the result is a fresh slice. An empty result is
// a valid value, not an error.
func Filter(txs []core.Transaction, spec core.FilterSpec) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if matches(t, spec) {
			out = append(out, t)
		}
	}
	return out
}

// matches combines the predicates with logical AND. Date bounds compare
// calendar days, inclusive on both ends; zero bounds leave that side open.
func matches(t core.Transaction, spec core.FilterSpec) bool {
	day := dayOf(t.Date)
	if !spec.Start.IsZero() && day.Before(dayOf(spec.Start)) {
		return false
	}
	if !spec.End.IsZero() && day.After(dayOf(spec.End)) {
		return false
	}
	if spec.WantsCategory() && t.Category != spec.Category {
		return false
	}
	if spec.WantsResponsible() && t.Responsible != spec.Responsible {
		return false
	}
	if spec.WantsBank() && t.Bank != spec.Bank {
		return false
	}
	if t.Amount.LessThan(spec.MinAmount) {
		return false
	}
	return true
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
