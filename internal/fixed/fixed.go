// Package fixed synthesizes recurring monthly charges that never appear
// in the raw transaction source.
package fixed

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"homespend/internal/core"
)

// Fields shared by every synthetic record.
const (
	Responsible = "ALVARO FERNANDO OVIEDO MATAMOROS"
	CardSuffix  = "4128"
	Location    = "SAN JOSÉ"
)

// baselineStart is the earliest month fixed expenses are generated for,
// regardless of what the source table covers.
var baselineStart = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultRules returns the household's configured recurring charges.
func DefaultRules() []core.FixedExpenseRule {
	return []core.FixedExpenseRule{
		{
			Amount:      decimal.NewFromInt(430000),
			Label:       "Arrendamiento",
			Description: "Mensualidad del Apartamento",
		},
		{
			Amount:      decimal.NewFromInt(232000),
			Label:       "Prestamo del carro",
			Description: "Mensualidad del Carro",
		},
	}
}

// Synthesizer expands fixed-expense rules into one synthetic transaction
// per rule per calendar month. It never fails: rules are validated at
// definition time. It must run exactly once per load, on the real table,
// before any caching of results.
type Synthesizer struct {
	rules []core.FixedExpenseRule
	now   func() time.Time
}

// New builds a Synthesizer. A nil rule list uses DefaultRules; a nil
// clock uses time.Now.
func New(rules []core.FixedExpenseRule, now func() time.Time) *Synthesizer {
	if rules == nil {
		rules = DefaultRules()
	}
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{rules: rules, now: now}
}

// Merge appends one synthetic record per rule per month-start across the
// inferred span and returns the combined slice sorted by date ascending.
// The span runs from min(2025-01-01, first month of the earliest real
// record) through max(today, latest real record), inclusive. The input
// slice is not mutated.
func (s *Synthesizer) Merge(txs []core.Transaction) []core.Transaction {
	start, end := s.span(txs)

	combined := append([]core.Transaction(nil), txs...)
	for month := start; !month.After(end); month = month.AddDate(0, 1, 0) {
		for _, rule := range s.rules {
			combined = append(combined, synthetic(month, rule))
		}
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Date.Before(combined[j].Date)
	})
	return combined
}

// span returns the first month-start and the end date of the generation
// range.
func (s *Synthesizer) span(txs []core.Transaction) (start, end time.Time) {
	start = baselineStart
	end = s.now().UTC()

	for _, t := range txs {
		if monthStart := floorToMonth(t.Date); monthStart.Before(start) {
			start = monthStart
		}
		if t.Date.After(end) {
			end = t.Date
		}
	}
	return start, end
}

func synthetic(month time.Time, rule core.FixedExpenseRule) core.Transaction {
	return core.Transaction{
		ID:          "FIXED_" + month.Format("200601") + "_" + strings.ReplaceAll(rule.Label, " ", "_"),
		Date:        month,
		Amount:      rule.Amount,
		Category:    rule.Label,
		Description: rule.Description,
		Bank:        core.FixedExpenseBank,
		CardSuffix:  CardSuffix,
		Responsible: Responsible,
	}
}

func floorToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
