package query

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"homespend/internal/core"
)

// Granularity selects the period a trend is grouped by.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

type (
	// Summary holds the headline scalars for a (possibly filtered) table.
	Summary struct {
		Total decimal.Decimal `json:"total"`
		Count int             `json:"count"`
		Mean  decimal.Decimal `json:"mean"`
	}

	// PeriodTotal is one point of a trend series.
	PeriodTotal struct {
		Period string          `json:"period"`
		Total  decimal.Decimal `json:"total"`
	}

	// PeriodStats summarizes a trend series with more than one period.
	PeriodStats struct {
		Mean decimal.Decimal `json:"mean"`
		Max  decimal.Decimal `json:"max"`
		Min  decimal.Decimal `json:"min"`
	}

	// LabelTotal is one bar of a categorical breakdown.
	LabelTotal struct {
		Label string          `json:"label"`
		Total decimal.Decimal `json:"total"`
	}
)

// Selectors for categorical breakdowns.
var (
	ByCategory    = func(t core.Transaction) string { return t.Category }
	ByBank        = func(t core.Transaction) string { return t.Bank }
	ByResponsible = func(t core.Transaction) string { return t.Responsible }
)

// Summarize computes grand total, count and mean. An empty table yields
// zeros, never an error.
func Summarize(txs []core.Transaction) Summary {
	s := Summary{Count: len(txs)}
	for _, t := range txs {
		s.Total = s.Total.Add(t.Amount)
	}
	if s.Count > 0 {
		s.Mean = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	}
	return s
}

// MonthTotal sums the transactions falling in ref's calendar month.
func MonthTotal(txs []core.Transaction, ref time.Time) decimal.Decimal {
	var total decimal.Decimal
	for _, t := range txs {
		if t.Date.Year() == ref.Year() && t.Date.Month() == ref.Month() {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// DailyMean returns the mean of per-day totals over the days that have
// transactions. Empty input yields zero.
func DailyMean(txs []core.Transaction) decimal.Decimal {
	days := GroupByPeriod(txs, ByDay)
	if len(days) == 0 {
		return decimal.Decimal{}
	}
	var sum decimal.Decimal
	for _, d := range days {
		sum = sum.Add(d.Total)
	}
	return sum.Div(decimal.NewFromInt(int64(len(days))))
}

// GroupByPeriod sums amounts per period at the chosen granularity,
// sorted by period ascending. Period labels sort lexicographically:
// 2006-01-02 for days, YYYY-SNN for weeks, 2006-01 for months.
func GroupByPeriod(txs []core.Transaction, g Granularity) []PeriodTotal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		var period string
		switch g {
		case ByWeek:
			period = WeekLabel(t.Date)
		case ByMonth:
			period = t.Date.Format("2006-01")
		default:
			period = t.Date.Format("2006-01-02")
		}
		sums[period] = sums[period].Add(t.Amount)
	}

	out := make([]PeriodTotal, 0, len(sums))
	for period, total := range sums {
		out = append(out, PeriodTotal{Period: period, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// StatsOf computes mean, max and min over the grouped sums. It reports
// false when fewer than two periods exist, matching the dashboard rule of
// hiding statistics for single-point series.
func StatsOf(periods []PeriodTotal) (PeriodStats, bool) {
	if len(periods) < 2 {
		return PeriodStats{}, false
	}

	stats := PeriodStats{Max: periods[0].Total, Min: periods[0].Total}
	var sum decimal.Decimal
	for _, p := range periods {
		sum = sum.Add(p.Total)
		if p.Total.GreaterThan(stats.Max) {
			stats.Max = p.Total
		}
		if p.Total.LessThan(stats.Min) {
			stats.Min = p.Total
		}
	}
	stats.Mean = sum.Div(decimal.NewFromInt(int64(len(periods))))
	return stats, true
}

// GroupByLabel sums amounts per label, sorted by sum descending, truncated
// to topN when topN > 0. Ties break on the label so output is stable.
func GroupByLabel(txs []core.Transaction, selector func(core.Transaction) string, topN int) []LabelTotal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		label := selector(t)
		sums[label] = sums[label].Add(t.Amount)
	}

	out := make([]LabelTotal, 0, len(sums))
	for label, total := range sums {
		out = append(out, LabelTotal{Label: label, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Label < out[j].Label
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// TopTransactions returns the n largest transactions by amount, newest
// first among equals. The input slice is not reordered.
func TopTransactions(txs []core.Transaction, n int) []core.Transaction {
	out := append([]core.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Date.After(out[j].Date)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Newest returns up to n transactions sorted by date descending, for the
// detail table.
func Newest(txs []core.Transaction, n int) []core.Transaction {
	out := append([]core.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Distinct returns the sorted unique values of a selector, for populating
// filter dropdowns.
func Distinct(txs []core.Transaction, selector func(core.Transaction) string) []string {
	seen := make(map[string]bool)
	for _, t := range txs {
		if v := selector(t); v != "" {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
