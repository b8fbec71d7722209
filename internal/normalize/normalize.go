// Package normalize converts textual amount and date representations into
// numeric and temporal values, and builds canonical transactions out of
// reconciled tables. Cells that fail to parse mark their row as dropped;
// they are never surfaced as errors.
package normalize

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUnparseableAmount = errors.New("unparseable amount")
	ErrUnparseableDate   = errors.New("unparseable date")
)

// DefaultSymbols are the currency glyphs stripped before numeric parsing.
// The colón covers the OneDrive-exported sheet, the dollar sign the raw
// notification export.
var DefaultSymbols = []string{"₡", "$"}

// Normalizer parses amounts and dates. The zero value is not usable;
// construct with New.
type Normalizer struct {
	symbols []string
}

// New returns a Normalizer stripping the given currency symbols, or
// DefaultSymbols when none are given.
func New(symbols ...string) *Normalizer {
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	return &Normalizer{symbols: symbols}
}

// Amount converts a textual amount into a positive decimal. Currency
// glyphs, thousands separators and whitespace are stripped; the absolute
// value is taken because the source stores signed debits.
func (n *Normalizer) Amount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	for _, sym := range n.symbols {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Decimal{}, ErrUnparseableAmount
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, ErrUnparseableAmount
	}
	return d.Abs(), nil
}

// Layouts the source is known to emit: ISO exports, spreadsheet cell
// formats, and notification timestamps.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"01-02-06",
	"01-02-06 15:04",
	"01/02/2006",
	"1/2/2006",
	"1/2/06 15:04",
	"02/01/2006 15:04",
	"2006/01/02",
}

// Date parses a textual date against the known layouts, in order.
func (n *Normalizer) Date(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrUnparseableDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparseableDate
}
