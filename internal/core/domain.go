package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel labels substituted when a source field is missing or blank.
// They are part of the canonical schema, not presentation details: the
// aggregation layer groups by them like any other label.
const (
	SentinelCategory    = "Otros"
	SentinelDescription = "Desconocido"
	SentinelBank        = "Desconocido"
)

// FixedExpenseBank labels synthesized recurring charges.
const FixedExpenseBank = "Gasto Fijo"

// FilterAll disables a categorical filter predicate. An empty string is
// treated the same way.
const FilterAll = "all"

type (
	// Transaction is the canonical expense record every source format is
	// normalized into. After the pipeline completes, Date is non-zero and
	// Amount is strictly positive for every record.
	Transaction struct {
		ID          string          `json:"id"`
		Date        time.Time       `json:"date"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Bank        string          `json:"bank"`
		CardSuffix  string          `json:"card_suffix,omitempty"`
		Responsible string          `json:"responsible"`
	}

	// FixedExpenseRule describes one recurring monthly charge that is not
	// present in the raw source. Rules are static configuration, validated
	// at definition time and expanded once per load.
	FixedExpenseRule struct {
		Amount      decimal.Decimal
		Label       string
		Description string
	}

	// FilterSpec carries one UI interaction's worth of filter values.
	// Zero-value Start/End leave that side of the date range open.
	FilterSpec struct {
		Start       time.Time
		End         time.Time
		Category    string
		Responsible string
		Bank        string
		MinAmount   decimal.Decimal
	}

	// Dataset is the result of one load cycle: the canonical table plus
	// load accounting. It is immutable once built; filtered views are
	// derived slices.
	Dataset struct {
		Transactions []Transaction
		SourceRows   int
		DroppedRows  int
		LoadedAt     time.Time
		LoadID       string
	}
)

// SchemaError reports a source table that cannot be reconciled onto the
// canonical schema. It is fatal to the load: no partial table is returned.
type SchemaError struct {
	Reason  string
	Columns []string
}

func (e *SchemaError) Error() string {
	if len(e.Columns) == 0 {
		return "schema: " + e.Reason
	}
	return fmt.Sprintf("schema: %s (columns: %s)", e.Reason, strings.Join(e.Columns, ", "))
}

// Validate checks a rule at definition time so the synthesizer never has
// to fail at runtime.
func (r FixedExpenseRule) Validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return fmt.Errorf("fixed expense rule: empty label")
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("fixed expense rule %q: amount must be positive", r.Label)
	}
	return nil
}

// WantsCategory reports whether the filter restricts by category.
func (s FilterSpec) WantsCategory() bool { return filterSet(s.Category) }

// WantsResponsible reports whether the filter restricts by responsible party.
func (s FilterSpec) WantsResponsible() bool { return filterSet(s.Responsible) }

// WantsBank reports whether the filter restricts by bank.
func (s FilterSpec) WantsBank() bool { return filterSet(s.Bank) }

func filterSet(v string) bool {
	return v != "" && !strings.EqualFold(v, FilterAll)
}
