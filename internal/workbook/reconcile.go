package workbook

import (
	"strings"

	"homespend/internal/core"
)

// columnRule declares how one canonical column is located in a named
// source. Synonyms are matched case-insensitively as substrings (or whole
// headers when exact is set), in declared order; when several synonyms hit
// different source columns the last match wins the rename. The canonical
// name itself is always the first synonym, which makes reconciliation a
// no-op on already-canonical tables.
type columnRule struct {
	target    string
	synonyms  []string
	exact     bool
	mandatory bool
	sentinel  string
}

var columnRules = []columnRule{
	{target: ColMessageID, synonyms: []string{"messageid", "message_id"}, exact: true},
	{target: ColID, synonyms: []string{"id"}, exact: true},
	{target: ColBank, synonyms: []string{"bank", "banco"}},
	{target: ColBusiness, synonyms: []string{"business", "categoria", "category", "tipo", "type", "class"}, sentinel: core.SentinelCategory},
	{target: ColLocation, synonyms: []string{"location", "descripcion", "description", "detalle", "detail", "concepto"}, sentinel: core.SentinelDescription},
	{target: ColDate, synonyms: []string{"date", "fecha", "time", "día", "dia"}, mandatory: true},
	{target: ColCard, synonyms: []string{"card", "tarjeta"}},
	{target: ColAmount, synonyms: []string{"amount", "monto", "precio", "cost", "gasto", "valor"}, mandatory: true},
	{target: ColResponsible, synonyms: []string{"responsible", "responsable"}},
}

// Reconcile maps an arbitrary source table onto the canonical column set,
// in canonical order. Named sources are matched by synonym (Strategy B);
// sources without any recognizable date or amount header fall back to
// positional assignment of the first nine columns (Strategy A). The input
// table is never mutated.
func Reconcile(t Table) (Table, error) {
	if recognizable(t) {
		return reconcileNamed(t)
	}
	return reconcilePositional(t)
}

// recognizable reports whether the source carries named date and amount
// headers the synonym rules can work with.
func recognizable(t Table) bool {
	for _, rule := range columnRules {
		if !rule.mandatory {
			continue
		}
		if findColumn(t.Columns, rule) >= 0 {
			return true
		}
	}
	return false
}

// reconcilePositional assigns canonical names to the first nine columns in
// fixed order. Sources with fewer columns cannot be loaded.
func reconcilePositional(t Table) (Table, error) {
	want := len(CanonicalColumns)
	if len(t.Columns) < want {
		return Table{}, &core.SchemaError{
			Reason:  "positional source needs at least 9 columns",
			Columns: t.Columns,
		}
	}

	out := Table{
		Columns: append([]string(nil), CanonicalColumns...),
		Rows:    make([][]string, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		row = pad(row, want)
		canonical := append([]string(nil), row[:want]...)
		applySentinels(canonical)
		out.Rows = append(out.Rows, canonical)
	}
	return out, nil
}

// applySentinels fills blank optional cells in a canonical-order row so
// that reconciliation stays idempotent regardless of strategy.
func applySentinels(row []string) {
	for i, rule := range columnRules {
		if i < len(row) && row[i] == "" && rule.sentinel != "" {
			row[i] = rule.sentinel
		}
	}
}

// reconcileNamed resolves every canonical column through the synonym
// rules. Missing mandatory columns abort the load; missing optional ones
// are synthesized with their sentinel default.
func reconcileNamed(t Table) (Table, error) {
	indices := make([]int, len(columnRules))
	for i, rule := range columnRules {
		idx := findColumn(t.Columns, rule)
		if idx < 0 && rule.mandatory {
			return Table{}, &core.SchemaError{
				Reason:  "no recognizable " + strings.ToLower(rule.target) + " column",
				Columns: t.Columns,
			}
		}
		indices[i] = idx
	}

	out := Table{
		Columns: append([]string(nil), CanonicalColumns...),
		Rows:    make([][]string, 0, len(t.Rows)),
	}
	for r := range t.Rows {
		row := make([]string, len(columnRules))
		for i, idx := range indices {
			if idx >= 0 && idx < len(t.Rows[r]) {
				row[i] = t.Rows[r][idx]
			}
		}
		applySentinels(row)
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// findColumn locates the source column for a rule, or -1. Later synonyms
// override earlier matches; the first matching column wins per synonym.
func findColumn(cols []string, rule columnRule) int {
	match := -1
	for _, syn := range rule.synonyms {
		for i, c := range cols {
			name := strings.ToLower(strings.TrimSpace(c))
			if rule.exact {
				if name == syn {
					match = i
					break
				}
				continue
			}
			if strings.Contains(name, syn) {
				match = i
				break
			}
		}
	}
	return match
}
