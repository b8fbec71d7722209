// Package workbook decodes spreadsheet workbooks into string tables and
// reconciles their column layouts onto the canonical schema.
package workbook

// Canonical column names, in canonical order. Every reconciled table has
// exactly this column set.
const (
	ColMessageID   = "MessageID"
	ColID          = "ID"
	ColBank        = "Bank"
	ColBusiness    = "Business"
	ColLocation    = "Location"
	ColDate        = "Date"
	ColCard        = "Card"
	ColAmount      = "Amount"
	ColResponsible = "Responsible"
)

// CanonicalColumns is the column order the normalizer depends on.
var CanonicalColumns = []string{
	ColMessageID, ColID, ColBank, ColBusiness, ColLocation,
	ColDate, ColCard, ColAmount, ColResponsible,
}

// Table is an in-memory spreadsheet: an ordered header plus rows of raw
// string cells. Rows are always padded to the header width.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of name in the header, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table carries the named column.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the value at (row, column name), or "" when the column is
// missing or the row is short.
func (t Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// pad returns row extended with empty cells up to width.
func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
