package workbook

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyWorkbook = errors.New("workbook has no sheets")
	ErrEmptySheet    = errors.New("sheet has no rows")
)

// Decode reads an .xlsx workbook from raw bytes and returns the first
// sheet as a Table. The first row is taken as the header; remaining rows
// are padded to the header width.
func Decode(data []byte) (Table, error) {
	if len(data) == 0 {
		return Table{}, ErrEmptyWorkbook
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return Table{}, ErrEmptySheet
	}

	header := rows[0]
	table := Table{
		Columns: header,
		Rows:    make([][]string, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, pad(row, len(header)))
	}
	return table, nil
}
