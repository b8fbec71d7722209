package workbook

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Fecha", "Monto", "Categoria"},
		{"2025-01-15", "₡1,234.50", "Alimentación"},
		{"2025-01-16", "500"},
	})

	table, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if got := table.Cell(0, "Monto"); got != "₡1,234.50" {
		t.Errorf("cell = %q", got)
	}
	// Short rows are padded to the header width.
	if got := table.Cell(1, "Categoria"); got != "" {
		t.Errorf("padded cell = %q, want empty", got)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Error("Decode(nil) should fail")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte("not a workbook")); err == nil {
		t.Error("Decode(garbage) should fail")
	}
}
