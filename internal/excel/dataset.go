package excel

import "strings"

// Dataset is one parsed sheet: an ordered header plus string cell rows.
// Cell access is by column name so callers never depend on column order.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Row maps column names to raw cell text for a single sheet row.
type Row map[string]string

// HasColumn reports whether the header contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Field returns the trimmed cell value for the given row and column.
func (d *Dataset) Field(row int, column string) string {
	if row < 0 || row >= len(d.Rows) {
		return ""
	}
	return strings.TrimSpace(d.Rows[row][column])
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}
