package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DepthColumn is the depth key column of every log.
const DepthColumn = "DEPTH"

// Value is a single cell of a log. Valid is false for missing cells.
type Value struct {
	Text  string
	Valid bool
}

// Missing returns an empty cell.
func Missing() Value {
	return Value{}
}

// Text wraps a present cell value.
func Text(s string) Value {
	return Value{Text: s, Valid: true}
}

// Number formats f with the shortest representation that round-trips.
func Number(f float64) Value {
	return Value{Text: strconv.FormatFloat(f, 'f', -1, 64), Valid: true}
}

// Float parses the cell as a number.
func (v Value) Float() (float64, error) {
	if !v.Valid {
		return 0, fmt.Errorf("missing value")
	}
	return strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
}

func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return v.Text
}

// LogTable is one loaded log. Rows[0] holds the units of each column, the
// remaining rows hold measurements. Every row has len(Columns) cells.
type LogTable struct {
	Columns []string
	Rows    [][]Value
}

// Units returns the units row, or nil when the table has no rows.
func (t LogTable) Units() []Value {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Unit returns the unit text of column i.
func (t LogTable) Unit(i int) string {
	units := t.Units()
	if i < 0 || i >= len(units) {
		return ""
	}
	return units[i].String()
}

// DataRows returns every row after the units row.
func (t LogTable) DataRows() [][]Value {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// Index returns the position of the first column with the given name.
func (t LogTable) Index(name string) int {
	for i, column := range t.Columns {
		if column == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row r, column c, or a missing value when out of range.
func (t LogTable) Cell(r, c int) Value {
	if r < 0 || r >= len(t.Rows) {
		return Missing()
	}
	row := t.Rows[r]
	if c < 0 || c >= len(row) {
		return Missing()
	}
	return row[c]
}

// MetadataColumns returns the first n column names.
func (t LogTable) MetadataColumns(n int) []string {
	if n > len(t.Columns) {
		n = len(t.Columns)
	}
	return t.Columns[:n]
}

// MeasurementColumns returns the column names after the first n.
func (t LogTable) MeasurementColumns(n int) []string {
	if n >= len(t.Columns) {
		return nil
	}
	return t.Columns[n:]
}

// Clone returns a deep copy so the result can be modified without touching t.
func (t LogTable) Clone() LogTable {
	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)
	rows := make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]Value, len(row))
		copy(rows[i], row)
	}
	return LogTable{Columns: columns, Rows: rows}
}

// Select builds a new table holding the given column positions in order.
func (t LogTable) Select(indexes []int) LogTable {
	columns := make([]string, len(indexes))
	for i, idx := range indexes {
		columns[i] = t.Columns[idx]
	}
	rows := make([][]Value, len(t.Rows))
	for r, row := range t.Rows {
		selected := make([]Value, len(indexes))
		for i, idx := range indexes {
			if idx < len(row) {
				selected[i] = row[idx]
			}
		}
		rows[r] = selected
	}
	return LogTable{Columns: columns, Rows: rows}
}
