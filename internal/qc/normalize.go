package qc

import (
	"strings"

	"github.com/rpattn/coreqc/internal/domain"
)

const unitBrackets = "()[]"

// Normalize returns a cleaned copy of a raw log: blank rows dropped, column
// names trimmed and upper-cased, and the units row stripped of surrounding
// brackets and upper-cased.
func Normalize(raw domain.LogTable) domain.LogTable {
	columns := make([]string, len(raw.Columns))
	for i, name := range raw.Columns {
		columns[i] = strings.ToUpper(strings.TrimSpace(name))
	}

	rows := make([][]domain.Value, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		if isBlankRow(row) {
			continue
		}
		cloned := make([]domain.Value, len(row))
		copy(cloned, row)
		rows = append(rows, cloned)
	}

	if len(rows) > 0 {
		for i, unit := range rows[0] {
			if !unit.Valid {
				continue
			}
			rows[0][i] = domain.Text(strings.ToUpper(strings.Trim(unit.Text, unitBrackets)))
		}
	}

	return domain.LogTable{Columns: columns, Rows: rows}
}

func isBlankRow(row []domain.Value) bool {
	for _, cell := range row {
		if cell.Valid {
			return false
		}
	}
	return true
}
