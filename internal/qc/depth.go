package qc

import (
	"errors"
	"fmt"

	"github.com/rpattn/coreqc/internal/domain"
)

var (
	// ErrDepthColumnMissing is returned when a log has no DEPTH column.
	ErrDepthColumnMissing = errors.New("depth column missing")
	// ErrDepthNotNumeric is returned when a DEPTH cell cannot be parsed.
	ErrDepthNotNumeric = errors.New("depth value is not numeric")
	// ErrDepthNotConverged is returned when duplicates survive the pass bound.
	ErrDepthNotConverged = errors.New("depth repair did not converge")
)

// ResolveDepth breaks ties between duplicate depth keys. Every depth equal to
// an earlier one is moved forward by increment, pass after pass, until all
// present depths are distinct. It returns a new table and the number of rows
// that were duplicated on the first pass; the input is left untouched.
//
// A row only moves while it ties with an earlier row, and once every earlier
// row has settled it can tie with each of them at most once, so n present
// depths settle within n*(n-1)/2 passes. Exceeding that, or a bump that no
// longer changes a value because the increment is lost to float precision,
// fails with ErrDepthNotConverged.
func ResolveDepth(table domain.LogTable, increment float64) (domain.LogTable, int, error) {
	col := table.Index(domain.DepthColumn)
	if col < 0 {
		return table, 0, ErrDepthColumnMissing
	}
	if increment <= 0 {
		return table, 0, fmt.Errorf("depth increment must be positive, got %g", increment)
	}

	type depth struct {
		row   int
		base  float64
		value float64
		bumps int
	}

	var depths []*depth
	for r := range table.DataRows() {
		cell := table.Cell(r+1, col)
		if !cell.Valid {
			continue
		}
		v, err := cell.Float()
		if err != nil {
			return table, 0, fmt.Errorf("%w: row %d: %q", ErrDepthNotNumeric, r+1, cell.Text)
		}
		depths = append(depths, &depth{row: r + 1, base: v, value: v})
	}

	duplicated := func() []*depth {
		seen := make(map[float64]struct{}, len(depths))
		var dups []*depth
		for _, d := range depths {
			if _, ok := seen[d.value]; ok {
				dups = append(dups, d)
				continue
			}
			seen[d.value] = struct{}{}
		}
		return dups
	}

	dups := duplicated()
	firstPass := len(dups)
	if firstPass == 0 {
		return table, 0, nil
	}

	maxPasses := len(depths) * (len(depths) - 1) / 2
	for pass := 0; len(dups) > 0; pass++ {
		if pass >= maxPasses {
			return table, firstPass, fmt.Errorf("%w: %d duplicates left after %d passes", ErrDepthNotConverged, len(dups), pass)
		}
		for _, d := range dups {
			d.bumps++
			next := d.base + float64(d.bumps)*increment
			if next == d.value {
				return table, firstPass, fmt.Errorf("%w: increment %g lost at depth %g", ErrDepthNotConverged, increment, d.value)
			}
			d.value = next
		}
		dups = duplicated()
	}

	resolved := table.Clone()
	for _, d := range depths {
		if d.bumps > 0 {
			resolved.Rows[d.row][col] = domain.Number(d.value)
		}
	}
	return resolved, firstPass, nil
}
