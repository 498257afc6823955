package qc

import (
	"regexp"

	"github.com/rpattn/coreqc/internal/domain"
	"github.com/rpattn/coreqc/internal/report"
)

// MnemonicPlaceholder replaces numeric runs in measurement column names.
const MnemonicPlaceholder = "XXXX"

var numericRun = regexp.MustCompile(`[0-9.]+`)

const (
	msgNotUnique    = "mnemonics are not unique"
	msgOutOfRange   = "is not in expected range"
	msgNoDictionary = "has no mnemonic dictionary"
)

// NormalizeMnemonic collapses every run of digits and dots into the
// placeholder so indexed channels such as GR1 and GR2 share one rule.
func NormalizeMnemonic(name string) string {
	return numericRun.ReplaceAllString(name, MnemonicPlaceholder)
}

// ValidateMeasurements checks every column after the metadata prefix against
// the mnemonic dictionary of the identified test type.
func ValidateMeasurements(table domain.LogTable, identity domain.LogIdentity, catalog *domain.SchemaCatalog, metadataColumns int, rep *report.Report) {
	if !identity.KnownTestType {
		return
	}

	dictionary, ok := catalog.Dictionary(identity.TestType)
	if !ok {
		rep.Error(domain.ColumnTestType, identity.TestType, domain.KindValue, msgNoDictionary)
		return
	}

	columns := table.MeasurementColumns(metadataColumns)
	if !unique(columns) {
		rep.Error("", "", domain.KindValue, msgNotUnique)
		return
	}

	for offset, column := range columns {
		idx := metadataColumns + offset

		rule, found := dictionary[NormalizeMnemonic(column)]
		if !found {
			rep.Error(column, "", domain.KindMnemonic, "")
			continue
		}

		if unit := table.Unit(idx); unit != rule.Unit {
			rep.Error(column, unit, domain.KindUnit, "")
		}

		lo, hi, ok := columnRange(table, idx)
		if !ok {
			continue
		}
		if rule.Min != nil && lo < *rule.Min {
			rep.Warn(column, domain.Number(lo).Text, domain.KindMinValue, msgOutOfRange)
		}
		if rule.Max != nil && hi > *rule.Max {
			rep.Warn(column, domain.Number(hi).Text, domain.KindMaxValue, msgOutOfRange)
		}
	}
}

// columnRange returns the observed bounds of a column over the data rows.
// It reports false when the column holds no values or any non-numeric value.
func columnRange(table domain.LogTable, idx int) (lo, hi float64, ok bool) {
	for r := range table.DataRows() {
		cell := table.Cell(r+1, idx)
		if !cell.Valid {
			continue
		}
		v, err := cell.Float()
		if err != nil {
			return 0, 0, false
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi, ok
}

func unique(names []string) bool {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return false
		}
		seen[name] = struct{}{}
	}
	return true
}
