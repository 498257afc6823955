package qc

import (
	"regexp"

	"github.com/rpattn/coreqc/internal/domain"
	"github.com/rpattn/coreqc/internal/report"
)

var testDatePattern = regexp.MustCompile(`^\d{2}-(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)-\d{4}$`)

// identityRow is the first data row; row 0 holds units.
const identityRow = 1

// ValidateMetadata checks the leading metadata columns against the catalog
// template and the identifying fields against the accepted value lists.
func ValidateMetadata(table domain.LogTable, catalog *domain.SchemaCatalog, columns int, rep *report.Report) domain.LogIdentity {
	for i := 0; i < columns && i < len(catalog.Template); i++ {
		expected := catalog.Template[i]
		if i >= len(table.Columns) {
			rep.Error(expected.Name, "", domain.KindMnemonic, "is missing")
			continue
		}

		observed := table.Columns[i]
		if observed != expected.Name {
			rep.Error(observed, "", domain.KindMnemonic, "")
			continue
		}
		if unit := table.Unit(i); unit != expected.Unit {
			rep.Error(observed, unit, domain.KindUnit, "")
		}
	}

	identity := domain.LogIdentity{
		LabName:       identityField(table, domain.ColumnLabName),
		TestType:      identityField(table, domain.ColumnTestType),
		SampleType:    identityField(table, domain.ColumnSampleType),
		TestDate:      identityField(table, domain.ColumnTestDate),
		KnownTestType: true,
	}

	if !catalog.Accepts(domain.FieldLabName, identity.LabName) {
		rep.Warn(domain.ColumnLabName, identity.LabName, domain.KindValue, "")
	}
	if !catalog.Accepts(domain.FieldTestType, identity.TestType) {
		identity.KnownTestType = false
		rep.Error(domain.ColumnTestType, identity.TestType, domain.KindValue, "")
	}
	if !catalog.Accepts(domain.FieldSampleType, identity.SampleType) {
		rep.Error(domain.ColumnSampleType, identity.SampleType, domain.KindValue, "")
	}
	if !testDatePattern.MatchString(identity.TestDate) {
		rep.Error(domain.ColumnTestDate, identity.TestDate, domain.KindValue, "")
	}

	return identity
}

func identityField(table domain.LogTable, column string) string {
	idx := table.Index(column)
	if idx < 0 {
		return ""
	}
	return table.Cell(identityRow, idx).String()
}
