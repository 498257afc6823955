package qc

import (
	"github.com/rpattn/coreqc/internal/domain"
	"github.com/rpattn/coreqc/internal/report"
)

var metadataNames = []string{
	"WELL", domain.DepthColumn, domain.ColumnLabName, domain.ColumnTestType,
	domain.ColumnSampleType, domain.ColumnTestDate, "SAMPLE_ID",
}

var metadataUnits = []string{"", "M", "", "", "", "", ""}

func ptr(f float64) *float64 { return &f }

func testCatalog() *domain.SchemaCatalog {
	template := make([]domain.TemplateColumn, len(metadataNames))
	for i, name := range metadataNames {
		template[i] = domain.TemplateColumn{Name: name, Unit: metadataUnits[i]}
	}
	return &domain.SchemaCatalog{
		Template: template,
		Accepted: map[domain.Field]map[string]struct{}{
			domain.FieldLabName:    {"CORELAB": {}},
			domain.FieldTestType:   {"GAMMA": {}, "POROSITY": {}},
			domain.FieldSampleType: {"PLUG": {}},
		},
		Mnemonics: map[string]map[string]domain.MnemonicRule{
			"GAMMA": {
				"GRXXXX": {Unit: "API", Min: ptr(0), Max: ptr(250)},
				"RHOB":   {Unit: "G/CC", Min: ptr(1.5)},
				"NOTE":   {Unit: ""},
			},
		},
	}
}

// row builds a row; "" is a missing cell.
func row(cells ...string) []domain.Value {
	out := make([]domain.Value, len(cells))
	for i, cell := range cells {
		if cell != "" {
			out[i] = domain.Text(cell)
		}
	}
	return out
}

// logTable builds a cleaned table with valid metadata and the given
// measurement columns. units and values hold one entry per measurement column;
// every values row becomes a data row with depth taken from depths.
func logTable(measurements, units []string, depths []string, values ...[]string) domain.LogTable {
	columns := append(append([]string{}, metadataNames...), measurements...)

	unitRow := append(append([]string{}, metadataUnits...), units...)
	rows := [][]domain.Value{row(unitRow...)}
	for i, depth := range depths {
		cells := []string{"W-1", depth, "CORELAB", "GAMMA", "PLUG", "15-JAN-2024", "S1"}
		if i < len(values) {
			cells = append(cells, values[i]...)
		} else {
			cells = append(cells, make([]string, len(measurements))...)
		}
		rows = append(rows, row(cells...))
	}
	return domain.LogTable{Columns: columns, Rows: rows}
}

func records(rep *report.Report) []domain.Record {
	return rep.Records()
}
