package catalog

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rpattn/coreqc/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Sheet layout of the settings workbook: accepted values first, the metadata
// template second, then one sheet per test type.
const (
	generalSheetIndex   = 0
	templateSheetIndex  = 1
	firstTestTypeSheet  = 2
	columnMnemonic      = "MNEMONIC"
	columnUnit          = "UNIT"
	columnMin           = "MIN"
	columnMax           = "MAX"
	msgDuplicatedInBook = "mnemonics are not unique in settings workbook"
)

var (
	// ErrTemplateTooShort is returned when the template has fewer columns than the logs' metadata prefix.
	ErrTemplateTooShort = errors.New("metadata template too short")
	// ErrMissingSheets is returned when the workbook lacks the general or template sheet.
	ErrMissingSheets = errors.New("settings workbook needs a general and a template sheet")
)

// Result carries the loaded catalog and any warnings raised while loading it.
type Result struct {
	Catalog  *domain.SchemaCatalog
	Warnings []domain.Record
}

// Load reads the settings workbook at path.
func Load(path string, metadataColumns int) (Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open settings workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	return load(f, metadataColumns)
}

// LoadReader reads a settings workbook from r.
func LoadReader(r io.Reader, metadataColumns int) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open settings workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	return load(f, metadataColumns)
}

func load(f *excelize.File, metadataColumns int) (Result, error) {
	sheets := f.GetSheetList()
	if len(sheets) <= templateSheetIndex {
		return Result{}, ErrMissingSheets
	}

	result := Result{
		Catalog: &domain.SchemaCatalog{
			Mnemonics: make(map[string]map[string]domain.MnemonicRule),
		},
		Warnings: []domain.Record{},
	}

	general, err := f.GetRows(sheets[generalSheetIndex])
	if err != nil {
		return Result{}, fmt.Errorf("failed to read sheet %s: %w", sheets[generalSheetIndex], err)
	}
	result.Catalog.Accepted = parseAccepted(general)

	template, err := f.GetRows(sheets[templateSheetIndex])
	if err != nil {
		return Result{}, fmt.Errorf("failed to read sheet %s: %w", sheets[templateSheetIndex], err)
	}
	result.Catalog.Template = parseTemplate(template)
	if len(result.Catalog.Template) < metadataColumns {
		return Result{}, fmt.Errorf("%w: %d columns, need %d", ErrTemplateTooShort, len(result.Catalog.Template), metadataColumns)
	}

	for _, sheet := range sheets[firstTestTypeSheet:] {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return Result{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		dictionary, duplicated, err := parseMnemonics(rows)
		if err != nil {
			return Result{}, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if duplicated {
			result.Warnings = append(result.Warnings, domain.NewWarning(sheet, "", domain.KindMnemonic, msgDuplicatedInBook))
		}
		result.Catalog.Mnemonics[sheet] = dictionary
	}

	return result, nil
}

func parseAccepted(rows [][]string) map[domain.Field]map[string]struct{} {
	accepted := map[domain.Field]map[string]struct{}{
		domain.FieldLabName:    {},
		domain.FieldTestType:   {},
		domain.FieldSampleType: {},
	}
	if len(rows) == 0 {
		return accepted
	}

	header := rows[0]
	for _, row := range rows[1:] {
		for i, cell := range row {
			if i >= len(header) || cell == "" {
				continue
			}
			values, ok := accepted[domain.Field(strings.ToUpper(strings.TrimSpace(header[i])))]
			if !ok {
				continue
			}
			values[cell] = struct{}{}
		}
	}
	return accepted
}

func parseTemplate(rows [][]string) []domain.TemplateColumn {
	if len(rows) == 0 {
		return nil
	}
	var units []string
	if len(rows) > 1 {
		units = rows[1]
	}

	template := make([]domain.TemplateColumn, 0, len(rows[0]))
	for i, name := range rows[0] {
		column := domain.TemplateColumn{Name: strings.ToUpper(strings.TrimSpace(name))}
		if i < len(units) {
			column.Unit = strings.ToUpper(strings.TrimSpace(units[i]))
		}
		template = append(template, column)
	}
	return template
}

// parseMnemonics builds one test type dictionary. Mnemonics are upper-cased
// and the first occurrence of a duplicate wins.
func parseMnemonics(rows [][]string) (map[string]domain.MnemonicRule, bool, error) {
	dictionary := make(map[string]domain.MnemonicRule)
	if len(rows) == 0 {
		return dictionary, false, nil
	}

	positions := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		positions[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	mnemonicIdx, ok := positions[columnMnemonic]
	if !ok {
		return nil, false, fmt.Errorf("missing %s column", columnMnemonic)
	}

	cell := func(row []string, column string) string {
		idx, ok := positions[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	duplicated := false
	for rowIdx, row := range rows[1:] {
		if mnemonicIdx >= len(row) {
			continue
		}
		mnemonic := strings.ToUpper(strings.TrimSpace(row[mnemonicIdx]))
		if mnemonic == "" {
			continue
		}
		if _, exists := dictionary[mnemonic]; exists {
			duplicated = true
			continue
		}

		minValue, err := parseBound(cell(row, columnMin))
		if err != nil {
			return nil, false, fmt.Errorf("row %d %s: %w", rowIdx+2, columnMin, err)
		}
		maxValue, err := parseBound(cell(row, columnMax))
		if err != nil {
			return nil, false, fmt.Errorf("row %d %s: %w", rowIdx+2, columnMax, err)
		}

		dictionary[mnemonic] = domain.MnemonicRule{
			Unit: strings.ToUpper(cell(row, columnUnit)),
			Min:  minValue,
			Max:  maxValue,
		}
	}
	return dictionary, duplicated, nil
}

func parseBound(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %q as number", raw)
	}
	return &v, nil
}
