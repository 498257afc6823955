package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rpattn/coreqc/internal/domain"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ErrNoHeader is returned when a file has no header row.
var ErrNoHeader = errors.New("no header row found")

// naTokens are read as missing cells, matching the usual dataframe defaults.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Read loads a delimited log file.
func Read(path string) (domain.LogTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.LogTable{}, fmt.Errorf("failed to open log: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a log from r. A UTF-8 byte order mark is skipped and byte
// sequences that are not valid UTF-8 are dropped.
func Decode(r io.Reader) (domain.LogTable, error) {
	decoder := transform.Chain(
		unicode.BOMOverride(unicode.UTF8.NewDecoder()),
		runes.Remove(runes.Predicate(func(r rune) bool { return r == utf8.RuneError })),
	)

	csvReader := csv.NewReader(transform.NewReader(r, decoder))
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return domain.LogTable{}, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return domain.LogTable{}, ErrNoHeader
	}

	header := records[0]
	table := domain.LogTable{
		Columns: make([]string, len(header)),
		Rows:    make([][]domain.Value, 0, len(records)-1),
	}
	copy(table.Columns, header)

	for _, record := range records[1:] {
		table.Rows = append(table.Rows, toRow(record, len(header)))
	}
	return table, nil
}

func toRow(record []string, width int) []domain.Value {
	row := make([]domain.Value, width)
	for i := 0; i < width && i < len(record); i++ {
		if _, na := naTokens[strings.TrimSpace(record[i])]; na {
			continue
		}
		row[i] = domain.Text(record[i])
	}
	return row
}

// Write stores a log as CSV with its column order preserved.
func Write(path string, table domain.LogTable) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	return Encode(f, table)
}

// Encode writes a log as CSV to w.
func Encode(w io.Writer, table domain.LogTable) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = row[i].String()
			}
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
