package report

import (
	"encoding/json"

	"github.com/rpattn/coreqc/internal/domain"
)

// Report accumulates the findings of one log's validation in arrival order.
type Report struct {
	records []domain.Record
}

// New returns an empty report.
func New() *Report {
	return &Report{records: []domain.Record{}}
}

// Add appends a record.
func (r *Report) Add(record domain.Record) {
	r.records = append(r.records, record)
}

// Warn appends a warning record.
func (r *Report) Warn(subject, value string, kind domain.Kind, message string) {
	r.Add(domain.NewWarning(subject, value, kind, message))
}

// Error appends an error record.
func (r *Report) Error(subject, value string, kind domain.Kind, message string) {
	r.Add(domain.NewError(subject, value, kind, message))
}

// Records returns a copy of the records in arrival order.
func (r *Report) Records() []domain.Record {
	out := make([]domain.Record, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of records.
func (r *Report) Len() int {
	return len(r.records)
}

// Counts returns the number of warnings and errors.
func (r *Report) Counts() (warnings, errors int) {
	for _, record := range r.records {
		switch record.Severity {
		case domain.SeverityWarning:
			warnings++
		case domain.SeverityError:
			errors++
		}
	}
	return warnings, errors
}

// HasErrors reports whether any error record was added.
func (r *Report) HasErrors() bool {
	_, errs := r.Counts()
	return errs > 0
}

func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.records)
}

func (r *Report) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.records)
}
