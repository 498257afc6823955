package domain

import (
	"fmt"
	"strings"
)

// Severity of a validation record.
type Severity string

const (
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Kind categorises what a record is about.
type Kind string

const (
	KindMnemonic Kind = "mnemonic"
	KindUnit     Kind = "unit"
	KindMinValue Kind = "min value"
	KindMaxValue Kind = "max value"
	KindValue    Kind = "value"
	KindFile     Kind = "file"
	KindDepth    Kind = "depth"
)

const (
	defaultWarningMessage = "is not recognized"
	defaultErrorMessage   = "is invalid"
)

// Record is a single finding produced while validating a log.
type Record struct {
	Severity Severity `json:"severity"`
	Subject  string   `json:"subject,omitempty"`
	Value    string   `json:"value,omitempty"`
	Kind     Kind     `json:"kind"`
	Message  string   `json:"message"`
}

// NewWarning builds a warning record; an empty kind or message takes the default.
func NewWarning(subject, value string, kind Kind, message string) Record {
	if message == "" {
		message = defaultWarningMessage
	}
	return newRecord(SeverityWarning, subject, value, kind, message)
}

// NewError builds an error record; an empty kind or message takes the default.
func NewError(subject, value string, kind Kind, message string) Record {
	if message == "" {
		message = defaultErrorMessage
	}
	return newRecord(SeverityError, subject, value, kind, message)
}

func newRecord(severity Severity, subject, value string, kind Kind, message string) Record {
	if kind == "" {
		kind = KindValue
	}
	return Record{
		Severity: severity,
		Subject:  subject,
		Value:    value,
		Kind:     kind,
		Message:  message,
	}
}

// String renders the record as a single report line.
func (r Record) String() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{r.Subject, r.Value, string(r.Kind), r.Message} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	body := strings.Join(parts, " ")
	if r.Severity == SeverityError {
		return fmt.Sprintf("ERROR:      %s!", body)
	}
	return fmt.Sprintf("WARNING:   %s.", body)
}
