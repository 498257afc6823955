package report

import (
	"time"

	"github.com/rpattn/coreqc/internal/domain"

	"github.com/google/uuid"
)

// LogResult is the outcome of validating one log file.
type LogResult struct {
	Path         string             `json:"path"`
	Identity     domain.LogIdentity `json:"identity"`
	Report       *Report            `json:"records"`
	DepthRepairs int                `json:"depthRepairs"`
	Chunks       []string           `json:"chunks,omitempty"`

	// Table is the cleaned, depth-resolved log kept for splitting.
	Table domain.LogTable `json:"-"`
}

// Run collects every log result of one batch.
type Run struct {
	ID              uuid.UUID       `json:"id"`
	Root            string          `json:"root"`
	StartedAt       time.Time       `json:"startedAt"`
	FinishedAt      time.Time       `json:"finishedAt"`
	Split           bool            `json:"split"`
	CatalogWarnings []domain.Record `json:"catalogWarnings"`
	Logs            []LogResult     `json:"logs"`
}

// NewRun starts a run rooted at path.
func NewRun(root string, now time.Time) *Run {
	return &Run{
		ID:              uuid.New(),
		Root:            root,
		StartedAt:       now,
		CatalogWarnings: []domain.Record{},
		Logs:            []LogResult{},
	}
}

// Counts sums warnings and errors over every log and the catalog.
func (r *Run) Counts() (warnings, errors int) {
	for _, record := range r.CatalogWarnings {
		if record.Severity == domain.SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	for _, log := range r.Logs {
		if log.Report == nil {
			continue
		}
		w, e := log.Report.Counts()
		warnings += w
		errors += e
	}
	return warnings, errors
}
