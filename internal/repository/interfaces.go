package repository

import (
	"context"

	"github.com/rpattn/coreqc/internal/domain"
	"github.com/rpattn/coreqc/internal/report"

	"github.com/google/uuid"
)

// RunRepository persists QC runs and their findings.
type RunRepository interface {
	Save(ctx context.Context, run *report.Run) error
	// ListFindings returns the findings of a run; an empty severity returns all.
	ListFindings(ctx context.Context, runID uuid.UUID, severity domain.Severity) ([]Finding, error)
}

// Finding is one stored validation record.
type Finding struct {
	RunID  uuid.UUID     `json:"runId"`
	Path   string        `json:"path"`
	Seq    int           `json:"seq"`
	Record domain.Record `json:"record"`
}
