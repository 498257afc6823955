package repository

import (
	"context"
	"fmt"

	"github.com/rpattn/coreqc/internal/db"
	"github.com/rpattn/coreqc/internal/domain"
	"github.com/rpattn/coreqc/internal/report"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type runRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository wires a repository backed by pgxpool.
func NewRunRepository(pool *pgxpool.Pool) RunRepository {
	return &runRepository{pool: pool}
}

func (r *runRepository) Save(ctx context.Context, run *report.Run) error {
	if r.pool == nil {
		return fmt.Errorf("run repository not initialized")
	}

	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO qc_runs (id, root, split, started_at, finished_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			run.ID,
			run.Root,
			run.Split,
			run.StartedAt,
			run.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}

		for _, log := range run.Logs {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO qc_logs (run_id, path, lab_name, test_type, sample_type, test_date, depth_repairs, chunks)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				run.ID,
				log.Path,
				log.Identity.LabName,
				log.Identity.TestType,
				log.Identity.SampleType,
				log.Identity.TestDate,
				log.DepthRepairs,
				len(log.Chunks),
			)
			if err != nil {
				return fmt.Errorf("failed to record log %s: %w", log.Path, err)
			}
		}

		rows := FindingRows(run)
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"qc_findings"},
			[]string{"run_id", "path", "seq", "severity", "subject", "value", "kind", "message"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("failed to record findings: %w", err)
		}
		return nil
	})
}

func (r *runRepository) ListFindings(ctx context.Context, runID uuid.UUID, severity domain.Severity) ([]Finding, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("run repository not initialized")
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT path, seq, severity, subject, value, kind, message
		 FROM qc_findings
		 WHERE run_id = $1
		   AND ($2::text = '' OR severity = $2::text)
		 ORDER BY path, seq`,
		runID,
		string(severity),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list findings: %w", err)
	}
	defer rows.Close()

	findings := []Finding{}
	for rows.Next() {
		var (
			finding  Finding
			severity string
			kind     string
		)
		if scanErr := rows.Scan(
			&finding.Path,
			&finding.Seq,
			&severity,
			&finding.Record.Subject,
			&finding.Record.Value,
			&kind,
			&finding.Record.Message,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", scanErr)
		}
		finding.RunID = runID
		finding.Record.Severity = domain.Severity(severity)
		finding.Record.Kind = domain.Kind(kind)
		findings = append(findings, finding)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate findings: %w", rowsErr)
	}

	return findings, nil
}

// FindingRows flattens a run into qc_findings rows. Catalog warnings are
// stored with an empty path.
func FindingRows(run *report.Run) [][]any {
	var rows [][]any
	appendRecords := func(path string, records []domain.Record) {
		for seq, record := range records {
			rows = append(rows, []any{
				run.ID,
				path,
				seq,
				string(record.Severity),
				record.Subject,
				record.Value,
				string(record.Kind),
				record.Message,
			})
		}
	}

	appendRecords("", run.CatalogWarnings)
	for _, log := range run.Logs {
		if log.Report != nil {
			appendRecords(log.Path, log.Report.Records())
		}
	}
	return rows
}
