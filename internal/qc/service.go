package qc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpattn/coreqc/internal/domain"
	"github.com/rpattn/coreqc/internal/report"
	"github.com/rpattn/coreqc/internal/tabular"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoCatalog is returned when a service is built without a schema catalog.
var ErrNoCatalog = errors.New("schema catalog is required")

// Service validates logs against one schema catalog.
type Service struct {
	catalog *domain.SchemaCatalog
	limits  domain.Limits
	logger  *zap.Logger
	workers int
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkers sets how many logs are validated at once.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock overrides the time source used to stamp runs.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a service. The catalog is shared read-only between logs.
func NewService(catalog *domain.SchemaCatalog, limits domain.Limits, opts ...Option) (*Service, error) {
	if catalog == nil {
		return nil, ErrNoCatalog
	}
	s := &Service{
		catalog: catalog,
		limits:  limits,
		logger:  zap.NewNop(),
		workers: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Limits returns the limits the service validates with.
func (s *Service) Limits() domain.Limits {
	return s.limits
}

// RunConfig describes one batch.
type RunConfig struct {
	// Path is a single log or a directory searched recursively.
	Path string
	// Split exports wide logs as column chunks after validation.
	Split bool
	// OutputDir receives exported chunks; empty means next to each log.
	OutputDir string
	// CatalogWarnings are copied into the run so they reach the report.
	CatalogWarnings []domain.Record
}

// Run validates every log found under cfg.Path. A missing path or a file
// without the log extension fails before any log is processed; problems with
// individual logs are recorded in that log's report.
func (s *Service) Run(ctx context.Context, cfg RunConfig) (*report.Run, error) {
	paths, err := tabular.Discover(cfg.Path, s.limits.Extension)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Loaded logs", zap.Int("count", len(paths)), zap.String("path", cfg.Path))

	run := report.NewRun(cfg.Path, s.now())
	run.Split = cfg.Split
	run.CatalogWarnings = append(run.CatalogWarnings, cfg.CatalogWarnings...)
	run.Logs = make([]report.LogResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := s.ValidateFile(path)
			if cfg.Split {
				s.export(&result, cfg.OutputDir)
			}
			result.Table = domain.LogTable{}
			run.Logs[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run interrupted: %w", err)
	}

	run.FinishedAt = s.now()
	return run, nil
}

// ValidateFile reads and validates one log. Read failures are recorded as
// errors on the result rather than returned.
func (s *Service) ValidateFile(path string) report.LogResult {
	raw, err := tabular.Read(path)
	if err != nil {
		s.logger.Warn("Failed to read log", zap.String("log", path), zap.Error(err))
		result := report.LogResult{Path: path, Report: report.New()}
		result.Report.Error(filepath.Base(path), err.Error(), domain.KindFile, "")
		return result
	}
	return s.ValidateTable(path, raw)
}

// ValidateTable runs the pipeline over a raw table loaded from path.
func (s *Service) ValidateTable(path string, raw domain.LogTable) report.LogResult {
	result := report.LogResult{Path: path, Report: report.New()}
	logger := s.logger.With(zap.String("log", path))

	if len(raw.Columns) == 0 || len(raw.Rows) == 0 {
		result.Report.Error(filepath.Base(path), "", domain.KindFile, "has no data")
		return result
	}

	table := Normalize(raw)

	result.Identity = ValidateMetadata(table, s.catalog, s.limits.MetadataColumns, result.Report)
	logger.Debug("Identified log", zap.String("test_type", result.Identity.TestType))

	ValidateMeasurements(table, result.Identity, s.catalog, s.limits.MetadataColumns, result.Report)

	resolved, repaired, err := ResolveDepth(table, s.limits.DepthIncrement)
	if err != nil {
		result.Report.Error(domain.DepthColumn, "", domain.KindDepth, err.Error())
	} else {
		table = resolved
	}
	result.DepthRepairs = repaired
	if repaired > 0 {
		logger.Info("Incremented duplicated depths", zap.Int("rows", repaired))
	}

	result.Table = table

	warnings, errs := result.Report.Counts()
	logger.Info("Validated log", zap.Int("errors", errs), zap.Int("warnings", warnings))
	return result
}

// Export writes the chunks of a wide log into outputDir (or next to the log
// when empty) and returns the written paths. Narrow logs write nothing.
func (s *Service) Export(table domain.LogTable, path, outputDir string) ([]string, error) {
	chunks := Split(table, s.limits)
	if len(chunks) == 0 {
		return nil, nil
	}

	if outputDir == "" {
		outputDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Base(path)
	if tabular.HasExtension(base, s.limits.Extension) {
		base = base[:len(base)-len(s.limits.Extension)]
	}
	base = strings.ToUpper(base)

	written := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		name := filepath.Join(outputDir, fmt.Sprintf("%s_%d%s", base, chunk.Index, strings.ToLower(s.limits.Extension)))
		if err := tabular.Write(name, chunk.Table); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}

func (s *Service) export(result *report.LogResult, outputDir string) {
	if len(result.Table.Columns) == 0 {
		return
	}
	written, err := s.Export(result.Table, result.Path, outputDir)
	result.Chunks = written
	if err != nil {
		s.logger.Warn("Failed to export chunks", zap.String("log", result.Path), zap.Error(err))
		result.Report.Error(filepath.Base(result.Path), err.Error(), domain.KindFile, "could not be split")
		return
	}
	if len(written) > 0 {
		s.logger.Info("Split log", zap.String("log", result.Path), zap.Int("chunks", len(written)))
	}
}
