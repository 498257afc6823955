package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpattn/coreqc/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	cfg, found, err := Load(New("", t.TempDir()))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if found {
		t.Fatalf("expected no config file to be found")
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	content := `settings: /etc/coreqc/settings.xlsx
split: true
workers: 4
limits:
  data_cols_segment: 4
database:
  enabled: true
  host: db.internal
server:
  allowed_origins:
    - https://qc.example.com
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COREQC_WORKERS", "8")
	t.Setenv("COREQC_DATABASE_PORT", "6543")

	cfg, found, err := Load(New("", dir))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !found {
		t.Fatalf("expected config file to be found")
	}

	if cfg.SettingsPath != "/etc/coreqc/settings.xlsx" || !cfg.Split {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Workers != 8 {
		t.Fatalf("expected environment to override workers, got %d", cfg.Workers)
	}
	if cfg.Limits.DataColumnsSegment != 4 || cfg.Limits.MetadataColumns != domain.DefaultLimits().MetadataColumns {
		t.Fatalf("unexpected limits: %+v", cfg.Limits)
	}
	if !cfg.Database.Enabled || cfg.Database.Host != "db.internal" || cfg.Database.Port != 6543 {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if diff := cmp.Diff([]string{"https://qc.example.com"}, cfg.Server.AllowedOrigins); diff != "" {
		t.Fatalf("origins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	if _, _, err := Load(New(filepath.Join(t.TempDir(), "nope.yaml"), "")); err == nil {
		t.Fatalf("expected error for a missing explicit config file")
	}
}

func TestValidateRejectsBadLimits(t *testing.T) {
	cfg := Default()
	cfg.Limits.DepthIncrement = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero depth increment")
	}

	cfg = Default()
	cfg.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero workers")
	}
}
