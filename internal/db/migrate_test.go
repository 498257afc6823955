package db

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestMigrationFilesSortedUpOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"002_indexes.up.sql":  {Data: []byte("SELECT 1;")},
		"001_init.up.sql":     {Data: []byte("SELECT 1;")},
		"001_init.down.sql":   {Data: []byte("SELECT 1;")},
		"README.md":           {Data: []byte("notes")},
		"nested/003_x.up.sql": {Data: []byte("SELECT 1;")},
	}

	files, err := MigrationFiles(fsys)
	if err != nil {
		t.Fatalf("MigrationFiles returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"001_init.up.sql", "002_indexes.up.sql"}, files); diff != "" {
		t.Fatalf("unexpected files (-want +got):\n%s", diff)
	}
}

func TestBundledMigrationsCreateRunTables(t *testing.T) {
	fsys := Migrations()
	files, err := MigrationFiles(fsys)
	if err != nil {
		t.Fatalf("MigrationFiles returned error: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("expected bundled migrations")
	}

	var all strings.Builder
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		all.Write(data)
	}
	for _, table := range []string{"qc_runs", "qc_logs", "qc_findings"} {
		if !strings.Contains(all.String(), table) {
			t.Fatalf("expected migrations to create %s", table)
		}
	}
}

func TestConfigDSN(t *testing.T) {
	want := "host=localhost port=5432 user=postgres password=admin dbname=coreqc sslmode=disable"
	if got := DefaultConfig().DSN(); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}
