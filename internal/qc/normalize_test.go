package qc

import (
	"testing"

	"github.com/rpattn/coreqc/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeCleansHeadersUnitsAndBlankRows(t *testing.T) {
	raw := domain.LogTable{
		Columns: []string{" depth ", "gr1", "Rhob\t"},
		Rows: [][]domain.Value{
			row("(m)", "[api]", "g/cc"),
			row("", "", ""),
			row("100", "(10)", "2.3"),
			row("101", "", ""),
		},
	}

	got := Normalize(raw)

	if diff := cmp.Diff([]string{"DEPTH", "GR1", "RHOB"}, got.Columns); diff != "" {
		t.Fatalf("unexpected columns (-want +got):\n%s", diff)
	}
	if len(got.Rows) != 3 {
		t.Fatalf("expected blank row to be dropped, got %d rows", len(got.Rows))
	}
	wantUnits := row("M", "API", "G/CC")
	if diff := cmp.Diff(wantUnits, got.Units()); diff != "" {
		t.Fatalf("unexpected units (-want +got):\n%s", diff)
	}
	if got.Cell(1, 1).Text != "(10)" {
		t.Fatalf("data rows must not be altered, got %q", got.Cell(1, 1).Text)
	}
	if got.Cell(2, 1).Valid {
		t.Fatalf("expected missing cell to stay missing")
	}
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	raw := domain.LogTable{
		Columns: []string{"depth"},
		Rows:    [][]domain.Value{row("[m]"), row("1")},
	}

	_ = Normalize(raw)

	if raw.Columns[0] != "depth" || raw.Rows[0][0].Text != "[m]" {
		t.Fatalf("input table was modified: %+v", raw)
	}
}

func TestNormalizeUsesFirstNonBlankRowAsUnits(t *testing.T) {
	raw := domain.LogTable{
		Columns: []string{"DEPTH"},
		Rows:    [][]domain.Value{row(""), row("(ft)"), row("10")},
	}

	got := Normalize(raw)

	if got.Unit(0) != "FT" {
		t.Fatalf("expected FT unit, got %q", got.Unit(0))
	}
	if len(got.DataRows()) != 1 {
		t.Fatalf("expected one data row, got %d", len(got.DataRows()))
	}
}
