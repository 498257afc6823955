package qc

import (
	"fmt"
	"testing"

	"github.com/rpattn/coreqc/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func wideTable(measurements int) domain.LogTable {
	names := make([]string, measurements)
	units := make([]string, measurements)
	values := make([]string, measurements)
	for i := range names {
		names[i] = fmt.Sprintf("GR%d", i+1)
		units[i] = "API"
		values[i] = fmt.Sprintf("%d", i)
	}
	return logTable(names, units, []string{"100", "101"}, values, values)
}

func TestSplitBoundary(t *testing.T) {
	limits := domain.DefaultLimits()

	if chunks := Split(wideTable(limits.DataColumnCap-1), limits); chunks != nil {
		t.Fatalf("expected no split at %d columns, got %d chunks", limits.MetadataColumns+limits.DataColumnCap-1, len(chunks))
	}

	chunks := Split(wideTable(limits.DataColumnCap), limits)
	if len(chunks) < 2 {
		t.Fatalf("expected at least two chunks at %d columns, got %d", limits.MetadataColumns+limits.DataColumnCap, len(chunks))
	}
}

func TestSplitRoundTrip(t *testing.T) {
	limits := domain.DefaultLimits()
	source := wideTable(19)

	chunks := Split(source, limits)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 19 measurement columns, got %d", len(chunks))
	}

	var measurements []string
	for i, chunk := range chunks {
		if chunk.Index != i+1 {
			t.Fatalf("expected chunk index %d, got %d", i+1, chunk.Index)
		}
		if diff := cmp.Diff(source.MetadataColumns(limits.MetadataColumns), chunk.Table.MetadataColumns(limits.MetadataColumns)); diff != "" {
			t.Fatalf("chunk %d metadata differs (-want +got):\n%s", chunk.Index, diff)
		}
		if len(chunk.Table.Rows) != len(source.Rows) {
			t.Fatalf("chunk %d has %d rows, want %d", chunk.Index, len(chunk.Table.Rows), len(source.Rows))
		}
		width := len(chunk.Table.MeasurementColumns(limits.MetadataColumns))
		if width > limits.DataColumnsSegment {
			t.Fatalf("chunk %d has %d measurement columns", chunk.Index, width)
		}
		measurements = append(measurements, chunk.Table.MeasurementColumns(limits.MetadataColumns)...)
	}

	if diff := cmp.Diff(source.MeasurementColumns(limits.MetadataColumns), measurements); diff != "" {
		t.Fatalf("measurement order not preserved (-want +got):\n%s", diff)
	}

	last := chunks[len(chunks)-1].Table
	if got := last.Cell(1, limits.MetadataColumns).Text; got != "16" {
		t.Fatalf("expected last chunk to start with GR17 values, got %q", got)
	}
	if got := last.Cell(1, 0).Text; got != "W-1" {
		t.Fatalf("expected metadata values to be carried, got %q", got)
	}
}
