package tabular

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpattn/coreqc/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeSkipsByteOrderMark(t *testing.T) {
	table, err := Decode(strings.NewReader("\xEF\xBB\xBFWELL,DEPTH\n,M\nW-1,100\n"))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"WELL", "DEPTH"}, table.Columns); diff != "" {
		t.Fatalf("unexpected columns (-want +got):\n%s", diff)
	}
}

func TestDecodeDropsInvalidBytes(t *testing.T) {
	table, err := Decode(strings.NewReader("NOTE\nx\xffy\n"))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got := table.Cell(0, 0).Text; got != "xy" {
		t.Fatalf("expected invalid byte to be dropped, got %q", got)
	}
}

func TestDecodeMissingTokensAndRaggedRows(t *testing.T) {
	table, err := Decode(strings.NewReader("A,B,C\nNA,,n/a\n1\n1,2,3,4\n"))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	want := [][]domain.Value{
		{domain.Missing(), domain.Missing(), domain.Missing()},
		{domain.Text("1"), domain.Missing(), domain.Missing()},
		{domain.Text("1"), domain.Text("2"), domain.Text("3")},
	}
	if diff := cmp.Diff(want, table.Rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	if _, err := Decode(strings.NewReader("")); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	table := domain.LogTable{
		Columns: []string{"WELL", "DEPTH", "NOTE"},
		Rows: [][]domain.Value{
			{domain.Missing(), domain.Text("M"), domain.Missing()},
			{domain.Text("W-1"), domain.Number(100.00001), domain.Text("has, comma")},
		},
	}
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := Write(path, table); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if diff := cmp.Diff(table, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeWritesMissingAsEmpty(t *testing.T) {
	table := domain.LogTable{
		Columns: []string{"A", "B"},
		Rows:    [][]domain.Value{{domain.Text("1")}},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, table); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if got := buf.String(); got != "A,B\n1,\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
