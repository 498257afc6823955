package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rpattn/coreqc/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// TextOptions controls plain text rendering.
type TextOptions struct {
	Color bool
}

// WriteText renders a run the way technicians read it on a console.
func WriteText(w io.Writer, run *Run, opts TextOptions) error {
	tw := &textWriter{w: w, color: opts.Color}

	for _, record := range run.CatalogWarnings {
		tw.record(record)
	}

	for _, log := range run.Logs {
		tw.line("")
		tw.styled(headingStyle, "# "+displayPath(run.Root, log.Path))
		if log.Identity.TestType != "" {
			tw.line(fmt.Sprintf("%s : %s", domain.ColumnTestType, log.Identity.TestType))
		}
		if log.Report != nil {
			for _, record := range log.Report.Records() {
				tw.record(record)
			}
		}
		if log.DepthRepairs > 0 {
			tw.line(fmt.Sprintf("Incrementing %d duplicated DEPTHs", log.DepthRepairs))
		}
		for _, chunk := range log.Chunks {
			tw.line("Exported " + chunk)
		}
	}

	warnings, errs := run.Counts()
	tw.line("")
	tw.line(fmt.Sprintf("Checked %d logs: %d errors, %d warnings.", len(run.Logs), errs, warnings))
	return tw.err
}

// WriteJSON renders a run as indented JSON.
func WriteJSON(w io.Writer, run *Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func displayPath(root, path string) string {
	if root == "" || root == path {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

type textWriter struct {
	w     io.Writer
	color bool
	err   error
}

func (tw *textWriter) line(s string) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintln(tw.w, s)
}

func (tw *textWriter) styled(style lipgloss.Style, s string) {
	if tw.color {
		s = style.Render(s)
	}
	tw.line(s)
}

func (tw *textWriter) record(record domain.Record) {
	if record.Severity == domain.SeverityError {
		tw.styled(errorStyle, record.String())
		return
	}
	tw.styled(warningStyle, record.String())
}
