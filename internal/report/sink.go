package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// SaveFile writes the run to path. A ".json" name (before an optional ".zst")
// selects JSON, anything else plain text. A ".zst" suffix compresses the
// output with zstd.
func SaveFile(path string, run *Run) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close report file: %w", closeErr)
		}
	}()

	name := strings.ToLower(path)
	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(name, ".zst") {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = enc
		name = strings.TrimSuffix(name, ".zst")
	}

	if strings.HasSuffix(name, ".json") {
		err = WriteJSON(w, run)
	} else {
		err = WriteText(w, run, TextOptions{})
	}
	if err != nil {
		if enc != nil {
			_ = enc.Close()
		}
		return fmt.Errorf("failed to write report: %w", err)
	}

	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush compressed report: %w", err)
		}
	}
	return nil
}
