package tabular

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = errors.New("path not found")
	// ErrNotLogFile is returned when a single file lacks the log extension.
	ErrNotLogFile = errors.New("not a log file")
)

// Discover lists the logs to check. A file must carry the extension
// (case-insensitive); a directory is searched recursively.
func Discover(path, extension string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		if !HasExtension(path, extension) {
			return nil, fmt.Errorf("%w: %s", ErrNotLogFile, path)
		}
		return []string{path}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(path), "**/*"+extensionPattern(extension), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", path, err)
	}

	logs := make([]string, 0, len(matches))
	for _, match := range matches {
		logs = append(logs, filepath.Join(path, filepath.FromSlash(match)))
	}
	sort.Strings(logs)
	return logs, nil
}

// HasExtension reports whether path ends in extension, ignoring case.
func HasExtension(path, extension string) bool {
	return strings.HasSuffix(strings.ToUpper(path), strings.ToUpper(extension))
}

const globMeta = `*?[]{}\`

// extensionPattern turns ".csv" into ".[cC][sS][vV]".
func extensionPattern(extension string) string {
	var b strings.Builder
	for _, r := range extension {
		lower, upper := strings.ToLower(string(r)), strings.ToUpper(string(r))
		if lower == upper {
			if strings.ContainsRune(globMeta, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
			continue
		}
		b.WriteString("[" + lower + upper + "]")
	}
	return b.String()
}
