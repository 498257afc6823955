package qc

import (
	"github.com/rpattn/coreqc/internal/domain"
)

// Chunk is one partition of a wide log. Index starts at 1.
type Chunk struct {
	Index int
	Table domain.LogTable
}

// Split partitions the measurement columns of a wide log into chunks of at
// most DataColumnsSegment columns, each prefixed with the metadata columns.
// Logs narrower than MetadataColumns+DataColumnCap are not split and yield nil.
func Split(table domain.LogTable, limits domain.Limits) []Chunk {
	total := len(table.Columns)
	if total < limits.MetadataColumns+limits.DataColumnCap || limits.DataColumnsSegment <= 0 {
		return nil
	}

	metadata := make([]int, limits.MetadataColumns)
	for i := range metadata {
		metadata[i] = i
	}

	var chunks []Chunk
	for first, n := limits.MetadataColumns, 1; first < total; first, n = first+limits.DataColumnsSegment, n+1 {
		last := min(first+limits.DataColumnsSegment, total)

		indexes := make([]int, 0, len(metadata)+last-first)
		indexes = append(indexes, metadata...)
		for i := first; i < last; i++ {
			indexes = append(indexes, i)
		}

		chunks = append(chunks, Chunk{Index: n, Table: table.Select(indexes)})
	}
	return chunks
}
