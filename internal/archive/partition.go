// Package archive splits the selected files of a tree into fixed-size chunks
// and writes each chunk as a zip archive.
package archive

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/kk-code-lab/rpack/internal/errkind"
	"github.com/kk-code-lab/rpack/internal/tree"
)

// Entry maps a file on disk to its name inside an archive.
type Entry struct {
	Source string // absolute path
	Name   string // root-relative, slash separated
}

// Chunk is one archive worth of entries. Index is 1-based.
type Chunk struct {
	Index   int
	Entries []Entry
}

// Partition returns the Checked files of t sorted by absolute path and split
// into consecutive groups of chunkSize. The last group may be shorter.
func Partition(t *tree.Tree, chunkSize int) ([]Chunk, error) {
	if chunkSize < 1 {
		return nil, errkind.Param("chunk_size", chunkSize)
	}

	entries := SelectedEntries(t)
	if len(entries) == 0 {
		return nil, errkind.ErrNothingSelected
	}

	chunks := make([]Chunk, 0, (len(entries)+chunkSize-1)/chunkSize)
	for start := 0; start < len(entries); start += chunkSize {
		end := min(start+chunkSize, len(entries))
		chunks = append(chunks, Chunk{
			Index:   len(chunks) + 1,
			Entries: entries[start:end:end],
		})
	}
	return chunks, nil
}

// SelectedEntries returns one Entry per Checked file, ordered by absolute
// path compared segment by segment.
func SelectedEntries(t *tree.Tree) []Entry {
	ids := t.SelectedFiles()
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, Entry{
			Source: t.AbsPath(id),
			Name:   t.RelPath(id),
		})
	}

	keys := make(map[string][]string, len(entries))
	for _, e := range entries {
		keys[e.Source] = strings.Split(filepath.ToSlash(e.Source), "/")
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return slices.Compare(keys[a.Source], keys[b.Source])
	})
	return entries
}
