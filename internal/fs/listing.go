package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var nameFolder = cases.Fold()

// ReadDir lists dirPath and returns its entries ordered directories first,
// then files, each group by case-folded name. Entries whose metadata cannot
// be read are skipped.
func ReadDir(dirPath string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dirPath, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		info, err := e.Info()
		if err != nil {
			continue
		}

		rawName := e.Name()
		fullPath := filepath.Join(dirPath, rawName)

		if ShouldHideFromListing(fullPath, rawName) {
			continue
		}

		isDir := e.IsDir()
		isSymlink := (info.Mode() & os.ModeSymlink) != 0

		// For symlinks, check if target is a directory
		if isSymlink {
			if targetInfo, err := os.Stat(fullPath); err == nil {
				isDir = targetInfo.IsDir()
			}
		}

		entries = append(entries, Entry{
			Name:      norm.NFC.String(rawName),
			FullPath:  fullPath,
			IsDir:     isDir,
			IsSymlink: isSymlink,
			Size:      info.Size(),
			Mode:      info.Mode(),
		})
	}

	SortEntries(entries)
	return entries, nil
}

// SortEntries orders entries directories first, then by case-folded name.
// Names that fold equal fall back to a byte comparison so the order stays
// total and deterministic.
func SortEntries(entries []Entry) {
	keys := make(map[string]string, len(entries))
	for _, e := range entries {
		keys[e.Name] = nameFolder.String(e.Name)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		ki, kj := keys[entries[i].Name], keys[entries[j].Name]
		if ki != kj {
			return ki < kj
		}
		return entries[i].Name < entries[j].Name
	})
}
