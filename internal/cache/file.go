package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/kk-code-lab/rpack/internal/errkind"
	"github.com/kk-code-lab/rpack/internal/tree"
)

// DefaultFileName is the cache file created inside each tree root.
const DefaultFileName = ".rpack_cache.json"

const selectedPathsKey = "selected_paths"

type document struct {
	SelectedPaths []string `json:"selected_paths"`
}

// Load reads a cache file. A missing file is reported as a Path error
// wrapping os.ErrNotExist; structurally invalid content as CacheFormat.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errkind.New(errkind.Path, path, err)
	}
	paths, err := Decode(data)
	if err != nil {
		return nil, errkind.New(errkind.CacheFormat, path, err)
	}
	return paths, nil
}

// Decode parses cache content. The document must be a JSON object; a missing
// or null selected_paths field means an empty selection.
func Decode(data []byte) ([]string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("expected a JSON object: %w", err)
	}
	if fields == nil {
		return nil, errors.New("expected a JSON object, got null")
	}

	raw, ok := fields[selectedPathsKey]
	if !ok {
		return nil, nil
	}
	var paths []string
	if err := json.Unmarshal(raw, &paths); err != nil {
		return nil, fmt.Errorf("%s must be an array of strings: %w", selectedPathsKey, err)
	}
	return paths, nil
}

// Encode renders paths as a sorted, indented cache document.
func Encode(paths []string) ([]byte, error) {
	sorted := append([]string{}, paths...)
	sort.Strings(sorted)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(document{SelectedPaths: sorted}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes paths to path through a temp file in the same directory so a
// failed write never leaves a truncated cache behind.
func Save(path string, paths []string) error {
	data, err := Encode(paths)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".rpack-cache-*")
	if err != nil {
		return errkind.New(errkind.Path, path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errkind.New(errkind.Path, path, err)
	}
	if err := tmp.Close(); err != nil {
		return errkind.New(errkind.Path, path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errkind.New(errkind.Path, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errkind.New(errkind.Path, path, err)
	}
	return nil
}

// Restore loads path and applies it to t. When the file is malformed t is
// left all Unchecked and the CacheFormat error is returned so the caller can
// warn and carry on.
func Restore(t *tree.Tree, path string, logger *slog.Logger) error {
	paths, err := Load(path)
	if err != nil {
		if errors.Is(err, errkind.ErrCacheFormat) {
			t.Reset()
		}
		return err
	}
	Deserialize(t, paths, logger)
	return nil
}

// Store serializes t into path.
func Store(t *tree.Tree, path string) error {
	return Save(path, Serialize(t))
}
