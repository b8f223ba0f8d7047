// Package cache persists a tree selection as a compact set of root-relative
// paths and restores it onto a freshly built tree.
package cache

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/kk-code-lab/rpack/internal/tree"
)

// DirMarker terminates directory entries so they never collide with a file
// of the same name.
const DirMarker = "/"

// Serialize returns the sorted, deduplicated selection of t. A Checked
// directory is stored as one entry and its subtree is not enumerated.
func Serialize(t *tree.Tree) []string {
	seen := make(map[string]struct{})
	t.Walk(func(n *tree.Node) bool {
		switch n.State {
		case tree.Checked:
			p := t.RelPath(n.ID)
			if n.IsDir() {
				p += DirMarker
			}
			seen[p] = struct{}{}
			return false
		case tree.Partial:
			return n.IsDir()
		default:
			return false
		}
	})

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Deserialize resets t and applies paths to it. Entries that no longer exist
// in the tree are skipped. Ancestor states are re-derived before returning.
func Deserialize(t *tree.Tree, paths []string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	t.Reset()
	missing := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		key := strings.TrimSuffix(p, DirMarker)
		id, ok := t.Lookup(key)
		if !ok {
			missing++
			logger.Debug("cached path not in tree", "path", p)
			continue
		}
		// Only a marked entry selects a whole subtree. An unmarked directory
		// is checked alone and aggregation settles it from its children.
		if strings.HasSuffix(p, DirMarker) {
			_ = t.CheckSubtree(id)
		} else {
			t.MustNode(id).State = tree.Checked
		}
	}
	t.AggregateAll()

	if missing > 0 {
		logger.Info("skipped cached paths missing from tree", "count", missing)
	}
}
