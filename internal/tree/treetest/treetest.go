// Package treetest builds on-disk fixtures for tests that need a real tree.
package treetest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kk-code-lab/rpack/internal/tree"
)

// Write creates paths under root. Entries ending in "/" become directories,
// everything else becomes a file whose content is its own relative path.
func Write(t testing.TB, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(p, "/")))
		if strings.HasSuffix(p, "/") {
			if err := os.MkdirAll(full, 0755); err != nil {
				t.Fatalf("failed to create dir %s: %v", p, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create parent of %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte(p), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
}

// Build writes paths into a fresh temp dir and builds a tree from it.
func Build(t testing.TB, paths ...string) *tree.Tree {
	t.Helper()
	root := filepath.Join(t.TempDir(), "P")
	if err := os.Mkdir(root, 0755); err != nil {
		t.Fatalf("failed to create root: %v", err)
	}
	Write(t, root, paths...)
	tr, err := tree.Build(root, tree.BuildOptions{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return tr
}

// ID resolves relPath or fails the test.
func ID(t testing.TB, tr *tree.Tree, relPath string) tree.NodeID {
	t.Helper()
	id, ok := tr.Lookup(relPath)
	if !ok {
		t.Fatalf("path %q not in tree", relPath)
	}
	return id
}

// Toggle toggles each path in order or fails the test.
func Toggle(t testing.TB, tr *tree.Tree, relPaths ...string) {
	t.Helper()
	for _, p := range relPaths {
		if err := tr.Toggle(ID(t, tr, p)); err != nil {
			t.Fatalf("toggle %q failed: %v", p, err)
		}
	}
}

// State returns the state of relPath or fails the test.
func State(t testing.TB, tr *tree.Tree, relPath string) tree.State {
	t.Helper()
	return tr.MustNode(ID(t, tr, relPath)).State
}
