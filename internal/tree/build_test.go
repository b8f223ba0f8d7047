package tree_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kk-code-lab/rpack/internal/errkind"
	"github.com/kk-code-lab/rpack/internal/tree"
	"github.com/kk-code-lab/rpack/internal/tree/treetest"
)

func TestBuildCountsEveryEntryPlusRoot(t *testing.T) {
	paths := []string{"a/", "a/x", "a/y", "a/deep/", "a/deep/er/", "a/deep/er/f.go", "z", "empty/"}
	tr := treetest.Build(t, paths...)

	if tr.Len() != len(paths)+1 {
		t.Fatalf("expected %d nodes, got %d", len(paths)+1, tr.Len())
	}

	tr.Walk(func(n *tree.Node) bool {
		if n.State != tree.Unchecked {
			t.Fatalf("expected %q to start unchecked, got %s", tr.RelPath(n.ID), n.State)
		}
		return true
	})
}

func TestBuildRootShape(t *testing.T) {
	tr := treetest.Build(t, "a/", "a/x")

	root := tr.MustNode(tr.Root())
	if root.Parent != tree.None {
		t.Fatalf("expected root parent None, got %d", root.Parent)
	}
	if len(root.Segments) != 0 {
		t.Fatalf("expected empty root segments, got %v", root.Segments)
	}
	if root.Name != "P" || !root.IsDir() {
		t.Fatalf("expected root directory named P, got %q (%s)", root.Name, root.Kind)
	}
	if !filepath.IsAbs(tr.RootPath()) {
		t.Fatalf("expected absolute root path, got %q", tr.RootPath())
	}
}

func TestBuildChildOrder(t *testing.T) {
	tr := treetest.Build(t, "b.txt", "A.txt", "src/", "Docs/", "c.txt", "docs2/")

	var names []string
	for _, id := range tr.MustNode(tr.Root()).Children {
		names = append(names, tr.MustNode(id).Name)
	}

	want := []string{"Docs", "docs2", "src", "A.txt", "b.txt", "c.txt"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected order %v, got %v", want, names)
	}
}

func TestBuildPathsAndLookup(t *testing.T) {
	tr := treetest.Build(t, "a/", "a/x")

	id, ok := tr.Lookup("a/x")
	if !ok {
		t.Fatalf("expected a/x to resolve")
	}
	if got := tr.RelPath(id); got != "a/x" {
		t.Fatalf("expected rel path a/x, got %q", got)
	}
	if got, want := tr.AbsPath(id), filepath.Join(tr.RootPath(), "a", "x"); got != want {
		t.Fatalf("expected abs path %q, got %q", want, got)
	}
	if dirID, ok := tr.Lookup("a/"); !ok || !tr.MustNode(dirID).IsDir() {
		t.Fatalf("expected trailing slash lookup to find directory a")
	}
	if _, ok := tr.Lookup("a/missing"); ok {
		t.Fatalf("expected missing path not to resolve")
	}
	if rootID, ok := tr.Lookup(""); !ok || rootID != tr.Root() {
		t.Fatalf("expected empty path to resolve to root")
	}
}

func TestBuildRejectsNonDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"regular file", file},
		{"missing path", filepath.Join(tmpDir, "missing")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tree.Build(tt.path, tree.BuildOptions{})
			if !errors.Is(err, errkind.ErrPath) {
				t.Fatalf("expected path error, got %v", err)
			}
		})
	}
}

func TestBuildExcludeAndHidden(t *testing.T) {
	root := t.TempDir()
	treetest.Write(t, root, "keep.go", ".hidden", ".git/", ".git/HEAD", "out/", "out/a.zip", "src/out/", "src/main.go")

	tr, err := tree.Build(root, tree.BuildOptions{SkipHidden: true, Exclude: []string{"out"}})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	for _, p := range []string{".hidden", ".git", "out", "src/out"} {
		if _, ok := tr.Lookup(p); ok {
			t.Fatalf("expected %q to be skipped", p)
		}
	}
	for _, p := range []string{"keep.go", "src", "src/main.go"} {
		if _, ok := tr.Lookup(p); !ok {
			t.Fatalf("expected %q to be kept", p)
		}
	}
}

func TestBuildRootExcludeKeepsNestedNames(t *testing.T) {
	root := t.TempDir()
	treetest.Write(t, root,
		"out/", "out/a.zip", "cache.json", "x.go",
		"docs/cache.json", "lib/out/", "lib/out/keep.go",
	)

	tr, err := tree.Build(root, tree.BuildOptions{RootExclude: []string{"out", "cache.json"}})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	for _, p := range []string{"out", "out/a.zip", "cache.json"} {
		if _, ok := tr.Lookup(p); ok {
			t.Fatalf("expected %q to be skipped", p)
		}
	}
	for _, p := range []string{"x.go", "docs/cache.json", "lib/out", "lib/out/keep.go"} {
		if _, ok := tr.Lookup(p); !ok {
			t.Fatalf("expected %q to be kept", p)
		}
	}
	if got := tr.Len(); got != 7 {
		t.Fatalf("expected 7 nodes, got %d", got)
	}
}

func TestCounts(t *testing.T) {
	tr := treetest.Build(t, "a/", "a/x", "a/y", "z")
	treetest.Toggle(t, tr, "a/x")

	checked, total := tr.Counts()
	if checked != 1 || total != 3 {
		t.Fatalf("expected 1/3 files checked, got %d/%d", checked, total)
	}
	if !tr.AnySelected() {
		t.Fatalf("expected AnySelected after toggle")
	}
}
