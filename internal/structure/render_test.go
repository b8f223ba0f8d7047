package structure

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kk-code-lab/rpack/internal/errkind"
	"github.com/kk-code-lab/rpack/internal/tree/treetest"
)

func TestRenderDeepFileShowsAncestorsOnly(t *testing.T) {
	tr := treetest.Build(t,
		"src/", "src/pkg/", "src/pkg/deep.go", "src/pkg/other.go", "src/main.go",
		"docs/", "docs/readme.md", "go.mod",
	)
	treetest.Toggle(t, tr, "src/pkg/deep.go")

	want := []string{
		"P/",
		"└── src/",
		"    └── pkg/",
		"        └── deep.go",
	}
	if got := Render(tr); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
}

func TestRenderConnectorsAndPrefixes(t *testing.T) {
	tr := treetest.Build(t,
		"a/", "a/b/", "a/b/x", "a/y", "c/", "c/z", "f.txt", "skip.txt",
	)
	treetest.Toggle(t, tr, "a", "c", "f.txt")

	want := []string{
		"P/",
		"├── a/",
		"│   ├── b/",
		"│   │   └── x",
		"│   └── y",
		"├── c/",
		"│   └── z",
		"└── f.txt",
	}
	if got := Render(tr); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
}

func TestRenderCheckedEmptyDirectory(t *testing.T) {
	tr := treetest.Build(t, "empty/", "f")
	treetest.Toggle(t, tr, "empty")

	want := []string{"P/", "└── empty/"}
	if got := Render(tr); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRenderNothingSelected(t *testing.T) {
	tr := treetest.Build(t, "a/", "a/x")
	if got := Render(tr); !reflect.DeepEqual(got, []string{"P/"}) {
		t.Fatalf("expected only the root line, got %v", got)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	if err := Write(path, []string{"P/", "└── a"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "P/\n└── a\n" {
		t.Fatalf("unexpected content %q", data)
	}

	err = Write(filepath.Join(dir, "missing", "out.txt"), []string{"P/"})
	if !errors.Is(err, errkind.ErrPath) {
		t.Fatalf("expected path error, got %v", err)
	}
}
