package archive

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kk-code-lab/rpack/internal/errkind"
	"github.com/kk-code-lab/rpack/internal/tree"
	"github.com/kk-code-lab/rpack/internal/tree/treetest"
	"github.com/klauspost/compress/zip"
)

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer func() {
		_ = r.Close()
	}()

	out := make(map[string]string, len(r.File))
	for _, f := range r.File {
		if f.Method != zip.Deflate {
			t.Fatalf("expected %s to be deflated, got method %d", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("failed to read entry %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func packAll(t *testing.T, paths ...string) (*tree.Tree, []Chunk) {
	t.Helper()
	tr := treetest.Build(t, paths...)
	if err := tr.Toggle(tr.Root()); err != nil {
		t.Fatalf("toggle root failed: %v", err)
	}
	chunks, err := Partition(tr, 2)
	if err != nil {
		t.Fatalf("partition failed: %v", err)
	}
	return tr, chunks
}

func TestWriterWritesArchives(t *testing.T) {
	tr, chunks := packAll(t, "a/", "a/x.go", "a/y.go", "z.md")
	outDir := filepath.Join(tr.RootPath(), "out")

	report, err := NewWriter(outDir, WriterOptions{WritePrompts: true}).Write(chunks)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("expected no failures, got %v", err)
	}
	if report.Written() != 2 || report.Files() != 3 {
		t.Fatalf("expected 2 archives with 3 files, got %d/%d", report.Written(), report.Files())
	}

	first := readArchive(t, filepath.Join(outDir, "project_archive_1.zip"))
	want := map[string]string{"a/x.go": "a/x.go", "a/y.go": "a/y.go"}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("expected %v, got %v", want, first)
	}
	second := readArchive(t, filepath.Join(outDir, "project_archive_2.zip"))
	if !reflect.DeepEqual(second, map[string]string{"z.md": "z.md"}) {
		t.Fatalf("unexpected second archive %v", second)
	}

	if report.Prompts != filepath.Join(outDir, PromptsFileName) {
		t.Fatalf("unexpected prompts path %q", report.Prompts)
	}
	data, err := os.ReadFile(report.Prompts)
	if err != nil {
		t.Fatalf("failed to read prompts: %v", err)
	}
	if !strings.Contains(string(data), "--- Prompt 2/2 ---") {
		t.Fatalf("expected a block per part, got:\n%s", data)
	}
}

func TestWriterRecreatesOutputDir(t *testing.T) {
	tr, chunks := packAll(t, "a", "b")
	outDir := filepath.Join(tr.RootPath(), "out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	stale := filepath.Join(outDir, "project_archive_9.zip")
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := NewWriter(outDir, WriterOptions{}).Write(chunks); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected stale archive to be removed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, PromptsFileName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no prompts file when disabled, got %v", err)
	}
}

func TestWriterRefusesForeignOutputDir(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, outDir string)
	}{
		{"source file", func(t *testing.T, outDir string) {
			treetest.Write(t, outDir, "main.go", "project_archive_1.zip")
		}},
		{"nested directory", func(t *testing.T, outDir string) {
			treetest.Write(t, outDir, "pkg/", "pkg/util.go")
		}},
		{"plain file", func(t *testing.T, outDir string) {
			if err := os.WriteFile(outDir, []byte("x"), 0644); err != nil {
				t.Fatalf("write failed: %v", err)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, chunks := packAll(t, "a", "b")
			outDir := filepath.Join(t.TempDir(), "src")
			tt.setup(t, outDir)

			report, err := NewWriter(outDir, WriterOptions{}).Write(chunks)
			if !errors.Is(err, errkind.ErrPath) {
				t.Fatalf("expected path error, got %v", err)
			}
			if report != nil {
				t.Fatalf("expected no report, got %+v", report)
			}
			if _, err := os.Stat(outDir); err != nil {
				t.Fatalf("expected %s to survive, got %v", outDir, err)
			}
		})
	}
}

func TestWriterReplacesEarlierOutput(t *testing.T) {
	_, chunks := packAll(t, "a", "b")
	outDir := filepath.Join(t.TempDir(), "out")
	treetest.Write(t, outDir, "project_archive_3.zip", PromptsFileName)

	report, err := NewWriter(outDir, WriterOptions{WritePrompts: true}).Write(chunks)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if report.Written() != 1 {
		t.Fatalf("expected 1 archive, got %d", report.Written())
	}
	if _, err := os.Stat(filepath.Join(outDir, "project_archive_3.zip")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected the old archive to be removed, got %v", err)
	}
}

func TestWriterSkipsVanishedFile(t *testing.T) {
	tr, chunks := packAll(t, "a", "b", "c")
	if err := os.Remove(tr.AbsPath(treetest.ID(t, tr, "b"))); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	outDir := filepath.Join(t.TempDir(), "out")

	report, err := NewWriter(outDir, WriterOptions{NamePattern: "part-%d.zip"}).Write(chunks)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !errors.Is(report.Err(), errkind.ErrPartialIO) {
		t.Fatalf("expected partial I/O, got %v", report.Err())
	}
	if len(report.Failures) != 1 || filepath.Base(report.Failures[0].Source) != "b" {
		t.Fatalf("expected one failure for b, got %+v", report.Failures)
	}

	got := readArchive(t, filepath.Join(outDir, "part-1.zip"))
	if !reflect.DeepEqual(got, map[string]string{"a": "a"}) {
		t.Fatalf("expected archive to keep a, got %v", got)
	}
	if report.Written() != 2 || report.Files() != 2 {
		t.Fatalf("expected 2 archives with 2 files, got %d/%d", report.Written(), report.Files())
	}
}

func TestWriterContinuesAfterArchiveFailure(t *testing.T) {
	_, chunks := packAll(t, "a", "b", "c")
	outDir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(outDir, WriterOptions{NamePattern: "sub/part-%d.zip"})

	// The pattern points into a directory that does not exist.
	report, err := w.Write(chunks)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if len(report.Archives) != 2 || report.Written() != 0 {
		t.Fatalf("expected both archives to fail, got %+v", report.Archives)
	}
	if len(report.Failures) != 2 || report.Failures[1].Source != "" {
		t.Fatalf("expected archive-level failures, got %+v", report.Failures)
	}
}

func TestRenderPrompts(t *testing.T) {
	var b strings.Builder
	if err := RenderPrompts(&b, 3); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"--- Prompt 1/3 ---",
		"This is part 3 of 3",
		"--- Final prompt (after every part was sent) ---",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in prompts:\n%s", want, out)
		}
	}
	if strings.Count(out, "---------------------") != 4 {
		t.Fatalf("expected 4 separators, got %d", strings.Count(out, "---------------------"))
	}
}
