package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestReadDirOrdersDirectoriesFirstCaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"beta.txt", "Alpha.txt", "gamma.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	for _, name := range []string{"zdir", "Bdir"} {
		if err := os.Mkdir(filepath.Join(tmpDir, name), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	entries, err := ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	want := []string{"Bdir", "zdir", "Alpha.txt", "beta.txt", "gamma.txt"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Fatalf("entry %d: expected %q, got %q", i, name, entries[i].Name)
		}
	}
	if !entries[0].IsDir || entries[2].IsDir {
		t.Fatalf("expected directories before files")
	}
}

func TestReadDirMissingDirectory(t *testing.T) {
	if _, err := ReadDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestReadDirResolvesSymlinkToDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "target")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatalf("failed to create target: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(tmpDir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	entries, err := ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if e.Name == "link" {
			if !e.IsDir || !e.IsSymlink {
				t.Fatalf("expected link to be a symlinked directory, got dir=%v symlink=%v", e.IsDir, e.IsSymlink)
			}
			return
		}
	}
	t.Fatalf("link entry not found")
}

func TestSortEntriesTieBreaksOnRawName(t *testing.T) {
	entries := []Entry{{Name: "readme"}, {Name: "README"}, {Name: "Readme"}}
	SortEntries(entries)

	want := []string{"README", "Readme", "readme"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Fatalf("entry %d: expected %q, got %q", i, name, entries[i].Name)
		}
	}
}

func TestIsHiddenDotFiles(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{".env", "visible.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	entries, err := ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	hidden := map[string]bool{}
	for _, e := range entries {
		hidden[e.Name] = e.IsHidden()
	}
	if runtime.GOOS != "windows" && !hidden[".env"] {
		t.Fatalf("expected .env to be hidden")
	}
	if hidden["visible.txt"] {
		t.Fatalf("expected visible.txt to be shown")
	}
}
