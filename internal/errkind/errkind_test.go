package errkind

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestIsMatchesKindOnly(t *testing.T) {
	err := New(Path, "/tmp/missing", os.ErrNotExist)
	wrapped := fmt.Errorf("open root: %w", err)

	if !errors.Is(wrapped, ErrPath) {
		t.Fatalf("expected wrapped error to match ErrPath")
	}
	if errors.Is(wrapped, ErrCacheFormat) {
		t.Fatalf("path error must not match ErrCacheFormat")
	}
	if !errors.Is(wrapped, os.ErrNotExist) {
		t.Fatalf("expected cause to stay reachable through Unwrap")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"kind only", ErrNothingSelected, "nothing selected"},
		{"path", New(Path, "/a", nil), "path error: /a"},
		{"param", Param("chunk_size", 0), "invalid parameter: chunk_size=0"},
		{"path and cause", New(CacheFormat, "c.json", errors.New("boom")), "cache format error: c.json: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("x: %w", Param("n", -1))); got != InvalidParameter {
		t.Fatalf("expected InvalidParameter, got %v", got)
	}
	if got := KindOf(errors.New("plain")); got != Unknown {
		t.Fatalf("expected Unknown, got %v", got)
	}
}
