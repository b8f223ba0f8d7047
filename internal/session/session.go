// Package session ties one loaded tree to the cache, archive and structure
// outputs of its root. Shells drive everything through a Session.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/rpack/internal/archive"
	"github.com/kk-code-lab/rpack/internal/cache"
	"github.com/kk-code-lab/rpack/internal/config"
	"github.com/kk-code-lab/rpack/internal/errkind"
	"github.com/kk-code-lab/rpack/internal/structure"
	"github.com/kk-code-lab/rpack/internal/tree"
)

// ErrNoRoot is returned by every operation that needs a loaded tree.
var ErrNoRoot = errors.New("no root loaded")

// Warning wraps a non-fatal problem. The session stays usable.
type Warning struct {
	Err error
}

func (w *Warning) Error() string {
	return "warning: " + w.Err.Error()
}

func (w *Warning) Unwrap() error {
	return w.Err
}

// IsWarning reports whether err only carries a Warning.
func IsWarning(err error) bool {
	var w *Warning
	return errors.As(err, &w)
}

// Session holds at most one tree at a time.
type Session struct {
	cfg    config.Config
	logger *slog.Logger
	tree   *tree.Tree
}

// New returns an empty session. A nil logger falls back to slog.Default.
func New(cfg config.Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{cfg: cfg, logger: logger}
}

// Config returns the settings the session was created with.
func (s *Session) Config() config.Config {
	return s.cfg
}

// Tree returns the loaded tree or nil.
func (s *Session) Tree() *tree.Tree {
	return s.tree
}

// Loaded reports whether a root is open.
func (s *Session) Loaded() bool {
	return s.tree != nil
}

// Root returns the absolute root path, or "" before Open.
func (s *Session) Root() string {
	if s.tree == nil {
		return ""
	}
	return s.tree.RootPath()
}

// CachePath returns where the selection of the open root is persisted.
func (s *Session) CachePath() string {
	return s.join(s.cfg.CacheFile)
}

// OutputDir returns the archive directory of the open root.
func (s *Session) OutputDir() string {
	return s.join(s.cfg.OutputDir)
}

// StructurePath returns the structure file of the open root.
func (s *Session) StructurePath() string {
	return s.join(s.cfg.StructureFile)
}

func (s *Session) join(name string) string {
	if s.tree == nil {
		return ""
	}
	return filepath.Join(s.tree.RootPath(), name)
}

// Open builds the tree for path and restores its cached selection. The
// previous tree is kept when the build fails. A cache that exists but cannot
// be used is reported as a *Warning with the new tree already in place.
func (s *Session) Open(path string) error {
	// rpack's own artifacts only ever live directly inside the root.
	t, err := tree.Build(path, tree.BuildOptions{
		SkipHidden:  s.cfg.SkipHidden,
		Exclude:     s.cfg.Exclude,
		RootExclude: []string{s.cfg.OutputDir, s.cfg.CacheFile, s.cfg.StructureFile},
		Logger:      s.logger,
	})
	if err != nil {
		return err
	}
	s.tree = t
	s.logger.Info("root opened", "root", t.RootPath(), "nodes", t.Len())

	err = cache.Restore(t, s.CachePath(), s.logger)
	switch {
	case err == nil:
		checked, total := t.Counts()
		s.logger.Info("selection restored", "cache", s.CachePath(), "checked", checked, "files", total)
		return nil
	case errors.Is(err, os.ErrNotExist):
		s.logger.Debug("no cache for root", "cache", s.CachePath())
		return nil
	default:
		s.logger.Warn("ignoring unusable cache", "cache", s.CachePath(), "error", err)
		return &Warning{Err: err}
	}
}

// Toggle flips the selection of id.
func (s *Session) Toggle(id tree.NodeID) error {
	if s.tree == nil {
		return ErrNoRoot
	}
	return s.tree.Toggle(id)
}

// TogglePath flips the selection of a root-relative, slash separated path.
func (s *Session) TogglePath(relPath string) error {
	if s.tree == nil {
		return ErrNoRoot
	}
	id, ok := s.tree.Lookup(relPath)
	if !ok {
		return &errkind.Error{Kind: errkind.NodeNotFound, Path: relPath}
	}
	return s.tree.Toggle(id)
}

// Selection returns the serialized selection as it would be saved.
func (s *Session) Selection() ([]string, error) {
	if s.tree == nil {
		return nil, ErrNoRoot
	}
	return cache.Serialize(s.tree), nil
}

// Save persists the selection and returns the cache path.
func (s *Session) Save() (string, error) {
	if s.tree == nil {
		return "", ErrNoRoot
	}
	path := s.CachePath()
	if err := cache.Store(s.tree, path); err != nil {
		return "", fmt.Errorf("save selection: %w", err)
	}
	s.logger.Info("selection saved", "cache", path)
	return path, nil
}

// Pack writes the selected files into chunked archives under OutputDir.
// The returned report is non-nil whenever archives were attempted; its Err
// reports per-file failures.
func (s *Session) Pack(chunkSize int) (*archive.Report, error) {
	if s.tree == nil {
		return nil, ErrNoRoot
	}
	chunks, err := archive.Partition(s.tree, chunkSize)
	if err != nil {
		return nil, err
	}
	w := archive.NewWriter(s.OutputDir(), archive.WriterOptions{
		NamePattern:  s.cfg.ArchivePattern,
		WritePrompts: s.cfg.WritePrompts,
		Logger:       s.logger,
	})
	return w.Write(chunks)
}

// Structure renders the selected subtree.
func (s *Session) Structure() ([]string, error) {
	if s.tree == nil {
		return nil, ErrNoRoot
	}
	if !s.tree.AnySelected() {
		return nil, errkind.ErrNothingSelected
	}
	return structure.Render(s.tree), nil
}

// WriteStructure renders the selected subtree into StructurePath.
func (s *Session) WriteStructure() (string, error) {
	lines, err := s.Structure()
	if err != nil {
		return "", err
	}
	path := s.StructurePath()
	if err := structure.Write(path, lines); err != nil {
		return "", err
	}
	s.logger.Info("structure written", "path", path, "lines", len(lines))
	return path, nil
}

// RelativePath returns the slash separated path of id below the root.
func (s *Session) RelativePath(id tree.NodeID) (string, error) {
	if s.tree == nil {
		return "", ErrNoRoot
	}
	if _, err := s.tree.Node(id); err != nil {
		return "", err
	}
	return s.tree.RelPath(id), nil
}
