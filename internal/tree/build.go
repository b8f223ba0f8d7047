package tree

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/rpack/internal/errkind"
	fsutil "github.com/kk-code-lab/rpack/internal/fs"
	"golang.org/x/text/unicode/norm"
)

// BuildOptions tunes which entries make it into the tree. The zero value
// includes everything.
type BuildOptions struct {
	SkipHidden  bool
	Exclude     []string // base names skipped at any depth
	RootExclude []string // base names skipped only among the root's children
	Logger      *slog.Logger
}

// readDir is swapped in tests to simulate unreadable directories.
var readDir = fsutil.ReadDir

// Build walks root once and returns a tree with every node Unchecked.
// Directories that cannot be listed stay in the tree without children.
func Build(root string, opts BuildOptions) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errkind.New(errkind.Path, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errkind.New(errkind.Path, abs, err)
	}
	if !info.IsDir() {
		return nil, errkind.New(errkind.Path, abs, errNotDirectory)
	}

	b := &builder{
		opts:    opts,
		logger:  opts.Logger,
		exclude:     nameSet(opts.Exclude),
		rootExclude: nameSet(opts.RootExclude),
		tree:        &Tree{root: abs},
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	rootID := b.add(norm.NFC.String(filepath.Base(abs)), abs, nil, Directory, None)
	b.populate(rootID, abs)

	b.logger.Debug("tree built", "root", abs, "nodes", b.tree.Len())
	return b.tree, nil
}

var errNotDirectory = errors.New("not a directory")

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[norm.NFC.String(name)] = struct{}{}
	}
	return set
}

type builder struct {
	opts        BuildOptions
	logger      *slog.Logger
	exclude     map[string]struct{}
	rootExclude map[string]struct{}
	tree        *Tree
}

func (b *builder) add(name, fullPath string, segments []string, kind Kind, parent NodeID) NodeID {
	id := NodeID(len(b.tree.nodes))
	b.tree.nodes = append(b.tree.nodes, Node{
		ID:       id,
		Name:     name,
		Path:     fullPath,
		Segments: segments,
		Kind:     kind,
		Parent:   parent,
		State:    Unchecked,
	})
	if parent != None {
		p := &b.tree.nodes[parent]
		p.Children = append(p.Children, id)
	}
	return id
}

func (b *builder) populate(dirID NodeID, dirPath string) {
	entries, err := readDir(dirPath)
	if err != nil {
		b.logger.Debug("skipping unreadable directory", "path", dirPath, "error", err)
		return
	}

	parentSegments := b.tree.nodes[dirID].Segments
	for _, entry := range entries {
		if _, skip := b.exclude[entry.Name]; skip {
			continue
		}
		if _, skip := b.rootExclude[entry.Name]; skip && dirID == b.tree.Root() {
			continue
		}
		if b.opts.SkipHidden && entry.IsHidden() {
			continue
		}

		segments := make([]string, len(parentSegments)+1)
		copy(segments, parentSegments)
		segments[len(parentSegments)] = entry.Name

		kind := File
		if entry.IsDir {
			kind = Directory
		}
		id := b.add(entry.Name, entry.FullPath, segments, kind, dirID)
		if kind == Directory {
			b.populate(id, entry.FullPath)
		}
	}
}
