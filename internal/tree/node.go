package tree

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rpack/internal/errkind"
)

// NodeID indexes a node inside its Tree. It is only meaningful for the tree
// that issued it.
type NodeID int

// None is the parent of the root.
const None NodeID = -1

// Kind distinguishes files from directories.
type Kind int

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	if k == Directory {
		return "directory"
	}
	return "file"
}

// State is the tri-state selection of a node. Files are never Partial.
type State int

const (
	Unchecked State = iota
	Checked
	Partial
)

func (s State) String() string {
	switch s {
	case Checked:
		return "checked"
	case Partial:
		return "partial"
	default:
		return "unchecked"
	}
}

// Node is one filesystem entry.
type Node struct {
	ID       NodeID
	Name     string
	Path     string   // absolute path as listed on disk
	Segments []string // root-relative path; empty for the root
	Kind     Kind
	Children []NodeID // directories first, then files; fixed at build time
	Parent   NodeID
	State    State
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Kind == Directory
}

// Tree owns every node of one loaded root as a flat table in pre-order.
type Tree struct {
	root  string
	nodes []Node
	index map[string]NodeID
}

// RootPath returns the absolute filesystem path of the root.
func (t *Tree) RootPath() string {
	return t.root
}

// Root returns the root id.
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of nodes including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node for id.
func (t *Tree) Node(id NodeID) (*Node, error) {
	if !t.valid(id) {
		return nil, &errkind.Error{Kind: errkind.NodeNotFound, Param: fmt.Sprintf("id=%d", id)}
	}
	return &t.nodes[id], nil
}

// MustNode is Node for ids that came from this tree's own traversal.
func (t *Tree) MustNode(id NodeID) *Node {
	n, err := t.Node(id)
	if err != nil {
		panic(err)
	}
	return n
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// RelPath returns the slash-separated root-relative path ("" for the root).
func (t *Tree) RelPath(id NodeID) string {
	if !t.valid(id) {
		return ""
	}
	return strings.Join(t.nodes[id].Segments, "/")
}

// AbsPath returns the absolute filesystem path of id.
func (t *Tree) AbsPath(id NodeID) string {
	if !t.valid(id) {
		return ""
	}
	return t.nodes[id].Path
}

// Lookup resolves a slash-separated root-relative path. A trailing slash is
// ignored.
func (t *Tree) Lookup(relPath string) (NodeID, bool) {
	if t.index == nil {
		t.index = make(map[string]NodeID, len(t.nodes))
		for i := range t.nodes {
			t.index[strings.Join(t.nodes[i].Segments, "/")] = NodeID(i)
		}
	}
	id, ok := t.index[strings.TrimRight(relPath, "/")]
	return id, ok
}

// Walk visits nodes depth-first in child order. Returning false from fn skips
// the node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	if len(t.nodes) == 0 {
		return
	}
	stack := []NodeID{t.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[id]
		if !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// SelectedFiles returns every Checked file in build order.
func (t *Tree) SelectedFiles() []NodeID {
	var ids []NodeID
	for i := range t.nodes {
		if t.nodes[i].Kind == File && t.nodes[i].State == Checked {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// AnySelected reports whether any node is not Unchecked.
func (t *Tree) AnySelected() bool {
	for i := range t.nodes {
		if t.nodes[i].State != Unchecked {
			return true
		}
	}
	return false
}

// Counts returns the number of checked files and the total number of files.
func (t *Tree) Counts() (checked, total int) {
	for i := range t.nodes {
		if t.nodes[i].Kind != File {
			continue
		}
		total++
		if t.nodes[i].State == Checked {
			checked++
		}
	}
	return checked, total
}
