// Package structure renders the selected part of a tree as box-drawing text.
package structure

import (
	"os"
	"strings"

	"github.com/kk-code-lab/rpack/internal/errkind"
	"github.com/kk-code-lab/rpack/internal/tree"
)

// DefaultFileName is written inside the tree root.
const DefaultFileName = "directory_structure.txt"

const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	blank      = "    "
)

type frame struct {
	id     tree.NodeID
	prefix string
	last   bool
}

// Render returns the root name followed by one line per selected or partially
// selected node. Unchecked nodes and their subtrees are omitted.
func Render(t *tree.Tree) []string {
	root := t.MustNode(t.Root())
	lines := []string{root.Name + "/"}

	var stack []frame
	push := func(parent *tree.Node, prefix string) {
		visible := visibleChildren(t, parent)
		for i := len(visible) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: visible[i], prefix: prefix, last: i == len(visible)-1})
		}
	}
	push(root, "")

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.MustNode(f.id)

		connector, ext := branch, pipe
		if f.last {
			connector, ext = lastBranch, blank
		}
		if !n.IsDir() {
			lines = append(lines, f.prefix+connector+n.Name)
			continue
		}
		lines = append(lines, f.prefix+connector+n.Name+"/")
		push(n, f.prefix+ext)
	}
	return lines
}

func visibleChildren(t *tree.Tree, n *tree.Node) []tree.NodeID {
	out := make([]tree.NodeID, 0, len(n.Children))
	for _, c := range n.Children {
		if t.MustNode(c).State != tree.Unchecked {
			out = append(out, c)
		}
	}
	return out
}

// Write stores lines at path as newline-terminated UTF-8 text.
func Write(path string, lines []string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return errkind.New(errkind.Path, path, err)
	}
	return nil
}
