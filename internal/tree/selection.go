package tree

import (
	"fmt"

	"github.com/kk-code-lab/rpack/internal/errkind"
)

// Toggle flips id between Checked and Unchecked, cascades the new state into
// a directory's subtree and re-aggregates the ancestors. The tree is at its
// fixed point when Toggle returns.
func (t *Tree) Toggle(id NodeID) error {
	n, err := t.Node(id)
	if err != nil {
		return err
	}

	newState := Checked
	if n.State == Checked {
		newState = Unchecked
	}
	n.State = newState
	if n.Kind == Directory {
		t.cascade(id, newState)
	}
	t.propagateUp(n.Parent)
	return nil
}

// CheckSubtree marks id and all of its descendants Checked without touching
// ancestors. Callers restoring many entries run AggregateAll afterwards.
func (t *Tree) CheckSubtree(id NodeID) error {
	n, err := t.Node(id)
	if err != nil {
		return err
	}
	n.State = Checked
	if n.Kind == Directory {
		t.cascade(id, Checked)
	}
	return nil
}

// Cascade overwrites every descendant of id with state. Only Checked and
// Unchecked can be cascaded.
func (t *Tree) Cascade(id NodeID, state State) error {
	if _, err := t.Node(id); err != nil {
		return err
	}
	if state == Partial {
		return errkind.Param("state", state)
	}
	t.cascade(id, state)
	return nil
}

func (t *Tree) cascade(id NodeID, state State) {
	stack := append([]NodeID(nil), t.nodes[id].Children...)
	for len(stack) > 0 {
		cid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		child := &t.nodes[cid]
		child.State = state
		stack = append(stack, child.Children...)
	}
}

// Reset sets every node to Unchecked.
func (t *Tree) Reset() {
	for i := range t.nodes {
		t.nodes[i].State = Unchecked
	}
}

// Aggregate recomputes id from its children once and reports whether the
// state changed. It does not walk upward.
func (t *Tree) Aggregate(id NodeID) (bool, error) {
	if _, err := t.Node(id); err != nil {
		return false, err
	}
	return t.aggregate(id), nil
}

// AggregateAll settles every ancestor in reverse build order, which visits
// each directory only after its whole subtree, and repeats until a sweep
// changes nothing.
func (t *Tree) AggregateAll() {
	for {
		changed := false
		for i := len(t.nodes) - 1; i > 0; i-- {
			if t.propagateUp(t.nodes[i].Parent) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// propagateUp aggregates from p toward the root, stopping at the first node
// whose state does not change.
func (t *Tree) propagateUp(p NodeID) bool {
	changed := false
	for p != None {
		if !t.aggregate(p) {
			break
		}
		changed = true
		p = t.nodes[p].Parent
	}
	return changed
}

func (t *Tree) aggregate(id NodeID) bool {
	n := &t.nodes[id]
	next := t.derive(n)
	if next == n.State {
		return false
	}
	n.State = next
	return true
}

// derive is the aggregation rule. A Checked directory can only be demoted to
// Partial; any other directory is derived from its children but never
// promoted to Checked, even when every child is Checked.
func (t *Tree) derive(n *Node) State {
	if n.Kind != Directory || len(n.Children) == 0 {
		return n.State
	}

	if n.State == Checked {
		for _, cid := range n.Children {
			if t.nodes[cid].State != Checked {
				return Partial
			}
		}
		return Checked
	}

	for _, cid := range n.Children {
		if t.nodes[cid].State != Unchecked {
			return Partial
		}
	}
	return Unchecked
}

// CheckInvariants reports the first node whose state no toggle sequence can
// produce: a Partial file, a Checked directory with a child that is not
// Checked, or an Unchecked directory with a selected child. A Partial
// directory is valid with any children, since demoting a Checked directory
// can leave it Partial over children that are all Unchecked.
func (t *Tree) CheckInvariants() error {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.Kind == File {
			if n.State == Partial {
				return fmt.Errorf("file %q is partial", t.RelPath(n.ID))
			}
			continue
		}
		for _, cid := range n.Children {
			c := &t.nodes[cid]
			switch {
			case n.State == Checked && c.State != Checked:
				return fmt.Errorf("checked directory %q has %s child %q", t.RelPath(n.ID), c.State, c.Name)
			case n.State == Unchecked && c.State != Unchecked:
				return fmt.Errorf("unchecked directory %q has %s child %q", t.RelPath(n.ID), c.State, c.Name)
			}
		}
	}
	return nil
}
