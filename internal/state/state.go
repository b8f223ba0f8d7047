package state

import (
	"time"

	"github.com/kk-code-lab/rpack/internal/session"
	"github.com/kk-code-lab/rpack/internal/tree"
)

const (
	MinChunkSize = 1
	MaxChunkSize = 1000
)

// Row is one visible line of the tree view.
type Row struct {
	ID       tree.NodeID
	Depth    int
	Expanded bool
}

// AppState is the single source of truth
type AppState struct {
	Session *session.Session

	// Tree view
	Rows          []Row
	Expanded      map[tree.NodeID]bool
	SelectedIndex int
	ScrollOffset  int

	ChunkSize int
	Dirty     bool // selection changed since the last open or save

	// Open-root prompt
	PromptActive bool
	PromptQuery  string

	HelpVisible bool

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	// Status line
	Status             string
	LastError          error
	ClipboardAvailable bool
	LastYankTime       time.Time
	EditorAvailable    bool
}

// NewAppState returns a state driving sess. When sess already has a root the
// tree rows are built with the root expanded.
func NewAppState(sess *session.Session, chunkSize int) *AppState {
	s := &AppState{
		Session:   sess,
		Expanded:  make(map[tree.NodeID]bool),
		ChunkSize: clampChunkSize(chunkSize),
	}
	s.resetTreeView()
	return s
}

func clampChunkSize(n int) int {
	return min(max(n, MinChunkSize), MaxChunkSize)
}

// Tree returns the loaded tree or nil.
func (s *AppState) Tree() *tree.Tree {
	if s.Session == nil {
		return nil
	}
	return s.Session.Tree()
}

// SetStatus shows an informational message and clears any error.
func (s *AppState) SetStatus(msg string) {
	s.Status = msg
	s.LastError = nil
}

// SetError shows err on the status line.
func (s *AppState) SetError(err error) {
	s.Status = ""
	s.LastError = err
}

// CurrentRow returns the selected row, or nil when the view is empty.
func (s *AppState) CurrentRow() *Row {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Rows) {
		return nil
	}
	return &s.Rows[s.SelectedIndex]
}

// CurrentNode returns the node under the cursor.
func (s *AppState) CurrentNode() *tree.Node {
	row := s.CurrentRow()
	t := s.Tree()
	if row == nil || t == nil {
		return nil
	}
	n, err := t.Node(row.ID)
	if err != nil {
		return nil
	}
	return n
}

// VisibleLines returns how many tree rows fit between the header and the
// two status rows.
func (s *AppState) VisibleLines() int {
	return max(s.ScreenHeight-3, 1)
}

// resetTreeView drops expansion state and shows the root expanded.
func (s *AppState) resetTreeView() {
	s.Rows = nil
	s.Expanded = make(map[tree.NodeID]bool)
	s.SelectedIndex = 0
	s.ScrollOffset = 0
	if t := s.Tree(); t != nil {
		s.Expanded[t.Root()] = true
	}
	s.rebuildRows()
}

// rebuildRows recomputes the visible rows and keeps the cursor on the same
// node when it is still visible.
func (s *AppState) rebuildRows() {
	var selected tree.NodeID = tree.None
	if row := s.CurrentRow(); row != nil {
		selected = row.ID
	}

	s.Rows = s.Rows[:0]
	t := s.Tree()
	if t == nil {
		s.SelectedIndex = 0
		s.ScrollOffset = 0
		return
	}

	t.Walk(func(n *tree.Node) bool {
		expanded := n.IsDir() && s.Expanded[n.ID]
		s.Rows = append(s.Rows, Row{ID: n.ID, Depth: len(n.Segments), Expanded: expanded})
		return expanded
	})

	s.SelectedIndex = min(s.SelectedIndex, len(s.Rows)-1)
	if selected != tree.None {
		if idx := s.rowIndex(selected); idx >= 0 {
			s.SelectedIndex = idx
		}
	}
	s.SelectedIndex = max(s.SelectedIndex, 0)
	s.updateScrollVisibility()
}

func (s *AppState) rowIndex(id tree.NodeID) int {
	for i, row := range s.Rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

func (s *AppState) updateScrollVisibility() {
	visibleLines := s.VisibleLines()

	if s.SelectedIndex < s.ScrollOffset {
		s.ScrollOffset = s.SelectedIndex
	} else if s.SelectedIndex >= s.ScrollOffset+visibleLines {
		s.ScrollOffset = s.SelectedIndex - visibleLines + 1
	}

	maxOffset := max(len(s.Rows)-visibleLines, 0)
	s.ScrollOffset = min(max(s.ScrollOffset, 0), maxOffset)
}

func (s *AppState) selectIndex(idx int) bool {
	if len(s.Rows) == 0 {
		return false
	}
	idx = min(max(idx, 0), len(s.Rows)-1)
	if idx == s.SelectedIndex {
		return false
	}
	s.SelectedIndex = idx
	s.updateScrollVisibility()
	return true
}
