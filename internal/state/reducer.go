package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/rpack/internal/errkind"
	fsutil "github.com/kk-code-lab/rpack/internal/fs"
	"github.com/kk-code-lab/rpack/internal/session"
	"github.com/kk-code-lab/rpack/internal/tree"
)

// ===== REDUCER =====

// StateReducer applies actions to state
type StateReducer struct{}

// NewStateReducer creates a new reducer
func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

// Reduce applies an action to state. Errors are meant for the status line;
// the state stays usable after any of them.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	// ===== NAVIGATION =====

	case NavigateDownAction:
		state.selectIndex(state.SelectedIndex + 1)
		return state, nil

	case NavigateUpAction:
		state.selectIndex(state.SelectedIndex - 1)
		return state, nil

	case ScrollPageUpAction:
		state.selectIndex(state.SelectedIndex - state.VisibleLines())
		return state, nil

	case ScrollPageDownAction:
		state.selectIndex(state.SelectedIndex + state.VisibleLines())
		return state, nil

	case ScrollToStartAction:
		state.selectIndex(0)
		return state, nil

	case ScrollToEndAction:
		state.selectIndex(len(state.Rows) - 1)
		return state, nil

	case MouseSelectAction:
		if a.DisplayIndex < 0 || a.DisplayIndex >= len(state.Rows) {
			return state, nil
		}
		state.selectIndex(a.DisplayIndex)
		return state, nil

	// ===== TREE =====

	case ToggleSelectionAction:
		return state, r.toggleRow(state, state.SelectedIndex)

	case ToggleRowAction:
		if a.DisplayIndex < 0 || a.DisplayIndex >= len(state.Rows) {
			return state, nil
		}
		state.selectIndex(a.DisplayIndex)
		return state, r.toggleRow(state, a.DisplayIndex)

	case ExpandAction:
		node := state.CurrentNode()
		if node == nil || !node.IsDir() {
			return state, nil
		}
		if !state.Expanded[node.ID] {
			state.Expanded[node.ID] = true
			state.rebuildRows()
		} else if len(node.Children) > 0 {
			state.selectIndex(state.SelectedIndex + 1)
		}
		return state, nil

	case CollapseAction:
		node := state.CurrentNode()
		if node == nil {
			return state, nil
		}
		if node.IsDir() && state.Expanded[node.ID] {
			delete(state.Expanded, node.ID)
			state.rebuildRows()
			return state, nil
		}
		if node.Parent != tree.None {
			if idx := state.rowIndex(node.Parent); idx >= 0 {
				state.selectIndex(idx)
			}
		}
		return state, nil

	case EnterAction:
		r.toggleExpansion(state)
		return state, nil

	case ToggleExpandRowAction:
		if a.DisplayIndex < 0 || a.DisplayIndex >= len(state.Rows) {
			return state, nil
		}
		state.selectIndex(a.DisplayIndex)
		r.toggleExpansion(state)
		return state, nil

	// ===== SESSION =====

	case ChunkSizeAction:
		state.ChunkSize = clampChunkSize(state.ChunkSize + a.Delta)
		state.SetStatus(fmt.Sprintf("files per archive: %d", state.ChunkSize))
		return state, nil

	case SaveAction:
		path, err := state.Session.Save()
		if err != nil {
			return state, err
		}
		state.Dirty = false
		state.SetStatus("selection saved to " + filepath.Base(path))
		return state, nil

	case PackAction:
		return state, r.pack(state)

	case StructureAction:
		path, err := state.Session.WriteStructure()
		if errors.Is(err, errkind.ErrNothingSelected) {
			state.SetStatus("nothing selected")
			return state, nil
		}
		if err != nil {
			return state, err
		}
		state.SetStatus("structure written to " + filepath.Base(path))
		return state, nil

	case OpenRootAction:
		return state, r.openRoot(state, a.Path)

	// ===== PROMPT =====

	case PromptStartAction:
		state.PromptActive = true
		state.PromptQuery = ""
		state.HelpVisible = false
		return state, nil

	case PromptCharAction:
		if state.PromptActive {
			state.PromptQuery += string(a.Char)
		}
		return state, nil

	case PromptBackspaceAction:
		if state.PromptActive && state.PromptQuery != "" {
			runes := []rune(state.PromptQuery)
			state.PromptQuery = string(runes[:len(runes)-1])
		}
		return state, nil

	case PromptClearAction:
		state.PromptActive = false
		state.PromptQuery = ""
		return state, nil

	case PromptSubmitAction:
		if !state.PromptActive {
			return state, nil
		}
		path := fsutil.ExpandUser(strings.TrimSpace(state.PromptQuery))
		state.PromptActive = false
		state.PromptQuery = ""
		return state, r.openRoot(state, path)

	// ===== VIEW =====

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		state.updateScrollVisibility()
		return state, nil

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
		return state, nil

	case HelpHideAction:
		if state.HelpVisible {
			state.HelpVisible = false
		}
		return state, nil

	default:
		return state, fmt.Errorf("unknown action: %T", action)
	}
}

func (r *StateReducer) toggleRow(state *AppState, idx int) error {
	if idx < 0 || idx >= len(state.Rows) {
		if state.Tree() == nil {
			return session.ErrNoRoot
		}
		return nil
	}
	if err := state.Session.Toggle(state.Rows[idx].ID); err != nil {
		return err
	}
	state.Dirty = true
	state.SetStatus("")
	return nil
}

func (r *StateReducer) toggleExpansion(state *AppState) {
	node := state.CurrentNode()
	if node == nil || !node.IsDir() {
		return
	}
	if state.Expanded[node.ID] {
		delete(state.Expanded, node.ID)
	} else {
		state.Expanded[node.ID] = true
	}
	state.rebuildRows()
}

func (r *StateReducer) pack(state *AppState) error {
	report, err := state.Session.Pack(state.ChunkSize)
	if errors.Is(err, errkind.ErrNothingSelected) {
		state.SetStatus("no files selected")
		return nil
	}
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("packed %d file(s) into %d archive(s) in %s",
		report.Files(), report.Written(), filepath.Base(report.OutputDir))
	if err := report.Err(); err != nil {
		return fmt.Errorf("%s: %w", summary, err)
	}
	state.SetStatus(summary)
	return nil
}

func (r *StateReducer) openRoot(state *AppState, path string) error {
	if path == "" {
		return nil
	}
	err := state.Session.Open(path)
	if err != nil && !session.IsWarning(err) {
		return err
	}

	state.Dirty = false
	state.resetTreeView()
	if err != nil {
		return err
	}

	checked, total := state.Tree().Counts()
	state.SetStatus(fmt.Sprintf("opened %s: %d of %d file(s) selected", state.Session.Root(), checked, total))
	return nil
}
