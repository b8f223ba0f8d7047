package state

// Action is the base interface for all state mutations
type Action interface{}

// ===== NAVIGATION ACTIONS =====

type NavigateUpAction struct{}
type NavigateDownAction struct{}
type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}
type ScrollToStartAction struct{}
type ScrollToEndAction struct{}
type MouseSelectAction struct {
	DisplayIndex int
}

// ===== TREE ACTIONS =====

type ToggleSelectionAction struct{}
type ExpandAction struct{}
type CollapseAction struct{}
type EnterAction struct{} // toggles expansion of directories

// ToggleRowAction flips the checkbox of a row by display index.
type ToggleRowAction struct {
	DisplayIndex int
}

// ToggleExpandRowAction expands or collapses a directory row by display index.
type ToggleExpandRowAction struct {
	DisplayIndex int
}

// ===== SESSION ACTIONS =====

type ChunkSizeAction struct {
	Delta int
}
type SaveAction struct{}
type PackAction struct{}
type StructureAction struct{}
type OpenRootAction struct {
	Path string
}

// ===== PROMPT ACTIONS =====

type PromptStartAction struct{}
type PromptCharAction struct {
	Char rune
}
type PromptBackspaceAction struct{}
type PromptClearAction struct{}
type PromptSubmitAction struct{}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

type HelpToggleAction struct{}
type HelpHideAction struct{}
type YankPathAction struct{}
type OpenEditorAction struct{}

// ===== APPLICATION ACTIONS =====

type SuspendAction struct{}
type QuitAction struct{}
