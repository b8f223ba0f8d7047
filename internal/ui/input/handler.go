package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rpack/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the application should stop.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	if ih.state != nil && ih.state.HelpVisible {
		switch ev.Key() {
		case tcell.KeyEscape:
			ih.actionChan <- statepkg.HelpHideAction{}
		case tcell.KeyRune:
			r := ev.Rune()
			if r == '?' || r == 'q' || r == 'Q' {
				ih.actionChan <- statepkg.HelpHideAction{}
			}
		}
		return true
	}

	if ih.state != nil && ih.state.PromptActive {
		ih.processPromptKey(ev)
		return true
	}

	switch ev.Key() {
	case tcell.KeyUp:
		ih.actionChan <- statepkg.NavigateUpAction{}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.NavigateDownAction{}
	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.ScrollPageUpAction{}
	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.ScrollPageDownAction{}
	case tcell.KeyHome:
		ih.actionChan <- statepkg.ScrollToStartAction{}
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.ScrollToEndAction{}
	case tcell.KeyRight:
		ih.actionChan <- statepkg.ExpandAction{}
	case tcell.KeyLeft:
		ih.actionChan <- statepkg.CollapseAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.EnterAction{}
	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	}
	return true
}

func (ih *InputHandler) processPromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.PromptClearAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.PromptSubmitAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.PromptBackspaceAction{}
	case tcell.KeyRune:
		// Every printable rune is path input, including 'q'.
		ih.actionChan <- statepkg.PromptCharAction{Char: ev.Rune()}
	}
}

func (ih *InputHandler) processRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false

	case ' ':
		ih.actionChan <- statepkg.ToggleSelectionAction{}

	case '+', '=':
		ih.actionChan <- statepkg.ChunkSizeAction{Delta: 1}

	case '-', '_':
		ih.actionChan <- statepkg.ChunkSizeAction{Delta: -1}

	case 's', 'S':
		ih.actionChan <- statepkg.SaveAction{}

	case 'p', 'P':
		ih.actionChan <- statepkg.PackAction{}

	case 't', 'T':
		ih.actionChan <- statepkg.StructureAction{}

	case 'o', 'O':
		ih.actionChan <- statepkg.PromptStartAction{}

	case 'y':
		ih.actionChan <- statepkg.YankPathAction{}

	case 'e', 'E':
		if ih.state != nil && ih.state.EditorAvailable {
			ih.actionChan <- statepkg.OpenEditorAction{}
		}

	case 'l':
		ih.actionChan <- statepkg.ExpandAction{}

	case 'h':
		ih.actionChan <- statepkg.CollapseAction{}

	case 'j':
		ih.actionChan <- statepkg.NavigateDownAction{}

	case 'k':
		ih.actionChan <- statepkg.NavigateUpAction{}

	case '?':
		ih.actionChan <- statepkg.HelpToggleAction{}
	}
	return true
}
