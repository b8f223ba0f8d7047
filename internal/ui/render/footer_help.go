package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/rpack/internal/state"
)

var (
	promptHints = []string{"type: folder path", "↵: open", "Esc: cancel"}
	emptyHints  = []string{"paste/drop: open folder", "o: type path"}
	treeHints   = []string{
		"space: toggle",
		"→/←: expand/collapse",
		"+/-: chunk size",
		"s: save",
		"p: pack",
		"t: structure",
		"o: open",
	}
)

func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments lists the hints for the current mode. The prompt
// shows only its own keys; every other mode ends with help and quit.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}
	if state.PromptActive {
		return append([]string(nil), promptHints...)
	}
	if state.Tree() == nil {
		return append(append([]string(nil), emptyHints...), "?: help", "q: quit")
	}

	segments := append([]string(nil), treeHints...)
	if state.ClipboardAvailable {
		segments = append(segments, "y: yank path")
	}
	if state.EditorAvailable {
		segments = append(segments, "e: edit file")
	}
	return append(segments, "?: help", "q: quit")
}
