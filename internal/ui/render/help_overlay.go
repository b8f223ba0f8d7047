package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rpack/internal/state"
	textutil "github.com/kk-code-lab/rpack/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	actions := []helpOverlayEntry{
		{keys: "s", desc: "Save selection to the cache file"},
		{keys: "p", desc: "Pack selected files into archives"},
		{keys: "t", desc: "Write the directory structure of the selection"},
		{keys: "+ / -", desc: "Change files per archive"},
	}
	if state == nil || state.ClipboardAvailable {
		actions = append(actions, helpOverlayEntry{keys: "y", desc: "Yank relative path of a file"})
	}
	if state == nil || state.EditorAvailable {
		actions = append(actions, helpOverlayEntry{keys: "e", desc: "Open file in external editor ($EDITOR)"})
	}

	sections := []helpOverlaySection{
		{
			title: "Navigation",
			entries: []helpOverlayEntry{
				{keys: "↑/↓ or j/k", desc: "Move selection"},
				{keys: "PgUp/PgDn", desc: "Move by a page"},
				{keys: "Home/End", desc: "Jump to first/last row"},
				{keys: "→ or l", desc: "Expand directory, then enter it"},
				{keys: "← or h", desc: "Collapse directory or go to parent"},
				{keys: "↵", desc: "Expand or collapse directory"},
			},
		},
		{
			title: "Selection",
			entries: []helpOverlayEntry{
				{keys: "space", desc: "Toggle file or whole directory"},
				{keys: "click [ ]", desc: "Toggle the clicked row"},
				{keys: "click name", desc: "Select file, expand/collapse directory"},
			},
		},
		{
			title:   "Actions",
			entries: actions,
		},
		{
			title: "Folder",
			entries: []helpOverlayEntry{
				{keys: "o", desc: "Open a folder by typing its path"},
				{keys: "paste/drop", desc: "Open the pasted or dropped folder"},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q", desc: "Quit"},
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "Ctrl+Z", desc: "Suspend to shell"},
				{keys: "?", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return "  " + textutil.PadRight(key, 14) + " " + desc
}

func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fillLine(0, w, y, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	lines := buildHelpOverlayLines(state)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		text := strings.TrimRight(line, " ")
		text = r.truncateTextToWidth(text, w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	if h > 1 {
		footerText := r.truncateTextToWidth("? toggle · Esc/q close", w)
		r.drawTextLine(0, h-1, w, footerText, headerStyle)
	}
}
