package render

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rpack/internal/state"
	textutil "github.com/kk-code-lab/rpack/internal/textutil"
	"github.com/kk-code-lab/rpack/internal/tree"
)

const (
	// treeStartY is the first screen row of the tree view.
	treeStartY = 1
	// checkboxColumns is the width of the " [x] " column.
	checkboxColumns = 5
	indentWidth     = 2

	emptyHint = "Paste or drop a folder here, or press o to type a path"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()

	w, h := r.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}

	if state.HelpVisible {
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	r.drawTree(state, w, h)
	r.drawStatusLine(state, w, h)
	r.drawFooter(state, w, h)

	r.screen.Show()
}

// HitKind classifies a click inside the tree view.
type HitKind int

const (
	HitNone HitKind = iota
	HitCheckbox
	HitName
)

// HitTest maps a screen cell to the row under it. The returned index is a
// display index into state.Rows and is only meaningful when the kind is not
// HitNone.
func HitTest(state *statepkg.AppState, x, y int) (HitKind, int) {
	if state == nil || x < 0 || y < treeStartY {
		return HitNone, -1
	}
	row := y - treeStartY
	if row >= state.VisibleLines() || y >= state.ScreenHeight-2 {
		return HitNone, -1
	}
	idx := state.ScrollOffset + row
	if idx < 0 || idx >= len(state.Rows) {
		return HitNone, -1
	}
	if x < checkboxColumns {
		return HitCheckbox, idx
	}
	return HitName, idx
}

// checkbox returns the marker for a selection state.
func checkbox(s tree.State) string {
	switch s {
	case tree.Checked:
		return "[x]"
	case tree.Partial:
		return "[-]"
	default:
		return "[ ]"
	}
}

// drawHeader renders the top bar with title, root and selection summary
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	endX := r.drawTextLine(0, 0, w, "rpack", headerStyle.Bold(true))
	if endX < w {
		r.screen.SetContent(endX, 0, ' ', nil, headerStyle)
		endX++
	}

	summary := fmt.Sprintf("chunk %d", state.ChunkSize)
	if t := state.Tree(); t != nil {
		checked, total := t.Counts()
		summary = fmt.Sprintf("%s · %d/%d files", summary, checked, total)
	}
	if state.Dirty {
		summary += " *"
	}
	summary = " " + summary + " "
	summaryWidth := r.measureTextWidth(summary)

	rootText := "no folder open"
	rootStyle := headerStyle.Foreground(r.theme.MutedFg)
	if t := state.Tree(); t != nil {
		rootText = textutil.SanitizeTerminalText(t.RootPath())
		rootStyle = headerStyle.Bold(true)
	}
	if available := w - endX - summaryWidth; available > 0 {
		endX = r.drawTextLine(endX, 0, available, r.truncateLeftToWidth(rootText, available), rootStyle)
	}

	summaryX := max(w-summaryWidth, endX)
	r.fillLine(endX, summaryX, 0, headerStyle)
	endX = r.drawTextLine(summaryX, 0, w-summaryX, summary, headerStyle)
	r.fillLine(endX, w, 0, headerStyle)
}

// drawTree renders the visible rows between the header and the status rows
func (r *Renderer) drawTree(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	bottomLimit := h - 2
	t := state.Tree()

	if t == nil {
		for y := treeStartY; y < bottomLimit; y++ {
			r.fillLine(0, w, y, baseStyle)
		}
		hintY := treeStartY + max(bottomLimit-treeStartY, 1)/2
		if hintY < bottomLimit {
			hint := r.truncateTextToWidth(emptyHint, w)
			x := max((w-r.measureTextWidth(hint))/2, 0)
			r.drawTextLine(x, hintY, w-x, hint, baseStyle.Foreground(r.theme.MutedFg))
		}
		return
	}

	y := treeStartY
	for idx := state.ScrollOffset; idx < len(state.Rows) && y < bottomLimit; idx++ {
		row := state.Rows[idx]
		n := t.MustNode(row.ID)
		selected := idx == state.SelectedIndex

		rowStyle := baseStyle.Foreground(r.theme.FileFg)
		if n.IsDir() {
			rowStyle = baseStyle.Foreground(r.theme.DirectoryFg)
		}
		boxStyle := baseStyle
		switch n.State {
		case tree.Checked:
			boxStyle = baseStyle.Foreground(r.theme.CheckedFg)
		case tree.Partial:
			boxStyle = baseStyle.Foreground(r.theme.PartialFg)
		}
		if selected {
			rowStyle = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
			boxStyle = rowStyle.Bold(true)
		}

		x := r.drawTextLine(0, y, w, " ", rowStyle)
		x = r.drawTextLine(x, y, w-x, checkbox(n.State), boxStyle)
		x = r.drawTextLine(x, y, w-x, " ", rowStyle)

		x = r.drawTextLine(x, y, w-x, formatRowLabel(n, row), rowStyle)
		r.fillLine(x, w, y, rowStyle)
		y++
	}

	for ; y < bottomLimit; y++ {
		r.fillLine(0, w, y, baseStyle)
	}
}

// formatRowLabel returns the indented disclosure marker and name of a row.
func formatRowLabel(n *tree.Node, row statepkg.Row) string {
	marker := "  "
	name := textutil.SanitizeTerminalText(n.Name)
	if n.IsDir() {
		marker = "▸ "
		if row.Expanded {
			marker = "▾ "
		}
		name += "/"
	}
	return strings.Repeat(" ", row.Depth*indentWidth) + marker + name
}

// drawStatusLine renders the prompt, the last outcome or the current path
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	y := h - 2
	if y < treeStartY {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	var text string
	switch {
	case state.PromptActive:
		text = "Open: " + textutil.SanitizeTerminalText(state.PromptQuery) + "█"
		// Keep the cursor end of a long query visible.
		text = r.truncateLeftToWidth(text, w)
	case state.LastError != nil:
		style = style.Foreground(r.theme.ErrorFg)
		text = r.truncateTextToWidth(textutil.SanitizeTerminalText(state.LastError.Error()), w)
	case state.Status != "":
		text = r.truncateTextToWidth(textutil.SanitizeTerminalText(state.Status), w)
	default:
		if n := state.CurrentNode(); n != nil {
			text = r.truncateLeftToWidth(textutil.SanitizeTerminalText(n.Path), w)
		}
	}

	if !state.LastYankTime.IsZero() && time.Since(state.LastYankTime) < 100*time.Millisecond {
		style = tcell.StyleDefault.Background(r.theme.FlashBg).Foreground(r.theme.FlashFg)
	}

	x := r.drawTextLine(0, y, w, text, style)
	r.fillLine(x, w, y, style)
}

// drawFooter renders the contextual key hints on the last row
func (r *Renderer) drawFooter(state *statepkg.AppState, w, h int) {
	y := h - 1
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.MutedFg)
	text := r.truncateTextToWidth(buildFooterHelpText(state), w)
	x := r.drawTextLine(0, y, w, text, style)
	r.fillLine(x, w, y, style)
}
