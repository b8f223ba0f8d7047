package app

import (
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/rpack/internal/fs"
	"github.com/kk-code-lab/rpack/internal/session"
	statepkg "github.com/kk-code-lab/rpack/internal/state"
	renderui "github.com/kk-code-lab/rpack/internal/ui/render"
)

const doubleClickThreshold = 300 * time.Millisecond

// Run draws the UI and processes events until the user quits.
func (app *Application) Run() {
	defer app.screen.Fini()

	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	const flashInterval = 50 * time.Millisecond
	flashTimer := time.NewTimer(flashInterval)
	flashTimer.Stop()
	var flashCh <-chan time.Time

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		// Redraw once more after a yank so the status flash clears.
		if app.shouldAnimate() {
			flashTimer.Reset(flashInterval)
			flashCh = flashTimer.C
		} else {
			flashCh = nil
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-flashCh:
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	flashTimer.Stop()
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventPaste:
		if ev.Start() {
			app.pasting = true
			app.pasteBuf = app.pasteBuf[:0]
			return false
		}
		app.pasting = false
		app.handlePaste(string(app.pasteBuf))
		return true
	case *tcell.EventKey:
		if app.pasting {
			app.bufferPasteKey(ev)
			return false
		}
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		app.screen.Sync()
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

func (app *Application) bufferPasteKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		app.pasteBuf = append(app.pasteBuf, ev.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		app.pasteBuf = append(app.pasteBuf, '\n')
	case tcell.KeyTab:
		app.pasteBuf = append(app.pasteBuf, '\t')
	}
}

// handlePaste feeds pasted text to the open prompt, or opens it as a root
// when it names a folder.
func (app *Application) handlePaste(text string) {
	if app.state.HelpVisible {
		return
	}
	path := cleanDroppedPath(text, runtime.GOOS)
	if path == "" {
		return
	}
	if app.state.PromptActive {
		for _, r := range path {
			app.handleAction(statepkg.PromptCharAction{Char: r})
		}
		return
	}
	app.handleAction(statepkg.OpenRootAction{Path: path})
}

// cleanDroppedPath turns the text a terminal inserts for a dropped or pasted
// folder into a filesystem path. It takes the first non-empty line, strips
// surrounding quotes, decodes file:// URLs and undoes shell escaping.
func cleanDroppedPath(text, goos string) string {
	line := ""
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	if len(line) >= 2 {
		first, last := line[0], line[len(line)-1]
		if (first == '\'' || first == '"') && first == last {
			line = line[1 : len(line)-1]
		}
	}

	if strings.HasPrefix(line, "file://") {
		u, err := url.Parse(line)
		if err != nil {
			return ""
		}
		line = u.Path
		if strings.EqualFold(goos, "windows") {
			// file:///C:/dir parses to /C:/dir
			line = strings.TrimPrefix(line, "/")
		}
		return line
	}

	if !strings.EqualFold(goos, "windows") && strings.Contains(line, `\`) {
		var b strings.Builder
		escaped := false
		for _, r := range line {
			if r == '\\' && !escaped {
				escaped = true
				continue
			}
			escaped = false
			b.WriteRune(r)
		}
		line = b.String()
	}

	return fsutil.ExpandUser(line)
}

// handleMouse maps primary clicks and the wheel onto tree actions.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	if app.state == nil || app.state.HelpVisible || app.state.PromptActive {
		return false
	}

	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		app.actionCh <- statepkg.NavigateUpAction{}
		return true
	case buttons&tcell.WheelDown != 0:
		app.actionCh <- statepkg.NavigateDownAction{}
		return true
	case buttons&tcell.Button1 == 0:
		return false
	}

	x, y := ev.Position()
	kind, idx := renderui.HitTest(app.state, x, y)
	if kind == renderui.HitNone {
		return false
	}

	doubleClick := app.lastClickIdx == idx && time.Since(app.lastClickTime) <= doubleClickThreshold
	app.lastClickIdx = idx
	app.lastClickTime = time.Now()

	if kind == renderui.HitCheckbox {
		app.actionCh <- statepkg.ToggleRowAction{DisplayIndex: idx}
		return true
	}

	node, err := app.state.Tree().Node(app.state.Rows[idx].ID)
	if err != nil {
		return false
	}
	if node.IsDir() {
		app.actionCh <- statepkg.ToggleExpandRowAction{DisplayIndex: idx}
		return true
	}
	app.actionCh <- statepkg.MouseSelectAction{DisplayIndex: idx}
	if doubleClick {
		app.actionCh <- statepkg.ToggleRowAction{DisplayIndex: idx}
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) shouldAnimate() bool {
	if app.state == nil || app.state.LastYankTime.IsZero() {
		return false
	}
	return time.Since(app.state.LastYankTime) < 100*time.Millisecond
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case statepkg.YankPathAction:
		return app.handleClipboard()
	case statepkg.OpenEditorAction:
		return app.handleEditorOpen()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.reportError(action, err)
	}
	return true
}

func (app *Application) reportError(action statepkg.Action, err error) {
	level := "error"
	if session.IsWarning(err) {
		level = "warning"
	}
	app.logger.Warn("action failed", "action", fmt.Sprintf("%T", action), "level", level, "error", err)
	app.state.SetError(err)
}
