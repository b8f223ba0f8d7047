package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpack/internal/session"
	statepkg "github.com/kk-code-lab/rpack/internal/state"
	inputui "github.com/kk-code-lab/rpack/internal/ui/input"
	renderui "github.com/kk-code-lab/rpack/internal/ui/render"
)

// Options configures a new Application.
type Options struct {
	// Root is opened before the first frame. Empty starts with no folder.
	Root      string
	ChunkSize int
	Logger    *slog.Logger
}

// Application represents the running app.
type Application struct {
	screen         tcell.Screen
	state          *statepkg.AppState
	reducer        *statepkg.StateReducer
	renderer       *renderui.Renderer
	input          *inputui.InputHandler
	actionCh       chan statepkg.Action
	logger         *slog.Logger
	shouldQuit     bool
	clipboardCmd   []string
	clipboardAvail bool
	editorCmd      []string

	// Bracketed paste
	pasting  bool
	pasteBuf []rune

	lastClickIdx  int
	lastClickTime time.Time
}

// NewApplication initializes the terminal and opens opts.Root in sess.
func NewApplication(sess *session.Session, opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()
	// Dropped folders arrive as a bracketed paste.
	screen.EnablePaste()

	app, err := newApplication(screen, sess, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

func newApplication(screen tcell.Screen, sess *session.Session, opts Options) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	clipboardCmd, clipboardAvail := detectClipboard()
	editorCmd, editorAvail := detectEditorCommand()

	state := statepkg.NewAppState(sess, opts.ChunkSize)
	state.ClipboardAvailable = clipboardAvail
	state.EditorAvailable = editorAvail
	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h

	actionCh := make(chan statepkg.Action, 10)
	reducer := statepkg.NewStateReducer()
	inputHandler := inputui.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	app := &Application{
		screen:         screen,
		state:          state,
		reducer:        reducer,
		renderer:       renderui.NewRenderer(screen),
		input:          inputHandler,
		actionCh:       actionCh,
		logger:         logger,
		clipboardCmd:   clipboardCmd,
		clipboardAvail: clipboardAvail,
		editorCmd:      editorCmd,
		lastClickIdx:   -1,
	}

	if opts.Root != "" {
		_, err := reducer.Reduce(state, statepkg.OpenRootAction{Path: opts.Root})
		switch {
		case session.IsWarning(err):
			state.SetError(err)
		case err != nil:
			return nil, fmt.Errorf("open %s: %w", opts.Root, err)
		}
	}
	return app, nil
}

// Close cleans up resources.
func (app *Application) Close() error {
	close(app.actionCh)
	app.screen.Fini()
	return nil
}

// Dirty reports whether the selection changed since the last open or save.
func (app *Application) Dirty() bool {
	return app.state.Dirty
}
