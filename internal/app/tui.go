package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/engine/action"
	"github.com/dshills/rewind/internal/engine/history"
	"github.com/dshills/rewind/internal/store"
)

const helpLine = "+/- change  u/r undo/redo  </> jump 3  c clear  0 reset  i reinit  q quit"

// Styles
var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	stylePresent = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorGreen)
	styleDim     = tcell.StyleDefault.Dim(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

// quitSignal is posted to stop the event loop when the context ends.
type quitSignal struct{}

// TUI is an interactive terminal view of the counter store.
type TUI struct {
	screen tcell.Screen
	store  *store.Store[int]
	base   engine.BaseReducer[int]
	logger *slog.Logger

	mu     sync.Mutex
	status string
}

// NewTUI creates a TUI drawing on screen. The screen is initialized by Run.
// base is the reducer Reload wraps; nil means Count.
func NewTUI(screen tcell.Screen, s *store.Store[int], base engine.BaseReducer[int], logger *slog.Logger) *TUI {
	if logger == nil {
		logger = slog.Default()
	}
	return &TUI{
		screen: screen,
		store:  s,
		base:   base,
		logger: logger,
	}
}

// Run initializes the screen and processes input until the user quits or
// ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer t.screen.Fini()

	return t.loop(ctx)
}

// loop runs the event loop on an initialized screen.
func (t *TUI) loop(ctx context.Context) error {
	_, unsubscribe := t.store.Subscribe(func(_, _ *history.History[int], _ action.Action) {
		t.wake(nil)
	})
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			t.wake(quitSignal{})
		case <-done:
		}
	}()

	t.draw()
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return nil

		case *tcell.EventResize:
			t.screen.Sync()

		case *tcell.EventKey:
			if err := t.handleKey(ev); errors.Is(err, ErrQuit) {
				return nil
			}

		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(quitSignal); ok {
				return ctx.Err()
			}
		}
		// The quit signal is dropped when the queue is full, so any event
		// seen after cancellation ends the loop.
		if err := ctx.Err(); err != nil {
			return err
		}
		t.draw()
	}
}

// Reload swaps in a reducer built from s, keeping the history.
func (t *TUI) Reload(s config.Settings) error {
	if err := t.store.ReplaceReducer(NewUndoable(t.base, s, t.logger)); err != nil {
		return err
	}
	t.SetStatus(fmt.Sprintf("settings reloaded (limit %d)", s.Limit))
	return nil
}

// SetStatus shows msg on the status line.
func (t *TUI) SetStatus(msg string) {
	t.mu.Lock()
	t.status = msg
	t.mu.Unlock()
	t.wake(nil)
}

func (t *TUI) statusLine() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// wake posts an interrupt so the loop redraws. A full queue drops it; the
// queued events redraw and check for cancellation anyway.
func (t *TUI) wake(data any) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(data))
}

func (t *TUI) handleKey(ev *tcell.EventKey) error {
	a, quit, ok := KeyAction(ev)
	if quit {
		return ErrQuit
	}
	if !ok {
		return nil
	}

	if _, err := t.store.Dispatch(a); err != nil {
		t.logger.Error("dispatch failed", "action", a.String(), "error", err)
		t.SetStatus("error: " + a.String() + " failed")
	}
	return nil
}

// KeyAction maps a key press to a store action. quit is set for the keys
// that leave the TUI; ok is false for unbound keys.
func KeyAction(ev *tcell.EventKey) (a action.Action, quit, ok bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return action.Action{}, true, false
	case tcell.KeyUp:
		return action.New(TypeIncrement, nil), false, true
	case tcell.KeyDown:
		return action.New(TypeDecrement, nil), false, true
	case tcell.KeyLeft:
		return action.Undo(), false, true
	case tcell.KeyRight, tcell.KeyCtrlR:
		return action.Redo(), false, true
	case tcell.KeyRune:
	default:
		return action.Action{}, false, false
	}

	switch ev.Rune() {
	case 'q':
		return action.Action{}, true, false
	case '+', '=', 'k':
		return action.New(TypeIncrement, nil), false, true
	case '-', 'j':
		return action.New(TypeDecrement, nil), false, true
	case 'u':
		return action.Undo(), false, true
	case 'r':
		return action.Redo(), false, true
	case '<':
		return action.Jump(-3), false, true
	case '>':
		return action.Jump(3), false, true
	case 'c':
		return action.ClearHistory(), false, true
	case '0':
		return action.New(TypeReset, nil), false, true
	case 'i':
		return action.New(engine.TypeInit, nil), false, true
	}
	return action.Action{}, false, false
}

func (t *TUI) draw() {
	h := t.store.State()
	t.screen.Clear()
	w, rows := t.screen.Size()

	y := 0
	line := func(x int, style tcell.Style, s string) int {
		return drawText(t.screen, x, y, w, style, s)
	}

	x := line(0, styleTitle, "rewind  present: ")
	line(x, stylePresent, fmt.Sprint(h.Present))
	y++
	line(0, styleDim, fmt.Sprintf("timeline %d  undo %s  redo %s", h.Len(), yesNo(h.CanUndo()), yesNo(h.CanRedo())))
	y++

	line(0, styleDefault, fmt.Sprintf("past   (%d): %s", len(h.Past), joinInts(h.Past)))
	y++
	line(0, styleDefault, fmt.Sprintf("future (%d): %s", len(h.Future), joinInts(h.Future)))
	y += 2

	line(0, styleDim, helpLine)

	if status := t.statusLine(); status != "" && rows > 0 {
		y = rows - 1
		line(0, styleStatus, status)
	}

	t.screen.Show()
}

// drawText draws s from x on row y, clipped to width, and returns the
// column after the last rune.
func drawText(screen tcell.Screen, x, y, width int, style tcell.Style, s string) int {
	for _, r := range s {
		if x >= width {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func joinInts(ns []int) string {
	if len(ns) == 0 {
		return "-"
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
