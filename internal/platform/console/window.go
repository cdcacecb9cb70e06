// Package console draws the loop straight onto the terminal with tcell.
package console

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/quad/internal/core"
)

// ErrWindowClosed is returned by Draw and Finish once the window was closed.
var ErrWindowClosed = errors.New("console: window closed")

const (
	eventBuffer = 64
	hudRows     = 1
)

var hudStyle = tcell.StyleDefault.Reverse(true).Bold(true)

// Window is a core.Window that owns a tcell screen.
type Window struct {
	title  string
	screen tcell.Screen
	events chan core.Event
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	status string

	canvas *core.Screen
}

// NewWindow initializes the terminal and returns a window on it.
func NewWindow(title string) (*Window, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("console: cannot create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("console: cannot init screen: %w", err)
	}
	return NewWindowWithScreen(title, screen), nil
}

// NewWindowWithScreen wraps an initialized screen. The window starts reading
// its events immediately and finalizes it on Close.
func NewWindowWithScreen(title string, screen tcell.Screen) *Window {
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()

	cols, rows := screen.Size()
	w := &Window{
		title:  title,
		screen: screen,
		events: make(chan core.Event, eventBuffer),
		done:   make(chan struct{}),
		canvas: core.NewScreen(cols, core.Max(rows-hudRows, 0)),
	}
	go w.pollLoop()
	return w
}

// pollLoop forwards key events until the screen is finalized.
func (w *Window) pollLoop() {
	for {
		ev := w.screen.PollEvent()
		if ev == nil {
			return
		}

		kev, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		k, r := translate(kev)
		if k == core.KeyUnknown {
			continue
		}
		for _, e := range core.KeyStroke(k, r) {
			select {
			case w.events <- e:
			case <-w.done:
				return
			default:
			}
		}
	}
}

// translate maps a tcell key event to a backend-neutral key.
func translate(ev *tcell.EventKey) (core.Key, rune) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return core.KeyEscape, 0
	case tcell.KeyUp:
		return core.KeyUp, 0
	case tcell.KeyDown:
		return core.KeyDown, 0
	case tcell.KeyLeft:
		return core.KeyLeft, 0
	case tcell.KeyRight:
		return core.KeyRight, 0
	case tcell.KeyRune:
		return core.KeyRune, ev.Rune()
	default:
		return core.KeyUnknown, 0
	}
}

// PollEvent returns the next pending key event without blocking.
func (w *Window) PollEvent() (core.Event, bool) {
	select {
	case ev := <-w.events:
		return ev, true
	default:
		return core.Event{}, false
	}
}

// Draw begins a frame sized to the current terminal.
func (w *Window) Draw() (core.Frame, error) {
	if w.closed() {
		return nil, ErrWindowClosed
	}

	cols, rows := w.screen.Size()
	w.canvas.Resize(cols, core.Max(rows-hudRows, 0))
	return &frame{Screen: w.canvas, window: w}, nil
}

// SetStatus replaces the text shown next to the title.
func (w *Window) SetStatus(status string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
}

// Close restores the terminal. It is safe to call more than once.
func (w *Window) Close() {
	w.once.Do(func() {
		close(w.done)
		w.screen.Fini()
	})
}

func (w *Window) closed() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// present copies the canvas below the title bar and shows it.
func (w *Window) present(canvas *core.Screen) {
	w.mu.Lock()
	status := w.status
	w.mu.Unlock()

	cols, _ := w.screen.Size()
	bar := []rune(fmt.Sprintf(" %s  %s", w.title, status))
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(bar) {
			r = bar[x]
		}
		w.screen.SetContent(x, 0, r, nil, hudStyle)
	}

	for y := 0; y < canvas.Height(); y++ {
		for x := 0; x < canvas.Width(); x++ {
			cell := canvas.GetCell(x, y)
			style := tcell.StyleDefault.
				Foreground(paletteColor(cell.Fg)).
				Background(paletteColor(cell.Bg))
			w.screen.SetContent(x, y+hudRows, cell.Rune, nil, style)
		}
	}
	w.screen.Show()
}

// paletteColor converts a core color to the terminal palette.
func paletteColor(c core.Color) tcell.Color {
	code, ok := c.ANSI()
	if !ok {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(int(code))
}

// frame is one frame drawn onto the window's canvas.
type frame struct {
	*core.Screen
	window *Window
}

// Finish presents the frame on the terminal.
func (f *frame) Finish() error {
	if f.window.closed() {
		return ErrWindowClosed
	}
	f.window.present(f.Screen)
	return nil
}
