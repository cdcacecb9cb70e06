// Package tui presents the loop through Bubble Tea.
// The loop goroutine owns the Window; the Bubble Tea program reads from it
// through Model, so neither side ever blocks on the other.
package tui

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/quad/internal/core"
)

// ErrWindowClosed is returned by Draw and Finish once the window was closed.
var ErrWindowClosed = errors.New("tui: window closed")

const (
	eventBuffer = 64
	hudRows     = 1
)

var (
	hudTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	hudStatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
)

// Window is a core.Window backed by a Bubble Tea program.
type Window struct {
	title  string
	keys   KeyMap
	help   help.Model
	events chan core.Event
	frames chan string
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	cols   int
	rows   int
	status string

	// Owned by the loop goroutine.
	canvas *core.Screen
}

// NewWindow creates a window for a terminal of cols x rows cells.
// The top row holds the title bar; the rest is the drawing area.
func NewWindow(title string, cols, rows int) *Window {
	h := help.New()
	h.ShowAll = false

	return &Window{
		title:  title,
		keys:   DefaultKeyMap(),
		help:   h,
		events: make(chan core.Event, eventBuffer),
		frames: make(chan string, 1),
		done:   make(chan struct{}),
		cols:   cols,
		rows:   rows,
		canvas: core.NewScreen(cols, core.Max(rows-hudRows, 0)),
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

	cols, rows := w.Size()
	w.canvas.Resize(cols, core.Max(rows-hudRows, 0))
	return &frame{Screen: w.canvas, window: w}, nil
}

// SetStatus replaces the text shown next to the title, typically the frame rate.
func (w *Window) SetStatus(status string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
}

// Size returns the terminal size in cells.
func (w *Window) Size() (cols, rows int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cols, w.rows
}

// Close stops the Bubble Tea program. It is safe to call more than once.
func (w *Window) Close() {
	w.once.Do(func() {
		close(w.done)
	})
}

// Model returns the Bubble Tea model that displays this window.
func (w *Window) Model() tea.Model {
	return model{window: w}
}

func (w *Window) closed() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func (w *Window) resize(cols, rows int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cols = cols
	w.rows = rows
}

// push queues both halves of a keystroke. Events beyond the buffer are dropped.
func (w *Window) push(k core.Key, r rune) {
	for _, ev := range core.KeyStroke(k, r) {
		select {
		case w.events <- ev:
		default:
		}
	}
}

// present hands a rendered frame to the program, replacing one not yet shown.
func (w *Window) present(view string) {
	select {
	case w.frames <- view:
		return
	default:
	}

	select {
	case <-w.frames:
	default:
	}

	select {
	case w.frames <- view:
	default:
	}
}

// hud renders the title bar.
func (w *Window) hud() string {
	w.mu.Lock()
	status := w.status
	cols := w.cols
	w.mu.Unlock()

	bar := lipgloss.JoinHorizontal(lipgloss.Top,
		hudTitleStyle.Render(w.title),
		hudStatusStyle.Render(status),
		w.help.ShortHelpView(w.keys.ShortHelp()),
	)
	return lipgloss.NewStyle().MaxWidth(cols).Render(bar)
}

// frame is one frame drawn onto the window's canvas.
type frame struct {
	*core.Screen
	window *Window
}

// Finish renders the canvas below the title bar and presents it.
func (f *frame) Finish() error {
	if f.window.closed() {
		return ErrWindowClosed
	}
	f.window.present(fmt.Sprintf("%s\n%s", f.window.hud(), RenderScreen(f.Screen)))
	return nil
}

// Bubble Tea messages.
type (
	frameMsg  string
	closedMsg struct{}
)

// model is the Bubble Tea side of a Window.
type model struct {
	window *Window
	view   string
}

// Init sets the terminal title and starts waiting for frames.
func (m model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(m.window.title), m.waitForFrame)
}

// waitForFrame blocks until the loop presents a frame or the window closes.
func (m model) waitForFrame() tea.Msg {
	select {
	case view := <-m.window.frames:
		return frameMsg(view)
	case <-m.window.done:
		return closedMsg{}
	}
}

// Update handles messages and updates the model state.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		k, r := m.window.keys.Translate(msg)
		if k != core.KeyUnknown {
			m.window.push(k, r)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.window.resize(msg.Width, msg.Height)
		return m, nil

	case frameMsg:
		m.view = string(msg)
		return m, m.waitForFrame

	case closedMsg:
		return m, tea.Quit
	}

	return m, nil
}

// View renders the last presented frame.
func (m model) View() string {
	return m.view
}
