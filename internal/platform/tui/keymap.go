package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/quad/internal/core"
)

// KeyMap defines the key bindings forwarded to the loop.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
		// ctrl+c goes through the loop like esc so the run ends normally.
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// Translate maps a Bubble Tea key message to a backend-neutral key.
// Single printable characters come back as core.KeyRune with the rune set.
func (k KeyMap) Translate(msg tea.KeyMsg) (core.Key, rune) {
	switch {
	case key.Matches(msg, k.Quit):
		return core.KeyEscape, 0
	case key.Matches(msg, k.Up):
		return core.KeyUp, 0
	case key.Matches(msg, k.Down):
		return core.KeyDown, 0
	case key.Matches(msg, k.Left):
		return core.KeyLeft, 0
	case key.Matches(msg, k.Right):
		return core.KeyRight, 0
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		return core.KeyRune, msg.Runes[0]
	}
	return core.KeyUnknown, 0
}
