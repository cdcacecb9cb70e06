package core

// Key identifies a physical key reported by a window backend.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyRune // Printable key, see Event.Rune
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyRune:
		return "Rune"
	default:
		return "Unknown"
	}
}

// KeyState tells whether a key went down or came back up.
type KeyState int

const (
	KeyPressed KeyState = iota
	KeyReleased
)

// Event is a single keyboard event polled from a window.
type Event struct {
	Key   Key
	Rune  rune // Set when Key is KeyRune
	State KeyState
}

// KeyStroke expands one complete keystroke into its press and release events.
// Terminal backends only learn about a key once it has been typed, so they
// report both halves together.
func KeyStroke(k Key, r rune) [2]Event {
	return [2]Event{
		{Key: k, Rune: r, State: KeyPressed},
		{Key: k, Rune: r, State: KeyReleased},
	}
}
