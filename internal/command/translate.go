package command

import "github.com/vovakirdan/quad/internal/core"

// keyCommands is the fixed key binding table.
var keyCommands = map[core.Key]Command{
	core.KeyEscape: Quit(),
	core.KeyUp:     Move(Up),
	core.KeyDown:   Move(Down),
	core.KeyLeft:   Move(Left),
	core.KeyRight:  Move(Right),
}

// Translate maps a key release to a command. Presses and unbound keys yield nothing.
func Translate(ev core.Event) (Command, bool) {
	if ev.State != core.KeyReleased {
		return Command{}, false
	}
	c, ok := keyCommands[ev.Key]
	return c, ok
}
