// Package command turns window input into commands and applies them to the
// entity, one per executed frame.
package command

import "github.com/vovakirdan/quad/internal/core"

// Direction is one of the four axis-aligned movement directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}

// Delta returns the pixel offset of one step in this direction.
// Up and Down move along Y, which grows downwards.
func (d Direction) Delta(step int) core.Point {
	switch d {
	case Up:
		return core.Point{Y: -step}
	case Down:
		return core.Point{Y: step}
	case Left:
		return core.Point{X: -step}
	case Right:
		return core.Point{X: step}
	default:
		return core.Point{}
	}
}

// Kind tells the variants of Command apart.
type Kind int

const (
	KindQuit Kind = iota + 1
	KindMove
)

// Command is a queued intent derived from one input event.
// The zero value is not a valid command; use Quit or Move.
type Command struct {
	kind Kind
	dir  Direction
}

// Quit stops the frame loop.
func Quit() Command {
	return Command{kind: KindQuit}
}

// Move translates the entity one step.
func Move(d Direction) Command {
	return Command{kind: KindMove, dir: d}
}

// Kind returns the variant of the command.
func (c Command) Kind() Kind {
	return c.kind
}

// Direction returns the payload of a Move command.
func (c Command) Direction() Direction {
	return c.dir
}

// String returns a human-readable form such as "Move(Up)".
func (c Command) String() string {
	switch c.kind {
	case KindQuit:
		return "Quit"
	case KindMove:
		return "Move(" + c.dir.String() + ")"
	default:
		return "Invalid"
	}
}
