package core

import "errors"

// ErrShortStrip is returned when a triangle strip has fewer than three vertices.
var ErrShortStrip = errors.New("core: triangle strip needs at least 3 vertices")

// Vertex is a position in unit space: both axes run from -1 to 1 and Y grows upwards.
type Vertex struct {
	X, Y float32
}

// Target is anything a frame can be drawn onto.
type Target interface {
	// Clear fills the whole target with the background color.
	Clear(bg Color)

	// DrawStrip fills the area covered by a triangle strip.
	DrawStrip(vs []Vertex, fill Color) error
}

// Frame is a target that is shown once finished.
type Frame interface {
	Target

	// Finish presents the frame. A frame must not be used afterwards.
	Finish() error
}

// Window is the display collaborator of the loop.
type Window interface {
	// PollEvent returns the next pending input event without blocking.
	PollEvent() (Event, bool)

	// Draw begins a new frame.
	Draw() (Frame, error)
}
