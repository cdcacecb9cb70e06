// Package entity provides the single movable shape drawn by the loop.
package entity

import (
	"github.com/vovakirdan/quad/internal/command"
	"github.com/vovakirdan/quad/internal/core"
)

// Step is how far one move shifts a quad, in pixels.
const Step = 32

// Quad is an axis-aligned rectangle positioned in window pixel space.
// Its vertices are kept in unit space, ready to draw as a triangle strip.
type Quad struct {
	bounds   core.Bounds
	origin   core.Point // Top-left corner
	size     core.Size
	color    core.Color
	vertices [4]core.Vertex
}

// NewQuad creates a red quad at origin inside a window of the given bounds.
func NewQuad(bounds core.Bounds, origin core.Point, size core.Size) *Quad {
	q := &Quad{
		bounds: bounds,
		origin: origin,
		size:   size,
		color:  core.ColorBrightRed,
	}
	q.rebuild()
	return q
}

// Translate moves the quad one step. Moves are not clamped to the window.
func (q *Quad) Translate(d command.Direction) {
	q.origin = q.origin.Add(d.Delta(Step))
	q.rebuild()
}

// Render draws the quad onto t.
func (q *Quad) Render(t core.Target) error {
	return t.DrawStrip(q.vertices[:], q.color)
}

// Position returns the top-left corner in pixels.
func (q *Quad) Position() core.Point {
	return q.origin
}

// Vertices returns a copy of the current strip.
func (q *Quad) Vertices() []core.Vertex {
	vs := q.vertices
	return vs[:]
}

// rebuild regenerates the strip from the pixel rectangle. Pixel Y is flipped
// against the window height because unit Y grows upwards.
func (q *Quad) rebuild() {
	w, h := q.bounds.Width, q.bounds.Height
	left := core.PixelToUnit(q.origin.X, w)
	right := core.PixelToUnit(q.origin.X+q.size.W, w)
	top := core.PixelToUnit(h-q.origin.Y, h)
	bottom := core.PixelToUnit(h-q.origin.Y-q.size.H, h)

	q.vertices = [4]core.Vertex{
		{X: left, Y: top},
		{X: right, Y: top},
		{X: left, Y: bottom},
		{X: right, Y: bottom},
	}
}
