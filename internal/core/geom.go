// Package core provides fundamental types shared by the loop, the command
// pipeline and the window backends. It has no external dependencies so the
// simulation stays pure and testable.
package core

import "math"

// Point is a position in pixel space. Y grows downwards.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

// Bounds describes the pixel dimensions of a window.
type Bounds struct {
	Width, Height int
}

// Rect represents an axis-aligned box.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// PixelToUnit maps a pixel coordinate onto the [-1, 1] unit range of a
// dimension that is bound pixels long. Values outside the window map
// outside the range.
func PixelToUnit(pixel, bound int) float32 {
	origin := float32(bound) / 2
	return (float32(pixel) - origin) / origin
}

// UnitToCell maps a unit coordinate onto a cell index of a dimension that is
// cells long. -1 maps to 0 and 1 maps to cells.
func UnitToCell(unit float32, cells int) int {
	return int(math.Floor(float64((unit + 1) / 2 * float32(cells))))
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
