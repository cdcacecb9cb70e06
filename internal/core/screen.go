package core

import (
	"strings"
)

// Cell is a single character position on a Screen.
type Cell struct {
	Rune rune
	Fg   Color
	Bg   Color
}

var blank = Cell{Rune: ' '}

// Screen is a 2D cell buffer that frames are rasterized into.
// It decouples drawing from the terminal: backends only copy cells out.
type Screen struct {
	width  int
	height int
	bg     Color
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  Max(width, 0),
		height: Max(height, 0),
	}
	s.allocate()
	s.Clear(ColorDefault)
	return s
}

// allocate creates the underlying cell storage.
func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the screen dimensions. Content is discarded.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width = Max(width, 0)
	s.height = Max(height, 0)
	s.allocate()
	s.Clear(s.bg)
}

// Clear fills the entire screen with blank cells of the given background.
func (s *Screen) Clear(bg Color) {
	s.bg = bg
	c := blank
	c.Bg = bg
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = c
		}
	}
}

// Set places a rune at the given position, keeping the background.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune, fg Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Fg: fg, Bg: s.bg}
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return blank
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string, fg Color) {
	i := 0
	for _, r := range text {
		s.Set(x+i, y, r, fg)
		i++
	}
}

// DrawRect fills a rectangular area with the given rune.
func (s *Screen) DrawRect(r Rect, fill rune, fg Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.Set(x, y, fill, fg)
		}
	}
}

// DrawStrip rasterizes a triangle strip by its bounding box, which is exact
// for the axis-aligned quads drawn by the loop.
func (s *Screen) DrawStrip(vs []Vertex, fill Color) error {
	if len(vs) < 3 {
		return ErrShortStrip
	}
	s.DrawRect(s.stripRect(vs), '█', fill)
	return nil
}

// stripRect converts the unit-space bounding box of vs into cells.
// A box that is visible but thinner than a cell still covers one cell.
func (s *Screen) stripRect(vs []Vertex) Rect {
	minX, maxX := vs[0].X, vs[0].X
	minY, maxY := vs[0].Y, vs[0].Y
	for _, v := range vs[1:] {
		minX = min(minX, v.X)
		maxX = max(maxX, v.X)
		minY = min(minY, v.Y)
		maxY = max(maxY, v.Y)
	}

	left := UnitToCell(minX, s.width)
	right := UnitToCell(maxX, s.width)
	// Unit Y points up, rows count down.
	top := UnitToCell(-maxY, s.height)
	bottom := UnitToCell(-minY, s.height)

	if right <= left {
		right = left + 1
	}
	if bottom <= top {
		bottom = top + 1
	}
	return NewRect(left, top, right-left, bottom-top)
}

// String converts the screen buffer to plain text.
// Each row is joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}
