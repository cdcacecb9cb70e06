package core

// Color represents a cell color.
// Values map onto the ANSI 256-color palette for terminal compatibility.
type Color uint8

// Predefined colors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorCharcoal
)

// Background is the color every frame is cleared to before drawing.
const Background = ColorCharcoal

var ansiCodes = [...]uint8{
	ColorDefault:       0,
	ColorRed:           1,
	ColorGreen:         2,
	ColorYellow:        3,
	ColorBlue:          4,
	ColorMagenta:       5,
	ColorCyan:          6,
	ColorWhite:         7,
	ColorBrightRed:     9,
	ColorBrightGreen:   10,
	ColorBrightYellow:  11,
	ColorBrightBlue:    12,
	ColorBrightMagenta: 13,
	ColorBrightCyan:    14,
	ColorBrightWhite:   15,
	ColorOrange:        208,
	ColorGray:          245,
	ColorCharcoal:      234,
}

// ANSI returns the palette index for the color.
// ColorDefault and unknown colors report false.
func (c Color) ANSI() (uint8, bool) {
	if c == ColorDefault || int(c) >= len(ansiCodes) {
		return 0, false
	}
	return ansiCodes[c], true
}
