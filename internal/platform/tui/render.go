package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/quad/internal/core"
)

// cellStyle builds the lipgloss style for a foreground/background pair.
func cellStyle(fg, bg core.Color) lipgloss.Style {
	style := lipgloss.NewStyle()
	if code, ok := fg.ANSI(); ok {
		style = style.Foreground(lipgloss.Color(strconv.Itoa(int(code))))
	}
	if code, ok := bg.ANSI(); ok {
		style = style.Background(lipgloss.Color(strconv.Itoa(int(code))))
	}
	return style
}

type colorPair struct {
	fg, bg core.Color
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	styles := make(map[colorPair]lipgloss.Style)

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same colors
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			pair := colorPair{cell.Fg, cell.Bg}

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Fg != pair.fg || cell.Bg != pair.bg {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := styles[pair]
			if !ok {
				style = cellStyle(pair.fg, pair.bg)
				styles[pair] = style
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
