package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/quad/internal/core"
)

func TestRenderScreenText(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.Clear(core.Background)
	s.Set(1, 0, '█', core.ColorBrightRed)
	s.Set(2, 0, '█', core.ColorBrightRed)
	s.DrawText(0, 1, "ok", core.ColorWhite)

	got := ansi.Strip(RenderScreen(s))
	want := " ██ \nok  "
	if got != want {
		t.Errorf("RenderScreen() = %q, want %q", got, want)
	}
}

func TestRenderScreenEmpty(t *testing.T) {
	if got := RenderScreen(core.NewScreen(0, 0)); got != "" {
		t.Errorf("RenderScreen(empty) = %q, want empty", got)
	}
}

func TestRenderScreenRowCount(t *testing.T) {
	s := core.NewScreen(10, 5)
	lines := strings.Split(ansi.Strip(RenderScreen(s)), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	for i, line := range lines {
		if len(line) != 10 {
			t.Errorf("line %d has width %d, want 10", i, len(line))
		}
	}
}
