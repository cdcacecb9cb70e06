package app

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/quad/internal/command"
	"github.com/vovakirdan/quad/internal/config"
	"github.com/vovakirdan/quad/internal/core"
	"github.com/vovakirdan/quad/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// scriptedWindow releases its events once it has drawn `after` frames.
type scriptedWindow struct {
	events []core.Event
	after  int
	draws  int
	failAt int // Draw fails on this frame number when non-zero
	status []string
	screen *core.Screen
}

func newScriptedWindow(after int, keys ...core.Key) *scriptedWindow {
	w := &scriptedWindow{after: after, screen: core.NewScreen(64, 32)}
	for _, k := range keys {
		stroke := core.KeyStroke(k, 0)
		w.events = append(w.events, stroke[:]...)
	}
	return w
}

func (w *scriptedWindow) PollEvent() (core.Event, bool) {
	if w.draws < w.after || len(w.events) == 0 {
		return core.Event{}, false
	}
	ev := w.events[0]
	w.events = w.events[1:]
	return ev, true
}

func (w *scriptedWindow) Draw() (core.Frame, error) {
	w.draws++
	if w.failAt != 0 && w.draws == w.failAt {
		return nil, errors.New("surface lost")
	}
	return scriptedFrame{w.screen}, nil
}

func (w *scriptedWindow) SetStatus(s string) { w.status = append(w.status, s) }

type scriptedFrame struct {
	*core.Screen
}

func (scriptedFrame) Finish() error { return nil }

// fakeHistory records calls in memory.
type fakeHistory struct {
	startErr error
	started  bool
	backend  string
	interval time.Duration
	rates    []int
	finished bool
	frames   uint64
	skipped  uint64
	reason   string
}

func (h *fakeHistory) StartRun(backend string, _ float64, interval time.Duration) (int64, error) {
	if h.startErr != nil {
		return 0, h.startErr
	}
	h.started = true
	h.backend = backend
	h.interval = interval
	return 7, nil
}

func (h *fakeHistory) RecordRate(runID int64, fps int) error {
	if runID != 7 {
		return errors.New("unknown run")
	}
	h.rates = append(h.rates, fps)
	return nil
}

func (h *fakeHistory) FinishRun(runID int64, frames, skipped uint64, reason string) error {
	if runID != 7 {
		return errors.New("unknown run")
	}
	h.finished = true
	h.frames = frames
	h.skipped = skipped
	h.reason = reason
	return nil
}

type fakeCue struct {
	played []command.Direction
}

func (c *fakeCue) Play(d command.Direction) { c.played = append(c.played, d) }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.WindowWidth = 640
	cfg.WindowHeight = 480
	cfg.FrameRate = 60
	return cfg
}

func TestSessionMoveThenQuit(t *testing.T) {
	w := newScriptedWindow(0, core.KeyRight, core.KeyEscape)
	h := &fakeHistory{}
	cue := &fakeCue{}

	s := NewSession(testConfig(), w,
		WithClock(newFakeClock()),
		WithHistory(h),
		WithCue(cue),
	)
	if err := s.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if got := s.Quad().Position(); got != (core.Point{X: 42, Y: 10}) {
		t.Errorf("quad position = %+v, want {42 10}", got)
	}
	if len(cue.played) != 1 || cue.played[0] != command.Right {
		t.Errorf("cue played %v, want [Right]", cue.played)
	}

	// Press, release, press, release: the fourth frame quits.
	stats := s.Stats()
	if stats.Executed != 3 || stats.Skipped != 4 {
		t.Errorf("executed/skipped = %d/%d, want 3/4", stats.Executed, stats.Skipped)
	}
	if w.draws != 4 {
		t.Errorf("frames drawn = %d, want 4 (the quit frame still renders)", w.draws)
	}

	if !h.started || h.backend != config.BackendTea || h.interval != 16*time.Millisecond {
		t.Errorf("StartRun recorded backend %q interval %v", h.backend, h.interval)
	}
	if !h.finished || h.reason != storage.EndQuit || h.frames != 3 || h.skipped != 4 {
		t.Errorf("FinishRun = %+v", h)
	}
}

func TestSessionReportsRate(t *testing.T) {
	// Quit only after a full second of frames.
	w := newScriptedWindow(70, core.KeyEscape)
	h := &fakeHistory{}

	s := NewSession(testConfig(), w, WithClock(newFakeClock()), WithHistory(h))
	if err := s.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if len(h.rates) != 1 || h.rates[0] != 63 {
		t.Errorf("recorded rates = %v, want [63]", h.rates)
	}
	if len(w.status) != 2 || w.status[0] != "FPS: -" || w.status[1] != "FPS: 63" {
		t.Errorf("status updates = %v, want [FPS: - FPS: 63]", w.status)
	}
	if got := s.Stats().Executed; got != 71 {
		t.Errorf("executed = %d, want 71", got)
	}
}

func TestSessionRenderFailure(t *testing.T) {
	w := newScriptedWindow(0)
	w.failAt = 3
	h := &fakeHistory{}

	s := NewSession(testConfig(), w, WithClock(newFakeClock()), WithHistory(h))
	err := s.Run()
	if err == nil {
		t.Fatal("Run() = nil, want render error")
	}
	if h.reason != storage.EndRenderFailure {
		t.Errorf("end reason = %q, want %q", h.reason, storage.EndRenderFailure)
	}
	if h.frames != 2 {
		t.Errorf("frames = %d, want 2", h.frames)
	}
}

func TestSessionWithoutHistory(t *testing.T) {
	w := newScriptedWindow(0, core.KeyEscape)
	h := &fakeHistory{startErr: errors.New("read-only")}

	s := NewSession(testConfig(), w, WithClock(newFakeClock()), WithHistory(h))
	if err := s.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if h.finished {
		t.Error("FinishRun called for a run that never started")
	}
}

func TestSessionBackendOverride(t *testing.T) {
	w := newScriptedWindow(0, core.KeyEscape)
	h := &fakeHistory{}

	s := NewSession(testConfig(), w, WithClock(newFakeClock()), WithHistory(h), WithBackend("ssh"))
	if err := s.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if h.backend != "ssh" {
		t.Errorf("backend = %q, want ssh", h.backend)
	}
}

func TestSessionInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero rate", func(c *config.Config) { c.FrameRate = 0 }},
		{"too fast", func(c *config.Config) { c.FrameRate = 2000 }},
		{"bad policy", func(c *config.Config) { c.QueuePolicy = "random" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			w := newScriptedWindow(0)

			if err := NewSession(cfg, w, WithClock(newFakeClock())).Run(); err == nil {
				t.Error("Run() = nil, want error")
			}
			if w.draws != 0 {
				t.Errorf("drew %d frames before failing", w.draws)
			}
		})
	}
}
