package loop

import (
	"errors"
	"math"
	"testing"
	"time"
)

// fakeClock only moves when told to. Sleep advances it by the requested amount.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestFrameInterval(t *testing.T) {
	tests := []struct {
		fps      float64
		expected time.Duration
	}{
		{60.0, 16 * time.Millisecond},
		{30.0, 33 * time.Millisecond},
		{24.0, 41 * time.Millisecond},
		{144.0, 6 * time.Millisecond},
		{59.9, 16 * time.Millisecond},
		{1000.0, 1 * time.Millisecond},
		{0.5, 2000 * time.Millisecond},
	}

	for _, tc := range tests {
		got, err := FrameInterval(tc.fps)
		if err != nil {
			t.Errorf("FrameInterval(%v) failed: %v", tc.fps, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("FrameInterval(%v) = %v, expected %v", tc.fps, got, tc.expected)
		}
	}
}

func TestNewRejectsInvalidRates(t *testing.T) {
	for _, fps := range []float64{0, -1, -60, 1001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		s, err := New(fps)
		if !errors.Is(err, ErrInvalidFrameRate) {
			t.Errorf("New(%v) error = %v, expected ErrInvalidFrameRate", fps, err)
		}
		if s != nil {
			t.Errorf("New(%v) returned a scheduler alongside an error", fps)
		}
	}
}

func TestRunThrottlesToInterval(t *testing.T) {
	clock := newFakeClock()
	s, err := New(60, WithClock(clock))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	var elapsed []time.Duration
	s.Run(func(d time.Duration) bool {
		elapsed = append(elapsed, d)
		return len(elapsed) < 3
	})

	if len(elapsed) != 3 {
		t.Fatalf("body ran %d times, expected 3", len(elapsed))
	}
	for i, d := range elapsed {
		if d != 16*time.Millisecond {
			t.Errorf("frame %d elapsed = %v, expected 16ms", i, d)
		}
	}
	if len(clock.sleeps) != 3 {
		t.Errorf("slept %d times, expected 3", len(clock.sleeps))
	}
	for i, d := range clock.sleeps {
		if d != 16*time.Millisecond {
			t.Errorf("sleep %d = %v, expected 16ms", i, d)
		}
	}
}

func TestRunNeverRunsEarly(t *testing.T) {
	clock := newFakeClock()
	s, err := New(30, WithClock(clock))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	var stamps []time.Time
	s.Run(func(time.Duration) bool {
		stamps = append(stamps, clock.Now())
		// Uneven body cost, sometimes longer than the interval
		clock.Advance(time.Duration(len(stamps)%4) * 12 * time.Millisecond)
		return len(stamps) < 20
	})

	for i := 1; i < len(stamps); i++ {
		if gap := stamps[i].Sub(stamps[i-1]); gap < s.Interval() {
			t.Errorf("frames %d and %d are %v apart, less than %v", i-1, i, gap, s.Interval())
		}
	}
}

func TestSlowBodyIsNotCompensated(t *testing.T) {
	clock := newFakeClock()
	s, err := New(60, WithClock(clock))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	var elapsed []time.Duration
	s.Run(func(d time.Duration) bool {
		elapsed = append(elapsed, d)
		clock.Advance(40 * time.Millisecond)
		return len(elapsed) < 3
	})

	expected := []time.Duration{16 * time.Millisecond, 40 * time.Millisecond, 40 * time.Millisecond}
	for i, d := range expected {
		if elapsed[i] != d {
			t.Errorf("frame %d elapsed = %v, expected %v", i, elapsed[i], d)
		}
	}
	// Only the very first frame had to wait
	if len(clock.sleeps) != 1 {
		t.Errorf("slept %d times, expected 1: %v", len(clock.sleeps), clock.sleeps)
	}
}

func TestSkipLeavesStateUntouched(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	s, err := New(60, WithClock(clock))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	clock.Advance(5 * time.Millisecond)
	called := false
	got := s.iterate(func(time.Duration) bool {
		called = true
		return true
	})

	if got != outcomeSkip {
		t.Fatalf("iterate() = %v, expected skip", got)
	}
	if called {
		t.Error("body must not run on a skipped iteration")
	}
	if !s.previousInstant.Equal(start) {
		t.Errorf("previousInstant moved on skip: %v", s.previousInstant.Sub(start))
	}
	if s.frameCount != 0 || s.executed != 0 {
		t.Errorf("frame counters changed on skip: frameCount=%d executed=%d", s.frameCount, s.executed)
	}
	if len(clock.sleeps) != 1 || clock.sleeps[0] != 11*time.Millisecond {
		t.Errorf("sleeps = %v, expected [11ms]", clock.sleeps)
	}
	if s.Stats().Skipped != 1 {
		t.Errorf("Stats().Skipped = %d, expected 1", s.Stats().Skipped)
	}
}

func TestStoppingFrameIsNotCounted(t *testing.T) {
	clock := newFakeClock()
	s, err := New(60, WithClock(clock))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	calls := 0
	s.Run(func(time.Duration) bool {
		calls++
		return calls < 5
	})

	stats := s.Stats()
	if stats.Executed != 4 {
		t.Errorf("Executed = %d, expected 4", stats.Executed)
	}
	if stats.FrameCount != 4 {
		t.Errorf("FrameCount = %d, expected 4", stats.FrameCount)
	}
	// previousInstant stays at the last frame that returned true
	if got := s.previousInstant.Sub(clock.Now()); got != -16*time.Millisecond {
		t.Errorf("previousInstant is %v from now, expected -16ms", got)
	}
}

func TestRateReportedOncePerSecond(t *testing.T) {
	clock := newFakeClock()
	var reports []int
	s, err := New(60, WithClock(clock), WithRateReporter(func(fps int) {
		reports = append(reports, fps)
	}))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	frames := 0
	s.Run(func(time.Duration) bool {
		frames++
		return frames <= 130
	})

	// Frame k runs at k*16ms; the window closes at frame 63 (1008ms) and
	// again at frame 126 (2016ms).
	if len(reports) != 2 {
		t.Fatalf("got %d reports %v, expected 2", len(reports), reports)
	}
	for i, fps := range reports {
		if fps != 63 {
			t.Errorf("report %d = %d, expected 63", i, fps)
		}
	}

	stats := s.Stats()
	if stats.LastRate != 63 {
		t.Errorf("LastRate = %d, expected 63", stats.LastRate)
	}
	if stats.FrameCount != 4 {
		t.Errorf("FrameCount = %d, expected 4 frames into the third window", stats.FrameCount)
	}
}

func TestRunIsNotReentrant(t *testing.T) {
	clock := newFakeClock()
	s, err := New(60, WithClock(clock))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	panicked := false
	s.Run(func(time.Duration) bool {
		defer func() {
			if recover() != nil {
				panicked = true
			}
		}()
		s.Run(func(time.Duration) bool { return false })
		return false
	})

	if !panicked {
		t.Error("nested Run should panic")
	}

	// The scheduler is usable again once the outer Run returned
	ran := false
	s.Run(func(time.Duration) bool {
		ran = true
		return false
	})
	if !ran {
		t.Error("Run should work after the previous call returned")
	}
}
