// Package loop drives the frame loop at a fixed cadence.
//
// A Scheduler owns the calling goroutine for as long as Run is active. On every
// iteration it either sleeps until the frame interval has passed since the last
// executed frame, or it runs the frame body. Frames that run late are not
// compensated for.
package loop

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// ErrInvalidFrameRate is returned for rates that do not give a positive interval.
var ErrInvalidFrameRate = errors.New("loop: invalid frame rate")

// Body is run once per executed frame with the time since the previous one.
// Returning false stops the loop.
type Body func(elapsed time.Duration) bool

// Stats is a snapshot of scheduler counters.
type Stats struct {
	Interval   time.Duration
	Executed   uint64 // Frames whose body returned true
	Skipped    uint64 // Iterations that slept instead of running the body
	FrameCount int    // Frames in the current one-second window
	LastRate   int    // Most recently reported frames per second
}

// Scheduler throttles a frame body to a target rate and measures the rate achieved.
type Scheduler struct {
	clock    Clock
	logger   *log.Logger
	reporter func(fps int)

	interval        time.Duration
	previousInstant time.Time // Last executed frame
	previousSecond  time.Time // Start of the current rate window
	frameCount      int

	executed uint64
	skipped  uint64
	lastRate int

	running atomic.Bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock, typically with a fake in tests.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithLogger sets the logger rate reports are written to.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithRateReporter registers a callback that receives each per-second frame count.
func WithRateReporter(fn func(fps int)) Option {
	return func(s *Scheduler) {
		s.reporter = fn
	}
}

// FrameInterval converts a target rate into the frame interval, truncated to
// whole milliseconds: 60 fps gives 16ms, not 16.67ms.
func FrameInterval(targetFPS float64) (time.Duration, error) {
	if math.IsNaN(targetFPS) || math.IsInf(targetFPS, 0) || targetFPS <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFrameRate, targetFPS)
	}
	ms := math.Floor(1000 / targetFPS)
	if ms < 1 {
		return 0, fmt.Errorf("%w: %v fps is below 1ms per frame", ErrInvalidFrameRate, targetFPS)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// New creates a scheduler for the target rate. Timing starts at construction.
func New(targetFPS float64, opts ...Option) (*Scheduler, error) {
	interval, err := FrameInterval(targetFPS)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		clock:    wallClock{},
		logger:   log.New(io.Discard),
		interval: interval,
	}
	for _, opt := range opts {
		opt(s)
	}

	now := s.clock.Now()
	s.previousInstant = now
	s.previousSecond = now
	return s, nil
}

// Interval returns the fixed frame interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run drives body until it returns false. It must not be called again while
// running; doing so panics.
func (s *Scheduler) Run(body Body) {
	if !s.running.CompareAndSwap(false, true) {
		panic("loop: Run called on a scheduler that is already running")
	}
	defer s.running.Store(false)

	for s.iterate(body) != outcomeStop {
	}
}

type outcome int

const (
	outcomeSkip outcome = iota
	outcomeRun
	outcomeStop
)

// iterate performs one pass of the loop.
func (s *Scheduler) iterate(body Body) outcome {
	now := s.clock.Now()
	delta := now.Sub(s.previousInstant)

	if delta < s.interval {
		s.skipped++
		s.clock.Sleep(s.interval - delta)
		return outcomeSkip
	}

	if !body(delta) {
		return outcomeStop
	}

	s.previousInstant = now
	s.executed++
	s.updateRate(now)
	return outcomeRun
}

// updateRate counts an executed frame and reports once a second has passed.
func (s *Scheduler) updateRate(now time.Time) {
	s.frameCount++
	if now.Sub(s.previousSecond) < time.Second {
		return
	}

	s.lastRate = s.frameCount
	s.logger.Info("frame rate", "fps", s.frameCount)
	if s.reporter != nil {
		s.reporter(s.frameCount)
	}
	s.frameCount = 0
	s.previousSecond = now
}

// Stats returns the current counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Interval:   s.interval,
		Executed:   s.executed,
		Skipped:    s.skipped,
		FrameCount: s.frameCount,
		LastRate:   s.lastRate,
	}
}
