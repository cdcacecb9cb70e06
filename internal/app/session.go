// Package app assembles one run of the loop: queue, quad, pipeline and
// scheduler around a window, with optional run history and sound.
package app

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/quad/internal/command"
	"github.com/vovakirdan/quad/internal/config"
	"github.com/vovakirdan/quad/internal/core"
	"github.com/vovakirdan/quad/internal/entity"
	"github.com/vovakirdan/quad/internal/loop"
	"github.com/vovakirdan/quad/internal/storage"
)

// Initial quad geometry in window pixels.
var (
	quadOrigin = core.Point{X: 10, Y: 10}
	quadSize   = core.Size{W: 50, H: 50}
)

// History records runs. *storage.Store implements it.
type History interface {
	StartRun(backend string, frameRate float64, interval time.Duration) (int64, error)
	RecordRate(runID int64, fps int) error
	FinishRun(runID int64, frames, skipped uint64, reason string) error
}

// Cue is told about every applied move. *audio.Cue implements it.
type Cue interface {
	Play(d command.Direction)
}

// StatusSetter is implemented by windows that can show the measured rate.
type StatusSetter interface {
	SetStatus(status string)
}

// Session is a single run of the loop on one window.
type Session struct {
	cfg     config.Config
	window  core.Window
	backend string
	logger  *log.Logger
	history History
	cue     Cue
	clock   loop.Clock

	quad  *entity.Quad
	stats loop.Stats
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger shared by the scheduler and pipeline.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithHistory records the run and its frame rate samples.
func WithHistory(h History) Option {
	return func(s *Session) {
		s.history = h
	}
}

// WithCue plays a sound for each applied move.
func WithCue(c Cue) Option {
	return func(s *Session) {
		s.cue = c
	}
}

// WithClock replaces the scheduler's wall clock.
func WithClock(c loop.Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithBackend overrides the backend name recorded in the history.
func WithBackend(name string) Option {
	return func(s *Session) {
		s.backend = name
	}
}

// NewSession prepares a run of cfg on window.
func NewSession(cfg config.Config, window core.Window, opts ...Option) *Session {
	s := &Session{
		cfg:     cfg,
		window:  window,
		backend: cfg.Backend,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the loop on the calling goroutine until a quit command or a
// render failure. A render failure is returned; quitting returns nil.
func (s *Session) Run() error {
	policy, err := command.ParsePolicy(s.cfg.QueuePolicy)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	queue := command.NewQueue(policy, s.cfg.QueueLimit)

	bounds := core.Bounds{Width: s.cfg.WindowWidth, Height: s.cfg.WindowHeight}
	s.quad = entity.NewQuad(bounds, quadOrigin, quadSize)

	pipeOpts := []command.PipelineOption{command.WithLogger(s.logger)}
	if s.cue != nil {
		pipeOpts = append(pipeOpts, command.WithMoveHook(s.cue.Play))
	}
	pipeline := command.NewPipeline(s.window, s.quad, queue, pipeOpts...)

	var runID int64
	recording := false

	schedOpts := []loop.Option{
		loop.WithLogger(s.logger),
		loop.WithRateReporter(func(fps int) {
			s.setStatus(fmt.Sprintf("FPS: %d", fps))
			if recording {
				if err := s.history.RecordRate(runID, fps); err != nil {
					s.logger.Warn("could not record frame rate", "error", err)
				}
			}
		}),
	}
	if s.clock != nil {
		schedOpts = append(schedOpts, loop.WithClock(s.clock))
	}
	sched, err := loop.New(s.cfg.FrameRate, schedOpts...)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}

	if s.history != nil {
		id, err := s.history.StartRun(s.backend, s.cfg.FrameRate, sched.Interval())
		if err != nil {
			s.logger.Warn("run history disabled", "error", err)
		} else {
			runID = id
			recording = true
		}
	}

	s.logger.Info("loop started",
		"backend", s.backend,
		"fps", s.cfg.FrameRate,
		"interval", sched.Interval(),
		"policy", policy,
	)
	s.setStatus("FPS: -")

	sched.Run(pipeline.Frame)
	s.stats = sched.Stats()

	reason := storage.EndQuit
	if pipeline.Err() != nil {
		reason = storage.EndRenderFailure
	}
	s.logger.Info("loop stopped",
		"reason", reason,
		"frames", s.stats.Executed,
		"skipped", s.stats.Skipped,
		"dropped", queue.Dropped(),
	)

	if recording {
		if err := s.history.FinishRun(runID, s.stats.Executed, s.stats.Skipped, reason); err != nil {
			s.logger.Warn("could not finish run", "error", err)
		}
	}

	return pipeline.Err()
}

// Quad returns the session's entity. It is nil until Run starts.
func (s *Session) Quad() *entity.Quad {
	return s.quad
}

// Stats returns the scheduler counters of the finished run.
func (s *Session) Stats() loop.Stats {
	return s.stats
}

func (s *Session) setStatus(status string) {
	if w, ok := s.window.(StatusSetter); ok {
		w.SetStatus(status)
	}
}
