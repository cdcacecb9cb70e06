package command

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/quad/internal/core"
)

// Entity is the renderable the pipeline moves and draws.
type Entity interface {
	// Translate moves the entity one step and refreshes its geometry.
	Translate(d Direction)

	// Render draws the entity's current geometry.
	Render(t core.Target) error
}

// Pipeline runs the per-frame sequence: poll one event, apply one command, render.
type Pipeline struct {
	window     core.Window
	entity     Entity
	queue      *Queue
	background core.Color
	logger     *log.Logger
	onMove     func(Direction)

	frames uint64
	err    error
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(l *log.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithBackground overrides the color frames are cleared to.
func WithBackground(c core.Color) PipelineOption {
	return func(p *Pipeline) {
		p.background = c
	}
}

// WithMoveHook registers a callback run after each applied move.
func WithMoveHook(fn func(Direction)) PipelineOption {
	return func(p *Pipeline) {
		p.onMove = fn
	}
}

// NewPipeline wires a window, an entity and a command queue together.
func NewPipeline(w core.Window, e Entity, q *Queue, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		window:     w,
		entity:     e,
		queue:      q,
		background: core.Background,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Frame executes one frame. It returns false once a Quit command was applied
// or rendering failed; Err tells the two apart.
func (p *Pipeline) Frame(_ time.Duration) bool {
	p.frames++

	p.pollInput()
	running := p.dispatch()

	if err := p.render(); err != nil {
		p.err = err
		p.logger.Error("render failed", "frame", p.frames, "err", err)
		return false
	}
	return running
}

// pollInput consumes at most one pending event, even if more are waiting.
func (p *Pipeline) pollInput() {
	ev, ok := p.window.PollEvent()
	if !ok {
		return
	}
	cmd, ok := Translate(ev)
	if !ok {
		return
	}
	if p.queue.Push(cmd) {
		p.logger.Debug("queue full, oldest command dropped", "pending", p.queue.Len())
	}
}

// dispatch applies one queued command. An empty queue is a no-op.
func (p *Pipeline) dispatch() bool {
	cmd, ok := p.queue.Pop()
	if !ok {
		return true
	}

	switch cmd.Kind() {
	case KindQuit:
		p.logger.Info("quit requested", "frame", p.frames, "pending", p.queue.Len())
		return false
	case KindMove:
		p.entity.Translate(cmd.Direction())
		if p.onMove != nil {
			p.onMove(cmd.Direction())
		}
	}
	return true
}

// render clears the frame, draws the entity and presents the result.
func (p *Pipeline) render() error {
	frame, err := p.window.Draw()
	if err != nil {
		return fmt.Errorf("command: begin frame: %w", err)
	}

	frame.Clear(p.background)
	if err := p.entity.Render(frame); err != nil {
		return fmt.Errorf("command: render entity: %w", err)
	}
	if err := frame.Finish(); err != nil {
		return fmt.Errorf("command: present frame: %w", err)
	}
	return nil
}

// Err returns the render failure that stopped the pipeline, if any.
func (p *Pipeline) Err() error {
	return p.err
}

// Frames returns the number of frames executed so far.
func (p *Pipeline) Frames() uint64 {
	return p.frames
}

// Queue returns the pipeline's command queue.
func (p *Pipeline) Queue() *Queue {
	return p.queue
}
