// Package audio plays a short tone for each applied move.
package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/quad/internal/command"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneLength = 50 * time.Millisecond
)

// Cue is a move click. A Cue whose speaker failed to open stays silent.
type Cue struct {
	mu      sync.Mutex
	enabled bool
	logger  *log.Logger
}

// New opens the speaker. Failure is logged and leaves the cue silent;
// the loop runs the same with or without sound.
func New(logger *log.Logger) *Cue {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Cue{logger: logger}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		logger.Warn("audio disabled", "err", err)
		return c
	}
	c.enabled = true
	return c
}

// Enabled reports whether the speaker is open.
func (c *Cue) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Play queues the tone for a direction. It never blocks the caller.
func (c *Cue) Play(d command.Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return
	}

	sine, err := generators.SineTone(sampleRate, toneFor(d))
	if err != nil {
		c.logger.Debug("tone generator", "err", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(toneLength), sine))
}

// Close releases the speaker.
func (c *Cue) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enabled {
		speaker.Close()
		c.enabled = false
	}
}

// toneFor returns the frequency in Hz of a direction's tone.
func toneFor(d command.Direction) float64 {
	switch d {
	case command.Up:
		return 880
	case command.Down:
		return 660
	case command.Left:
		return 550
	case command.Right:
		return 740
	default:
		return 440
	}
}
