package loop

import "time"

// Clock is the time source the scheduler samples and blocks on.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// wallClock reads the monotonic system clock and really sleeps.
type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) Sleep(d time.Duration) { time.Sleep(d) }
