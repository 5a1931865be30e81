package cronloop

import (
	"time"

	"github.com/hzerrad/cronloop/internal/collab"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// Clock abstracts time.Now so tests can set and advance "now".
type Clock = collab.Clock

// Logger is a structured logger with info/warn/error levels.
type Logger = collab.Logger

// Sleeper abstracts the ticker's wait primitive.
type Sleeper = collab.Sleeper

// NopLogger discards everything; the default when no Logger is supplied.
type NopLogger = collab.NopLogger

// SystemClock is the real wall clock, used when no Clock is injected.
type SystemClock struct{}

func (SystemClock) Now() timeutil.Instant { return timeutil.Now() }

// SystemSleeper sleeps against the real wall clock.
type SystemSleeper struct{}

func (SystemSleeper) Sleep(d time.Duration) { time.Sleep(d) }

func (SystemSleeper) SleepUntil(i timeutil.Instant) {
	d := i.Time().Sub(time.Now().UTC())
	if d > 0 {
		time.Sleep(d)
	}
}
