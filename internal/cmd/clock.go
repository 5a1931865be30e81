package cmd

import "github.com/hzerrad/cronloop/internal/timeutil"

// systemStateClock satisfies state.Clock for CLI commands that open a
// store outside of a running Scheduler (plan, status): they only need
// "now" to manufacture a default document when none exists yet.
type systemStateClock struct{}

func (systemStateClock) Now() timeutil.Instant { return timeutil.Now() }
