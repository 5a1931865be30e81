// Command cronloopd is the operator binary around the cronloop
// scheduler library: a `run` subcommand that starts the poll loop, and
// a handful of read-only commands (plan, status, forecast, explain,
// next, timeline, import) that inspect a registrations file and/or its
// persisted state without starting anything.
package main

import (
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/hzerrad/cronloop/internal/cmd"
)

func main() {
	// GOMAXPROCS defaults to the host's CPU count, which in a
	// cgroup-limited container overcounts and causes the poller's
	// errgroup fan-out to over-schedule; maxprocs.Set corrects it
	// before anything else runs. A short-lived CLI invocation never
	// needed this — cronloopd run is the one subcommand that actually
	// stays up long enough for it to matter.
	// A failure here just leaves GOMAXPROCS at its runtime default.
	_, _ = maxprocs.Set()

	cmd.SetOutput(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
