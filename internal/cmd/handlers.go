package cmd

import (
	"time"

	"github.com/hzerrad/cronloop/internal/collab"
)

// builtinHandlers is the in-process handler registry `run` resolves a
// registration's "handler" key against. YAML cannot carry a Go closure,
// so the available handlers are registered by name before the file is
// parsed. A real deployment of cronloopd forks this file to add its own
// domain callbacks; the two shipped here are the operational
// housekeeping any long-running poller needs regardless of domain.
func builtinHandlers(logger collab.Logger) map[string]func() error {
	return map[string]func() error{
		"heartbeat": heartbeatHandler(logger),
		"noop":      noopHandler,
	}
}

// heartbeatHandler logs a single structured line, useful as a liveness
// probe a registrations file can schedule like any other task ("is the
// poller itself still ticking").
func heartbeatHandler(logger collab.Logger) func() error {
	return func() error {
		logger.Info("heartbeat", map[string]any{"at": time.Now().UTC().Format(time.RFC3339)})
		return nil
	}
}

// noopHandler succeeds unconditionally; useful for smoke-testing a
// registrations file's reconciliation and retry gating without wiring
// up a real side effect yet.
func noopHandler() error { return nil }
