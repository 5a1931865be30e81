package cmd

import "time"

const (
	// DefaultConfigPath is where run/plan/forecast/status look for a
	// registrations document when --config is not given.
	DefaultConfigPath = "cronloop.yaml"
	// DefaultEnvPath is the optional .env file loaded before the config.
	DefaultEnvPath = ".env"
	// DefaultStatePath is the default SQLite state file for the daemon.
	DefaultStatePath = "cronloop.db"
	// DefaultPollingInterval matches cronloop.DefaultConfig's.
	DefaultPollingInterval = time.Minute
	// DefaultForecastWindow is how far ahead `forecast` projects by default.
	DefaultForecastWindow = 24 * time.Hour
	// DefaultTimelineWidth is the width `timeline` reports in its JSON
	// output; the text view draws one cell per slot regardless.
	DefaultTimelineWidth = 60
)
