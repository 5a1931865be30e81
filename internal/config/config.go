// Package config loads operator-facing configuration: a .env file for
// secrets/environment overrides, and a YAML registrations document
// describing the tasks a cronloopd process should run. Environment
// values are loaded first, then the structured YAML document; the
// registrations file itself carries no secret-bearing fields, so no
// variable expansion happens inside YAML values.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hzerrad/cronloop/internal/registry"
)

// LoadDotEnv loads a .env file into the process environment. A missing
// file is not an error; .env is optional in every deployment.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// File is the top-level shape of a registrations YAML document.
type File struct {
	PollingInterval time.Duration `yaml:"pollingInterval"`
	StatePath       string        `yaml:"statePath"`
	Registrations   []any         `yaml:"registrations"`
}

// UnmarshalYAML lets pollingInterval be written as a duration string
// ("30s", "1m") rather than a raw nanosecond count, since yaml.v3 has no
// built-in notion of time.Duration.
func (f *File) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		PollingInterval string `yaml:"pollingInterval"`
		StatePath       string `yaml:"statePath"`
		Registrations   []any  `yaml:"registrations"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.PollingInterval != "" {
		d, err := time.ParseDuration(raw.PollingInterval)
		if err != nil {
			return fmt.Errorf("pollingInterval: %w", err)
		}
		f.PollingInterval = d
	}
	f.StatePath = raw.StatePath
	f.Registrations = raw.Registrations
	return nil
}

// LoadFile reads and parses a registrations YAML file. It does not
// resolve handlers or validate cron expressions — that is
// LoadRegistrations's job, which also accepts raw documents built in
// memory (e.g. from a test) without touching the filesystem.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return f, nil
}

// LoadRegistrations reads path's registrations list and validates it
// against the supplied handler table, in the duck-typed shape a YAML
// document naturally decodes into (registry.ValidateRawDocument).
func LoadRegistrations(path string, handlers map[string]func() error) ([]registry.ParsedRegistration, []registry.Warning, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return registry.ValidateRawDocument(f.Registrations, handlers)
}
