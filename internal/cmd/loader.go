package cmd

import (
	"github.com/hzerrad/cronloop/internal/config"
	"github.com/hzerrad/cronloop/internal/registry"
)

// noopHandlers builds a handler table satisfying every "handler" key
// declared in doc with a callback that does nothing. The read-only
// introspection commands (forecast, plan, timeline, status) never
// invoke a callback; they only need registry.ValidateRawDocument to
// accept the document. `run` resolves against the real handler
// registry instead (handlers.go).
func noopHandlers(doc []any) map[string]func() error {
	handlers := make(map[string]func() error)
	for _, item := range doc {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if key, ok := entry["handler"].(string); ok {
			handlers[key] = func() error { return nil }
		}
	}
	return handlers
}

// loadParsedRegistrations reads path's registrations document and
// validates it against a no-op handler table, for commands that only
// inspect schedules rather than run them.
func loadParsedRegistrations(path string) ([]registry.ParsedRegistration, []registry.Warning, error) {
	f, err := config.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return registry.ValidateRawDocument(f.Registrations, noopHandlers(f.Registrations))
}
