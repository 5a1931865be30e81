// Package logging adapts github.com/rs/zerolog to the scheduler's
// collab.Logger collaborator interface. The adapter takes a
// zerolog.Logger at construction rather than using a package-level
// global, so a daemon can route scheduler logs wherever it routes its
// own.
package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/hzerrad/cronloop/internal/collab"
)

// ZerologAdapter implements collab.Logger over a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewDefault builds a console-writer zerolog.Logger at info level,
// suitable for cmd/cronloopd's default (non-JSON) output.
func NewDefault() *ZerologAdapter {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &ZerologAdapter{logger: l}
}

func (a *ZerologAdapter) Info(msg string, fields map[string]any) {
	a.logger.Info().Fields(fields).Msg(msg)
}

func (a *ZerologAdapter) Warn(msg string, fields map[string]any) {
	a.logger.Warn().Fields(fields).Msg(msg)
}

func (a *ZerologAdapter) Error(msg string, fields map[string]any) {
	a.logger.Error().Fields(fields).Msg(msg)
}

var _ collab.Logger = (*ZerologAdapter)(nil)
