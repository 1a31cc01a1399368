// internal/infra/log/logger.go

package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a configured zerolog logger for the application.
func NewLogger(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(parsed)
}
