// Package logger builds the application-wide zerolog logger.  Store and
// schema failures are logged here with full detail; user-facing responses
// never carry more than a generic message.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console-writer logger tagged with the application
// environment.  In prod the level is raised to Info so per-request debug
// noise stays out of the logs.
func New(env string) zerolog.Logger {
	level := zerolog.DebugLevel
	if env == "prod" {
		level = zerolog.InfoLevel
	}
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(cw).Level(level).With().Timestamp().Str("env", env).Logger()
}
