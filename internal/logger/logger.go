package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the service logger. Development gets a human-readable console
// writer; anything else logs structured JSON to stderr.
func New(appEnv string) zerolog.Logger {
	if appEnv == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
