// Package logger configures zerolog for the bot's console output.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds a console logger tagged with the service name. An unknown
// level falls back to info.
func New(service, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	return zerolog.New(out).Level(lvl).With().
		Timestamp().
		Str("service", service).
		Logger()
}
