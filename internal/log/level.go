package log

import (
	"strings"

	"github.com/rs/zerolog"
)

// Level is a log severity. Only debug through error are exposed; the
// values are zerolog's so no translation table is needed.
type Level int8

const (
	LevelDebug = Level(zerolog.DebugLevel)
	LevelInfo  = Level(zerolog.InfoLevel)
	LevelWarn  = Level(zerolog.WarnLevel)
	LevelError = Level(zerolog.ErrorLevel)
)

func (l Level) String() string {
	return zerolog.Level(l).String()
}

func (l Level) zerolog() zerolog.Level {
	return zerolog.Level(l)
}

// ParseLevel reads a level name from configuration. Unknown names mean
// info; trace is widened to debug and fatal/panic narrowed to error.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	zl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return LevelInfo
	}
	switch {
	case zl < zerolog.DebugLevel:
		return LevelDebug
	case zl > zerolog.ErrorLevel:
		return LevelError
	}
	return Level(zl)
}
