package log

import (
	"io"
	"os"
	"strings"
)

// Format selects how entries are rendered.
type Format string

const (
	FormatJSON Format = "json"
	// FormatText is zerolog's console writer, for people reading a terminal.
	FormatText Format = "text"
)

// ParseFormat maps a config value to a Format; anything unrecognised is JSON.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "console", "pretty":
		return FormatText
	}
	return FormatJSON
}

// Config holds configuration for the logger
type Config struct {
	Level  Level
	Format Format

	// Writer receives entries. Nil means stderr, keeping stdout for
	// command output.
	Writer io.Writer

	// Caller adds file:line to every entry.
	Caller bool

	Service string
	Version string

	// Redact lists extra field keys whose values are masked, on top of
	// the built-in credential keys.
	Redact []string
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stderr
	}
	return c.Writer
}

// DefaultConfig logs info and above as JSON to stderr.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Format:  FormatJSON,
		Service: "evbook",
	}
}
