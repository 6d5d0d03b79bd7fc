package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		" info ":  LevelInfo,
		"warn":    LevelWarn,
		"Warning": LevelWarn,
		"error":   LevelError,
		"trace":   LevelDebug,
		"fatal":   LevelError,
		"panic":   LevelError,
		"":        LevelInfo,
		"loud":    LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestLevelString(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		assert.Equal(t, l, ParseLevel(l.String()))
	}
	assert.Equal(t, "warn", LevelWarn.String())
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("Console"))
	assert.Equal(t, FormatText, ParseFormat("pretty"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("yaml"))
	assert.Equal(t, FormatJSON, ParseFormat(""))
}

func TestConfigWriter(t *testing.T) {
	var buf bytes.Buffer
	assert.Same(t, &buf, Config{Writer: &buf}.writer())
	assert.NotNil(t, DefaultConfig().writer())
	assert.Equal(t, "evbook", DefaultConfig().Service)
}

func TestRedaction(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	args := []any{"email", "ana@example.com", "password", "Secret1", "otp", "123456"}
	logger.Info("reset requested", args...)
	logger.With("Authorization", "Bearer abc").Info("request")
	logger.Info("token state", "token", "", "refresh_token", "r1", "count", 3)

	entries := decodeLines(t, buf)
	assert.Equal(t, "ana@example.com", entries[0]["email"])
	assert.Equal(t, Redacted, entries[0]["password"])
	assert.Equal(t, Redacted, entries[0]["otp"])
	assert.Equal(t, Redacted, entries[1]["Authorization"])
	assert.Equal(t, "", entries[2]["token"])
	assert.Equal(t, Redacted, entries[2]["refresh_token"])
	assert.EqualValues(t, 3, entries[2]["count"])

	assert.Equal(t, "Secret1", args[3], "caller's slice must stay intact")
}

func TestExtraRedactKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Writer: &buf, Redact: []string{"Phone"}})
	logger.Info("profile saved", "phone", "9876543210", "name", "Ana")

	e := decodeLines(t, &buf)[0]
	assert.Equal(t, Redacted, e["phone"])
	assert.Equal(t, "Ana", e["name"])
}
