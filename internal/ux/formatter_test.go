package ux

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stationSummary struct {
	Name      string `json:"name" yaml:"name"`
	Available int    `json:"available" yaml:"available"`
}

type stationList []stationSummary

func (l stationList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for _, s := range l {
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Available)})
	}
	return []string{"NAME", "AVAILABLE"}, rows
}

func printTo(t *testing.T, format string, v any) string {
	t.Helper()
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, format, true)
	require.NoError(t, err)
	require.NoError(t, p.Print(v))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "JSON": FormatJSON, " yaml": FormatYAML, "csv": FormatCSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.EqualError(t, err, "unknown format: xml (supported: text, json, yaml, csv)")

	assert.False(t, FormatText.Machine())
	assert.True(t, FormatCSV.Machine())
}

func TestPrintJSONAndYAML(t *testing.T) {
	s := stationSummary{Name: "Koramangala Hub", Available: 3}

	assert.JSONEq(t, `{"name":"Koramangala Hub","available":3}`, printTo(t, "json", s))
	assert.Equal(t, "name: Koramangala Hub\navailable: 3\n", printTo(t, "yaml", s))
}

func TestPrintCSV(t *testing.T) {
	list := stationList{{Name: "Hub, North", Available: 2}, {Name: "Whitefield", Available: 0}}
	assert.Equal(t, "NAME,AVAILABLE\n\"Hub, North\",2\nWhitefield,0\n", printTo(t, "csv", list))

	assert.Equal(t, "Booking created\n", printTo(t, "csv", "Booking created"), "non-lists print as text")
}

func TestPrintText(t *testing.T) {
	assert.Equal(t, "hello\n", printTo(t, "text", "hello\n"))
	assert.Equal(t, "7\n", printTo(t, "", 7))
	assert.Equal(t, "(none)\n", printTo(t, "text", stationList{}))

	var buf bytes.Buffer
	p, err := NewPrinter(&buf, "text", true)
	require.NoError(t, err)
	assert.Error(t, p.Print(stationSummary{}))
}

func TestPrintTable(t *testing.T) {
	out := printTo(t, "text", stationList{{Name: "Koramangala Hub", Available: 2}, {Name: "Whitefield", Available: 1}})
	for _, want := range []string{"NAME", "AVAILABLE", "Koramangala Hub", "Whitefield", "+"} {
		assert.Contains(t, out, want)
	}
}

func TestNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	p, err := NewPrinter(nil, "text", false)
	require.NoError(t, err)
	assert.False(t, p.color)
}
