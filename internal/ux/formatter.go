package ux

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Format is a command output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatCSV only applies to lists; anything else falls back to text.
	FormatCSV Format = "csv"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCSV}

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, k := range Formats {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown format: %s (supported: %s)", s, strings.Join(names, ", "))
}

// Machine reports whether the format is meant for programs, not people.
func (f Format) Machine() bool {
	return f != FormatText
}

// Tabular is implemented by values the text and csv formats render as rows.
type Tabular interface {
	Table() (headers []string, rows [][]string)
}

// Printer writes command results in one format.
type Printer struct {
	w      io.Writer
	format Format
	color  bool
}

// NewPrinter creates a printer. Color is also disabled when NO_COLOR is set.
func NewPrinter(w io.Writer, format string, noColor bool) (*Printer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		w:      w,
		format: f,
		color:  !noColor && os.Getenv("NO_COLOR") == "",
	}, nil
}

// Format returns the selected format.
func (p *Printer) Format() Format { return p.format }

// Print writes v.
func (p *Printer) Print(v any) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		if t, ok := v.(Tabular); ok {
			return p.csv(t)
		}
	}
	return p.text(v)
}

func (p *Printer) csv(t Tabular) error {
	headers, rows := t.Table()
	w := csv.NewWriter(p.w)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

func (p *Printer) text(v any) error {
	var out string
	switch v := v.(type) {
	case string:
		out = v
	case Tabular:
		out = p.table(v.Table())
	case fmt.Stringer:
		out = v.String()
	case int, int64, bool, float64:
		out = fmt.Sprint(v)
	default:
		return fmt.Errorf("cannot print %T as text", v)
	}
	_, err := fmt.Fprintln(p.w, strings.TrimRight(out, "\n"))
	return err
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (p *Printer) table(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return "(none)"
	}
	t := table.New().Headers(headers...).Rows(rows...)
	if !p.color {
		return t.Border(lipgloss.ASCIIBorder()).String()
	}
	return t.
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
