// Package output renders ringtail results for the terminal or for machines.
//
// Text output is styled with lipgloss when color is enabled; json and yaml
// output is never styled.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Colors meet WCAG AA contrast on dark backgrounds.
var (
	PrimaryColor = lipgloss.Color("#A78BFA") // Purple
	SuccessColor = lipgloss.Color("#10B981") // Green
	WarningColor = lipgloss.Color("#F59E0B") // Amber
	ErrorColor   = lipgloss.Color("#F87171") // Red
	MutedColor   = lipgloss.Color("#9CA3AF") // Gray
)

var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	Success = lipgloss.NewStyle().Foreground(SuccessColor)
	Warning = lipgloss.NewStyle().Foreground(WarningColor)
	Error   = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted   = lipgloss.NewStyle().Foreground(MutedColor)
)

// Format selects how a Printer encodes structured values.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Printer writes lines and structured values to an io.Writer.
type Printer struct {
	w      io.Writer
	color  bool
	format Format
}

// NewPrinter creates a Printer. colorMode is "always", "never", or "auto";
// auto enables color only when w is a terminal.
func NewPrinter(w io.Writer, colorMode string, format Format) *Printer {
	return &Printer{
		w:      w,
		color:  useColor(w, colorMode),
		format: format,
	}
}

func useColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Format returns the printer's output format.
func (p *Printer) Format() Format {
	return p.format
}

// Styled reports whether text output is colorized.
func (p *Printer) Styled() bool {
	return p.color
}

// Render applies style to s when color is enabled.
func (p *Printer) Render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

// Println writes s followed by a newline.
func (p *Printer) Println(s string) error {
	_, err := fmt.Fprintln(p.w, s)
	return err
}

// Printf writes a formatted line.
func (p *Printer) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(p.w, format, args...)
	return err
}

// Encode writes v as JSON or YAML according to the printer's format.
// Text printers fall back to JSON.
func (p *Printer) Encode(v any) error {
	switch p.format {
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}
