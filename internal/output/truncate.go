package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ellipsis marks a truncated line.
const ellipsis = "..."

// Truncate shortens s to at most width visual columns, ending it with "..."
// when anything was cut. ANSI escape codes are preserved and wide characters
// count by their display width, so colorized log lines can be fitted to a
// terminal. A width of 0 or less leaves s unchanged.
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	if width <= len(ellipsis) {
		return ansi.Truncate(s, width, "")
	}
	// ansi.Truncate counts the tail toward width.
	return ansi.Truncate(s, width, ellipsis)
}
