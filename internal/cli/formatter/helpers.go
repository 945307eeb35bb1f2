package formatter

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return boxStyle.Render(strings.TrimRight(content, "\n"))
}

// Timestamp renders t in local time, minutes precision. The zero time and
// nil render as "--".
func Timestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Dim("--")
	}
	return t.Local().Format("2006-01-02 15:04")
}

// Plural returns "1 slot", "2 slots" style counts for regular nouns.
func Plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return itoa(n) + " " + noun + "s"
}
