package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// RoundStateBadge renders a round state as a colored pill, e.g. "● active".
func RoundStateBadge(state domain.RoundState) string {
	switch state {
	case domain.RoundActive:
		return StyleYellow.Render("● active")
	case domain.RoundCompleted:
		return StyleGreen.Render("✔ completed")
	case domain.RoundPending:
		return StyleDim.Render("○ pending")
	default:
		return StyleDim.Render(string(state))
	}
}

// OriginBadge marks manual placements so they stand out in plan listings.
func OriginBadge(origin domain.Origin) string {
	if origin == domain.OriginManual {
		return StylePurple.Render("manual")
	}
	return StyleBlue.Render("auto")
}

// Header renders a section header with an underline of the same width.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warning renders a yellow "WARNING:" line without trailing newline.
func Warning(text string) string {
	return StyleYellow.Render("WARNING: " + text)
}
