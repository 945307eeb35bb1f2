package cli

import (
	"errors"

	"github.com/alexanderramin/slotter/internal/cli/formatter"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errNotInteractive = errors.New("no terminal to prompt on")

// slotterHuhTheme returns a huh theme using the formatter palette.
func slotterHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// slotPickerForm offers the catalog as a select list. The chosen slot
// label is written to result.
func slotPickerForm(title, description string, slots []domain.Slot, result *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(slots))
	for _, s := range slots {
		options = append(options, huh.NewOption(s.OptionText(), s.Label()))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description(description).
				Options(options...).
				Value(result),
		),
	).WithTheme(slotterHuhTheme()).WithShowHelp(false)
}

func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(slotterHuhTheme()).WithShowHelp(false)
}

// confirm asks title unless yes is already given. Without a terminal an
// unconfirmed request is refused.
func (a *App) confirm(title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, errNotInteractive
	}
	var ok bool
	if err := a.runForm(confirmForm(title, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}
