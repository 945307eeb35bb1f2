package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Work through open manual cases interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("board needs a terminal; use \"slotter manual\" instead")
			}
			p := tea.NewProgram(newBoardModel(app), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}
