package cli

import (
	"github.com/alexanderramin/slotter/internal/export"
	"github.com/alexanderramin/slotter/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Planning      service.PlanningService
	Registrations service.RegistrationService
	Catalog       service.CatalogService
	Plans         service.PlanService

	// Period names the working period the services are bound to.
	Period string
	// RegistrationOpen gates new submissions. Imports and planning ignore it.
	RegistrationOpen bool
	Export           export.Options

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
	// RunForm runs a prompt. Nil runs it on the terminal.
	RunForm func(*huh.Form) error
}

// NewRootCmd creates the top-level "slotter" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "slotter",
		Short:         "Round-based training slot planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSlotCmd(app),
		newRegisterCmd(app),
		newRoundCmd(app),
		newManualCmd(app),
		newPlanCmd(app),
		newBoardCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runForm(f *huh.Form) error {
	if a.RunForm != nil {
		return a.RunForm(f)
	}
	return f.Run()
}
