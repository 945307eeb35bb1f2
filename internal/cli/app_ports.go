package cli

import "github.com/alexanderramin/slotter/internal/app"

// Narrow use-case views of App, as consumed by the board.

func (a *App) statusUseCase() app.PlanningStatusUseCase {
	return a.Planning
}

func (a *App) openManualUseCase() app.OpenManualUseCase {
	return a.Planning
}

func (a *App) manualAssignUseCase() app.ManualAssignUseCase {
	return a.Planning
}

func (a *App) listSlotsUseCase() app.ListSlotsUseCase {
	return a.Catalog
}
