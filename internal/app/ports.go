package app

import (
	"context"

	"github.com/alexanderramin/slotter/internal/domain"
)

type PlanningStatusUseCase interface {
	Status(ctx context.Context) (*PlanningStatusView, error)
}

type OpenManualUseCase interface {
	OpenManual(ctx context.Context, round int) ([]domain.ManualNeeded, error)
}

type ManualAssignUseCase interface {
	AssignManual(ctx context.Context, req ManualAssignRequest) (*domain.ManualAssignment, error)
}

type ListSlotsUseCase interface {
	List(ctx context.Context) ([]domain.Slot, error)
}
