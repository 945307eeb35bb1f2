package service

import (
	"context"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
)

// PlanningService drives the round state machine of one working period.
// Every mutating call reads the status, computes the new state and writes
// it back in a single transaction.
type PlanningService interface {
	Status(ctx context.Context) (*app.PlanningStatusView, error)
	RunRound(ctx context.Context, req app.RunRoundRequest) (*app.RunRoundResponse, error)
	OpenManual(ctx context.Context, round int) ([]domain.ManualNeeded, error)
	AssignManual(ctx context.Context, req app.ManualAssignRequest) (*domain.ManualAssignment, error)
	CompleteRound(ctx context.Context, round int) error
	ResetRound(ctx context.Context, round int) error
	ResetAll(ctx context.Context) error
	Exclude(ctx context.Context, identity string) (bool, error)
	Include(ctx context.Context, identity string) (bool, error)
}

type RegistrationService interface {
	Submit(ctx context.Context, req app.SubmitRequest) (*app.SubmitResult, error)
	Import(ctx context.Context, choice int, rows []domain.Registrant) (int, error)
	CleanDuplicates(ctx context.Context, choice int) (*app.CleanResult, error)
	Counts(ctx context.Context) (map[int]int, error)
	List(ctx context.Context, choice int) ([]domain.Registrant, error)
}

type CatalogService interface {
	Add(ctx context.Context, s *domain.Slot) error
	List(ctx context.Context) ([]domain.Slot, error)
	Delete(ctx context.Context, label string) error
	ReplaceAll(ctx context.Context, slots []domain.Slot) (int, error)
}

type PlanService interface {
	FinalPlan(ctx context.Context) (*app.FinalPlan, error)
}

var (
	_ app.PlanningStatusUseCase = PlanningService(nil)
	_ app.OpenManualUseCase     = PlanningService(nil)
	_ app.ManualAssignUseCase   = PlanningService(nil)
	_ app.ListSlotsUseCase      = CatalogService(nil)
)
