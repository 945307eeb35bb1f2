package repository

import (
	"context"

	"github.com/alexanderramin/slotter/internal/domain"
)

type SlotRepo interface {
	Create(ctx context.Context, s *domain.Slot) error
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
	List(ctx context.Context) ([]domain.Slot, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// RegistrationRepo stores the per-choice registration datasets of every
// working period. List results keep insertion order.
type RegistrationRepo interface {
	Create(ctx context.Context, r *domain.Registrant) error
	ListByChoice(ctx context.Context, period string, choice int) ([]domain.Registrant, error)
	ListByIdentity(ctx context.Context, period string, choice int, phone string) ([]domain.Registrant, error)
	DeleteByIdentity(ctx context.Context, period string, choice int, phone string) (int64, error)
	Delete(ctx context.Context, id string) error
	CountByChoice(ctx context.Context, period string) (map[int]int, error)
}

// StatusRepo persists one planning status document per working period.
type StatusRepo interface {
	Load(ctx context.Context, period string) (*domain.PlanningStatus, error)
	Save(ctx context.Context, period string, s *domain.PlanningStatus) error
}
