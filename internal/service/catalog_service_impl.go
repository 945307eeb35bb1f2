package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/slotter/internal/db"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/alexanderramin/slotter/internal/repository"
	"github.com/google/uuid"
)

type catalogService struct {
	slots    repository.SlotRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewCatalogService(slots repository.SlotRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CatalogService {
	return &catalogService{slots: slots, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *catalogService) Add(ctx context.Context, slot *domain.Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		slots := repository.NewSQLiteSlotRepo(tx)
		existing, err := slots.List(ctx)
		if err != nil {
			return err
		}
		if hasLabel(existing, slot.Label()) {
			return fmt.Errorf("slot %q already exists", slot.Label())
		}
		return slots.Create(ctx, slot)
	})
}

func (s *catalogService) List(ctx context.Context) ([]domain.Slot, error) {
	return s.slots.List(ctx)
}

// Delete removes the slot with the given label. Assignments already made
// to it stay in the planning history.
func (s *catalogService) Delete(ctx context.Context, label string) error {
	label = strings.TrimSpace(label)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		slots := repository.NewSQLiteSlotRepo(tx)
		existing, err := slots.List(ctx)
		if err != nil {
			return err
		}
		for _, slot := range existing {
			if slot.Label() == label {
				return slots.Delete(ctx, slot.ID)
			}
		}
		return fmt.Errorf("slot %q: %w", label, repository.ErrNotFound)
	})
}

// ReplaceAll swaps the whole catalog for slots, keeping their order.
func (s *catalogService) ReplaceAll(ctx context.Context, slots []domain.Slot) (n int, err error) {
	startedAt := time.Now()
	fields := map[string]any{"slots": len(slots)}
	defer observe(ctx, s.observer, "replace-catalog", startedAt, fields, &err)

	seen := make(map[string]bool, len(slots))
	for i := range slots {
		if err := slots[i].Validate(); err != nil {
			return 0, fmt.Errorf("slot %d: %w", i+1, err)
		}
		label := slots[i].Label()
		if seen[label] {
			return 0, fmt.Errorf("slot %d: %q appears twice", i+1, label)
		}
		seen[label] = true
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSlotRepo(tx)
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		for i := range slots {
			slot := slots[i]
			slot.ID = uuid.New().String()
			slot.Position = i + 1
			if err := repo.Create(ctx, &slot); err != nil {
				return fmt.Errorf("storing slot %s: %w", slot.Label(), err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
