package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/db"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/alexanderramin/slotter/internal/metrics"
	"github.com/alexanderramin/slotter/internal/repository"
	"github.com/alexanderramin/slotter/internal/scheduler"
	"go.uber.org/zap"
)

type planningService struct {
	period   string
	slots    repository.SlotRepo
	statuses repository.StatusRepo
	uow      db.UnitOfWork
	logger   *zap.Logger
	metrics  metrics.Recorder
	observer UseCaseObserver
}

// NewPlanningService builds the planning use cases for one working period.
// A nil logger or recorder disables that output.
func NewPlanningService(
	period string,
	slots repository.SlotRepo,
	statuses repository.StatusRepo,
	uow db.UnitOfWork,
	logger *zap.Logger,
	recorder metrics.Recorder,
	observers ...UseCaseObserver,
) PlanningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &planningService{
		period:   period,
		slots:    slots,
		statuses: statuses,
		uow:      uow,
		logger:   logger.With(zap.String("period", period)),
		metrics:  recorder,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planningService) Status(ctx context.Context) (*app.PlanningStatusView, error) {
	status, healed, err := loadStatus(ctx, s.statuses, s.period, s.logger)
	if err != nil {
		return nil, fmt.Errorf("loading planning status: %w", err)
	}
	catalog, err := s.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading slots: %w", err)
	}

	view := &app.PlanningStatusView{
		Period:        s.period,
		CurrentRound:  status.CurrentRound,
		Excluded:      append([]string(nil), status.ExcludedPeople...),
		OpenManual:    status.OpenManualCount(),
		FullyResolved: status.FullyResolved(),
		Healed:        healed,
	}
	for n := domain.MinRound; n <= domain.MaxRound; n++ {
		rv := app.RoundView{Round: n, State: status.RoundState(n)}
		if rec, ok := status.Record(n); ok {
			ranAt := rec.Timestamp
			rv.RanAt = &ranAt
			rv.Assigned = len(rec.Assigned)
			rv.ManualNeeded = len(rec.ManualNeeded)
			rv.OpenManual = len(status.OpenManualNeeded(n))
		}
		view.Rounds = append(view.Rounds, rv)
	}

	taken := scheduler.CarriedCounts(status.PlanningHistory, domain.MaxRound+1)
	remaining := scheduler.AdjustCatalog(catalog, taken)
	for i, slot := range catalog {
		label := slot.Label()
		view.Slots = append(view.Slots, app.SlotCapacityView{
			Label:     label,
			Capacity:  slot.Capacity,
			Taken:     taken[label],
			Remaining: remaining[i].Capacity,
		})
	}
	return view, nil
}

func (s *planningService) RunRound(ctx context.Context, req app.RunRoundRequest) (resp *app.RunRoundResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"period": s.period}
	defer observe(ctx, s.observer, "run-round", startedAt, fields, &err)

	now := nowOr(req.Now)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		statuses := repository.NewSQLiteStatusRepo(tx)
		status, _, err := loadStatus(ctx, statuses, s.period, s.logger)
		if err != nil {
			return err
		}

		round := req.Round
		if round == 0 {
			round = status.CurrentRound
		}
		fields["round"] = round
		if err := status.CanRun(round); err != nil {
			return planningError(err, "round %d", round)
		}

		catalog, err := repository.NewSQLiteSlotRepo(tx).List(ctx)
		if err != nil {
			return fmt.Errorf("loading slots: %w", err)
		}
		if len(catalog) == 0 {
			s.logger.Warn("running a round against an empty slot catalog", zap.Int("round", round))
		}
		pool, err := repository.NewSQLiteRegistrationRepo(tx).ListByChoice(ctx, s.period, round)
		if err != nil {
			return fmt.Errorf("loading registrations for round %d: %w", round, err)
		}

		result, stats := scheduler.PlanRound(status, round, pool, catalog)
		rec := domain.RoundRecord{
			Round:          round,
			Timestamp:      now,
			AssignedBySlot: result.Slots,
			ManualNeeded:   result.Manual,
			Assigned:       domain.FlattenAssigned(round, result.Slots, now),
		}

		_, replaced := status.Record(round)
		dropped := len(status.ManualAssignments[round])
		delete(status.ManualAssignments, round)
		status.PutRecord(rec)

		if err := statuses.Save(ctx, s.period, status); err != nil {
			return err
		}

		resp = &app.RunRoundResponse{
			Round:  round,
			Record: rec,
			Pool: app.PoolSummary{
				Candidates: stats.Candidates,
				Excluded:   stats.Excluded,
				Ineligible: stats.Ineligible,
				Saturated:  stats.Saturated,
				Stripped:   stats.Stripped,
			},
			Replaced:      replaced,
			DroppedManual: dropped,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	assigned := len(resp.Record.Assigned)
	manual := len(resp.Record.ManualNeeded)
	fields["assigned"] = assigned
	fields["manual_needed"] = manual
	s.metrics.RecordRoundRun(resp.Round, assigned, manual)
	if resp.DroppedManual > 0 {
		s.logger.Warn("rerun discarded manual assignments",
			zap.Int("round", resp.Round), zap.Int("dropped", resp.DroppedManual))
	}
	return resp, nil
}

func (s *planningService) OpenManual(ctx context.Context, round int) ([]domain.ManualNeeded, error) {
	status, _, err := loadStatus(ctx, s.statuses, s.period, s.logger)
	if err != nil {
		return nil, fmt.Errorf("loading planning status: %w", err)
	}
	if round == 0 {
		round = status.CurrentRound
	}
	if !domain.ValidRound(round) {
		return nil, planningError(domain.ErrInvalidRound, "round %d", round)
	}
	return status.OpenManualNeeded(round), nil
}

func (s *planningService) AssignManual(ctx context.Context, req app.ManualAssignRequest) (ma *domain.ManualAssignment, err error) {
	startedAt := time.Now()
	identity := strings.TrimSpace(req.Identity)
	label := strings.TrimSpace(req.Slot)
	fields := map[string]any{"period": s.period, "identity": identity, "slot": label}
	defer observe(ctx, s.observer, "assign-manual", startedAt, fields, &err)

	var round int
	err = s.mutate(ctx, func(ctx context.Context, tx db.DBTX, status *domain.PlanningStatus) error {
		round = req.Round
		if round == 0 {
			round = status.CurrentRound
		}
		fields["round"] = round

		catalog, err := repository.NewSQLiteSlotRepo(tx).List(ctx)
		if err != nil {
			return fmt.Errorf("loading slots: %w", err)
		}
		if !hasLabel(catalog, label) {
			return &app.PlanningError{
				Code:    app.PlanningErrUnknownSlot,
				Message: fmt.Sprintf("slot %q is not in the catalog", label),
			}
		}

		assignment, err := status.RecordManual(round, identity, label, nowOr(req.Now))
		if err != nil {
			return planningError(err, "round %d, %s", round, identity)
		}
		ma = &assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordManualAssignment(round)
	return ma, nil
}

func (s *planningService) CompleteRound(ctx context.Context, round int) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"period": s.period}
	defer observe(ctx, s.observer, "complete-round", startedAt, fields, &err)

	return s.mutate(ctx, func(_ context.Context, _ db.DBTX, status *domain.PlanningStatus) error {
		if round == 0 {
			round = status.CurrentRound
		}
		fields["round"] = round
		if open := len(status.OpenManualNeeded(round)); open > 0 {
			s.logger.Warn("completing round with open manual entries",
				zap.Int("round", round), zap.Int("open", open))
		}
		if err := status.Complete(round); err != nil {
			return planningError(err, "round %d", round)
		}
		return nil
	})
}

func (s *planningService) ResetRound(ctx context.Context, round int) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"period": s.period, "round": round}
	defer observe(ctx, s.observer, "reset-round", startedAt, fields, &err)

	return s.mutate(ctx, func(_ context.Context, _ db.DBTX, status *domain.PlanningStatus) error {
		if err := status.ResetRound(round); err != nil {
			return planningError(err, "round %d", round)
		}
		return nil
	})
}

func (s *planningService) ResetAll(ctx context.Context) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "reset-all", startedAt, map[string]any{"period": s.period}, &err)

	return s.mutate(ctx, func(_ context.Context, _ db.DBTX, status *domain.PlanningStatus) error {
		status.Reset()
		return nil
	})
}

func (s *planningService) Exclude(ctx context.Context, identity string) (bool, error) {
	return s.setExcluded(ctx, identity, true)
}

func (s *planningService) Include(ctx context.Context, identity string) (bool, error) {
	return s.setExcluded(ctx, identity, false)
}

func (s *planningService) setExcluded(ctx context.Context, identity string, exclude bool) (bool, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return false, fmt.Errorf("identity is required")
	}
	var changed bool
	err := s.mutate(ctx, func(_ context.Context, _ db.DBTX, status *domain.PlanningStatus) error {
		if exclude {
			changed = status.Exclude(identity)
		} else {
			changed = status.Include(identity)
		}
		return nil
	})
	return changed, err
}

// mutate runs fn against the normalized status inside one transaction and
// saves the result. Nothing is written when fn fails.
func (s *planningService) mutate(ctx context.Context, fn func(ctx context.Context, tx db.DBTX, status *domain.PlanningStatus) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		statuses := repository.NewSQLiteStatusRepo(tx)
		status, _, err := loadStatus(ctx, statuses, s.period, s.logger)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx, status); err != nil {
			return err
		}
		return statuses.Save(ctx, s.period, status)
	})
}

func hasLabel(catalog []domain.Slot, label string) bool {
	for i := range catalog {
		if catalog[i].Label() == label {
			return true
		}
	}
	return false
}
