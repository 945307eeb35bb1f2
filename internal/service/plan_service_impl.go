package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/alexanderramin/slotter/internal/repository"
	"go.uber.org/zap"
)

type planService struct {
	period   string
	slots    repository.SlotRepo
	statuses repository.StatusRepo
	logger   *zap.Logger
}

func NewPlanService(period string, slots repository.SlotRepo, statuses repository.StatusRepo, logger *zap.Logger) PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &planService{period: period, slots: slots, statuses: statuses, logger: logger.With(zap.String("period", period))}
}

// FinalPlan consolidates every automatic and manual assignment made so far.
// Rows are sorted by slot then name; slot groups follow the week.
func (s *planService) FinalPlan(ctx context.Context) (*app.FinalPlan, error) {
	status, _, err := loadStatus(ctx, s.statuses, s.period, s.logger)
	if err != nil {
		return nil, fmt.Errorf("loading planning status: %w", err)
	}
	catalog, err := s.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading slots: %w", err)
	}

	plan := &app.FinalPlan{
		Period:        s.period,
		GeneratedAt:   time.Now().UTC(),
		FullyResolved: status.FullyResolved(),
		OpenManual:    status.OpenManualCount(),
	}
	for _, a := range status.Assignments() {
		plan.Rows = append(plan.Rows, app.FinalPlanRow{
			Slot:     a.Slot,
			Identity: a.Identity,
			Name:     a.Name,
			Level:    a.Level,
			Origin:   a.Origin,
			Round:    a.Round,
		})
	}
	sort.SliceStable(plan.Rows, func(i, j int) bool {
		if plan.Rows[i].Slot != plan.Rows[j].Slot {
			return plan.Rows[i].Slot < plan.Rows[j].Slot
		}
		return plan.Rows[i].Name < plan.Rows[j].Name
	})

	groups := make(map[string]*app.SlotPlan)
	var order []string
	group := func(label string) *app.SlotPlan {
		g, ok := groups[label]
		if !ok {
			g = &app.SlotPlan{Slot: label}
			groups[label] = g
			order = append(order, label)
		}
		return g
	}
	for _, slot := range catalog {
		group(slot.Label()).Capacity = slot.Capacity
	}
	for _, row := range plan.Rows {
		g := group(row.Slot)
		g.Rows = append(g.Rows, row)
		if row.Origin == domain.OriginManual {
			g.Manual++
		} else {
			g.Automatic++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		di, dj := domain.DayIndex(order[i]), domain.DayIndex(order[j])
		if di != dj {
			return di < dj
		}
		return order[i] < order[j]
	})
	for _, label := range order {
		plan.Slots = append(plan.Slots, *groups[label])
	}
	return plan, nil
}
