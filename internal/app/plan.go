package app

import (
	"time"

	"github.com/alexanderramin/slotter/internal/domain"
)

// FinalPlanRow is one line of the consolidated plan.
type FinalPlanRow struct {
	Slot     string
	Identity string
	Name     string
	Level    float64
	Origin   domain.Origin
	Round    int
}

type SlotPlan struct {
	Slot      string
	Capacity  int
	Automatic int
	Manual    int
	Rows      []FinalPlanRow
}

func (s SlotPlan) Total() int { return s.Automatic + s.Manual }

type FinalPlan struct {
	Period        string
	GeneratedAt   time.Time
	Rows          []FinalPlanRow
	Slots         []SlotPlan
	FullyResolved bool
	OpenManual    int
}
