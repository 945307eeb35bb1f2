package app

import (
	"time"

	"github.com/alexanderramin/slotter/internal/domain"
)

type RunRoundRequest struct {
	// Round defaults to the current round when zero.
	Round int
	Now   *time.Time
}

// PoolSummary counts how the candidate pool of a run was narrowed down.
type PoolSummary struct {
	Candidates int
	Excluded   int
	Ineligible int
	Saturated  int
	Stripped   int
}

type RunRoundResponse struct {
	Round  int
	Record domain.RoundRecord
	Pool   PoolSummary
	// Replaced is true when the round had run before. The earlier record
	// and the manual assignments made against it are discarded.
	Replaced      bool
	DroppedManual int
}

type ManualAssignRequest struct {
	Round    int
	Identity string
	Slot     string
	Now      *time.Time
}

type RoundView struct {
	Round        int
	State        domain.RoundState
	RanAt        *time.Time
	Assigned     int
	ManualNeeded int
	OpenManual   int
}

// SlotCapacityView shows how many seats of a slot are taken over all
// rounds so far.
type SlotCapacityView struct {
	Label     string
	Capacity  int
	Taken     int
	Remaining int
}

type PlanningStatusView struct {
	Period        string
	CurrentRound  int
	Rounds        []RoundView
	Excluded      []string
	OpenManual    int
	FullyResolved bool
	Slots         []SlotCapacityView
	// Healed counts duplicate history records collapsed while loading.
	Healed int
}
