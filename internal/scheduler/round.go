package scheduler

import (
	"github.com/alexanderramin/slotter/internal/domain"
)

// PoolStats counts the registrants dropped before allocation.
type PoolStats struct {
	Candidates int
	Excluded   int
	Ineligible int
	Saturated  int
	Stripped   int
}

// PlanRound runs one round against the state built up by earlier rounds.
// Excluded people, people whose frequency does not reach this round and
// people already holding every slot are dropped first. Seats taken in
// earlier rounds are carried forward, and placements repeating a slot the
// person already holds are moved to manual-needed.
func PlanRound(status *domain.PlanningStatus, round int, pool []domain.Registrant, catalog []domain.Slot) (RoundResult, PoolStats) {
	stats := PoolStats{Candidates: len(pool)}

	eligible := make([]domain.Registrant, 0, len(pool))
	for _, r := range pool {
		switch {
		case status.IsExcluded(r.Phone):
			stats.Excluded++
		case !domain.EligibleForRound(round, r.Frequency):
			stats.Ineligible++
		default:
			eligible = append(eligible, r)
		}
	}

	held := HeldSlots(status, round)
	filtered := FilterPool(eligible, catalog, held)
	stats.Saturated = len(eligible) - len(filtered)

	table := NewCapacityTable(catalog, CarriedCounts(status.PlanningHistory, round))
	result := Allocate(filtered, catalog, table)
	stats.Stripped = StripDuplicates(&result, held, table)
	return result, stats
}
