package scheduler

import (
	"testing"

	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordFor(round int, result RoundResult) domain.RoundRecord {
	return domain.RoundRecord{
		Round:          round,
		Timestamp:      baseTime,
		AssignedBySlot: result.Slots,
		ManualNeeded:   result.Manual,
		Assigned:       domain.FlattenAssigned(round, result.Slots, baseTime),
	}
}

func TestCarriedCounts_OnlyEarlierRounds(t *testing.T) {
	history := []domain.RoundRecord{
		{Round: 1, Assigned: []domain.Assignment{{Identity: "a", Slot: "Monday 18:00"}, {Identity: "b", Slot: "Monday 18:00"}}},
		{Round: 2, Assigned: []domain.Assignment{{Identity: "c", Slot: "Monday 18:00", Origin: domain.OriginManual}}},
		{Round: 3, Assigned: []domain.Assignment{{Identity: "d", Slot: "Monday 18:00"}}},
	}

	assert.Empty(t, CarriedCounts(history, 1))
	assert.Equal(t, map[string]int{"Monday 18:00": 2}, CarriedCounts(history, 2))
	assert.Equal(t, map[string]int{"Monday 18:00": 3}, CarriedCounts(history, 3), "manual assignments occupy seats too")
}

func TestAdjustCatalog_ReducesCopy(t *testing.T) {
	catalog := []domain.Slot{slot("Monday", "18:00", 5, 9, 2), slot("Tuesday", "18:00", 5, 9, 4)}

	adjusted := AdjustCatalog(catalog, map[string]int{"Monday 18:00": 5, "Tuesday 18:00": 1})

	assert.Equal(t, 0, adjusted[0].Capacity)
	assert.Equal(t, 3, adjusted[1].Capacity)
	assert.Equal(t, 2, catalog[0].Capacity, "input catalog untouched")
}

func TestHeldSlots_HistoryAndLedger(t *testing.T) {
	status := domain.DefaultStatus()
	status.PlanningHistory = []domain.RoundRecord{
		{Round: 1, Assigned: []domain.Assignment{{Identity: "p", Slot: "Monday 18:00"}}},
		{Round: 2, Assigned: []domain.Assignment{{Identity: "p", Slot: "Tuesday 18:00"}}},
	}
	status.ManualAssignments[1] = []domain.ManualAssignment{{Identity: "q", Slot: "Friday 18:00"}}

	held := HeldSlots(status, 2)

	assert.True(t, held.Has("p", "Monday 18:00"))
	assert.False(t, held.Has("p", "Tuesday 18:00"), "round 2 itself is not held before round 2")
	assert.True(t, held.Has("q", "Friday 18:00"))
	assert.False(t, held.Has("nobody", "Monday 18:00"))
}

func TestFilterPool_DropsPeopleHoldingEverySlot(t *testing.T) {
	catalog := []domain.Slot{slot("Monday", "18:00", 1, 9, 2), slot("Tuesday", "18:00", 1, 9, 2)}
	held := Held{
		"full":    {"Monday 18:00": true, "Tuesday 18:00": true},
		"partial": {"Monday 18:00": true},
	}
	pool := []domain.Registrant{person("full", "5", at(1)), person("partial", "5", at(2)), person("new", "5", at(3))}

	assert.Equal(t, []string{"partial", "new"}, phones(FilterPool(pool, catalog, held)))
	assert.Len(t, FilterPool(pool, nil, held), 3)
}

func TestStripDuplicates_MovesToManualAndReleasesSeat(t *testing.T) {
	catalog := []domain.Slot{slot("Monday", "18:00", 1, 9, 0)}
	table := NewCapacityTable(catalog, nil)
	require.True(t, table.Reserve("Monday 18:00"))

	result := RoundResult{Slots: []domain.SlotPlacements{{
		Slot:   "Monday 18:00",
		People: []domain.Placement{{Identity: "p", Name: "P", Level: 6}},
	}}}
	held := Held{"p": {"Monday 18:00": true}}

	n := StripDuplicates(&result, held, table)

	assert.Equal(t, 1, n)
	assert.Empty(t, result.Slots, "empty slot groups are dropped")
	require.Len(t, result.Manual, 1)
	assert.Equal(t, domain.ReasonAlreadyAssigned, result.Manual[0].Reason)
	assert.Equal(t, "already assigned to Monday 18:00 in a previous round", result.Manual[0].ReasonText())
	assert.Equal(t, 1, table.Remaining("Monday 18:00"))
}

func TestPlanRound_SecondRoundNeverRepeatsSlot(t *testing.T) {
	catalog := []domain.Slot{slot("Monday", "18:00", 1, 9, 4), slot("Wednesday", "18:00", 1, 9, 4)}
	status := domain.DefaultStatus()

	p1 := person("P", "6", at(1), "Monday 18:00")
	p1.Frequency = 2
	round1, _ := PlanRound(status, 1, []domain.Registrant{p1}, catalog)
	require.Equal(t, []string{"P"}, placedIDs(round1, "Monday 18:00"))
	status.PutRecord(recordFor(1, round1))
	require.NoError(t, status.Complete(1))

	t.Run("repeated slot moves to manual", func(t *testing.T) {
		p2 := person("P", "6", at(2), "Monday 18:00", "Wednesday 18:00")
		p2.Frequency = 2
		result, _ := PlanRound(status, 2, []domain.Registrant{p2}, catalog)
		// The matcher only sees preference text, so the repeat is caught
		// after allocation.
		assert.Nil(t, placedIDs(result, "Wednesday 18:00"))
		assert.Nil(t, placedIDs(result, "Monday 18:00"))
		m, ok := manualFor(result, "P")
		require.True(t, ok)
		assert.Equal(t, domain.ReasonAlreadyAssigned, m.Reason)
	})

	t.Run("different slot is fine", func(t *testing.T) {
		p2 := person("P", "6", at(2), "Wednesday 18:00")
		p2.Frequency = 2
		result, _ := PlanRound(status, 2, []domain.Registrant{p2}, catalog)
		assert.Equal(t, []string{"P"}, placedIDs(result, "Wednesday 18:00"))
		assert.Empty(t, result.Manual)
	})
}

func TestPlanRound_PoolFiltering(t *testing.T) {
	catalog := []domain.Slot{slot("Monday", "18:00", 1, 9, 4)}
	status := domain.DefaultStatus()
	status.Exclude("gone")
	status.PlanningHistory = []domain.RoundRecord{
		{Round: 1, Assigned: []domain.Assignment{{Identity: "done", Slot: "Monday 18:00"}}},
	}

	mk := func(phone string, freq int) domain.Registrant {
		r := person(phone, "5", at(1), "Monday")
		r.Frequency = freq
		return r
	}
	pool := []domain.Registrant{mk("gone", 3), mk("once", 1), mk("done", 2), mk("twice", 2), mk("thrice", 3)}

	result, stats := PlanRound(status, 2, pool, catalog)

	assert.Equal(t, PoolStats{Candidates: 5, Excluded: 1, Ineligible: 1, Saturated: 1}, stats)
	assert.Equal(t, []string{"twice", "thrice"}, placedIDs(result, "Monday 18:00"))
}

func TestPlanRound_CarryForwardSharesBonusSeat(t *testing.T) {
	catalog := []domain.Slot{slot("Monday", "18:00", 1, 9, 2)}
	status := domain.DefaultStatus()

	var pool1 []domain.Registrant
	for i, id := range []string{"a", "b"} {
		pool1 = append(pool1, person(id, "5", at(i), "Monday"))
	}
	r1, _ := PlanRound(status, 1, pool1, catalog)
	status.PutRecord(recordFor(1, r1))

	var pool2 []domain.Registrant
	for i, id := range []string{"c", "d", "e"} {
		r := person(id, "5", at(10+i), "Monday")
		r.Frequency = 2
		pool2 = append(pool2, r)
	}
	r2, _ := PlanRound(status, 2, pool2, catalog)

	assert.Equal(t, []string{"c"}, placedIDs(r2, "Monday 18:00"), "capacity 2 plus one bonus seat across both rounds")
	assert.Len(t, r2.Manual, 2)
}
