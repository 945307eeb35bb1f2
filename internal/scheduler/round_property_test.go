package scheduler

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/stretchr/testify/assert"
)

var propertyDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

func randomCatalog(rng *rand.Rand) []domain.Slot {
	n := rng.Intn(5) + 1
	catalog := make([]domain.Slot, 0, n)
	for i := 0; i < n; i++ {
		minL := rng.Intn(6) + 1
		catalog = append(catalog, slot(
			propertyDays[rng.Intn(len(propertyDays))],
			fmt.Sprintf("%d:00", 17+i),
			minL,
			minL+rng.Intn(5),
			rng.Intn(4),
		))
	}
	return catalog
}

// randomDatasets builds one registration dataset per round. People keep
// their frequency across datasets and only appear in rounds they reach.
func randomDatasets(rng *rand.Rand, catalog []domain.Slot) map[int][]domain.Registrant {
	people := rng.Intn(15) + 1
	sets := make(map[int][]domain.Registrant)
	for p := 0; p < people; p++ {
		phone := fmt.Sprintf("06%08d", p)
		freq := rng.Intn(3) + 1
		level := fmt.Sprintf("%d", rng.Intn(10)+1)
		for round := 1; round <= freq; round++ {
			var prefs []string
			for k := 0; k < 3; k++ {
				if rng.Intn(4) == 0 {
					prefs = append(prefs, "")
					continue
				}
				s := catalog[rng.Intn(len(catalog))]
				prefs = append(prefs, s.Label())
			}
			r := person(phone, level, at(rng.Intn(120)), prefs...)
			r.Frequency = freq
			sets[round] = append(sets[round], r)
		}
	}
	return sets
}

func runAllRounds(status *domain.PlanningStatus, sets map[int][]domain.Registrant, catalog []domain.Slot) {
	for round := domain.MinRound; round <= domain.MaxRound; round++ {
		result, _ := PlanRound(status, round, sets[round], catalog)
		status.PutRecord(recordFor(round, result))
		_ = status.Complete(round)
	}
}

func TestPlanRound_Invariants_CapacityAndUniqueness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		catalog := randomCatalog(rng)
		sets := randomDatasets(rng, catalog)
		status := domain.DefaultStatus()
		runAllRounds(status, sets, catalog)

		perSlot := make(map[string]int)
		seen := make(map[string]bool)
		for _, a := range status.Assignments() {
			perSlot[a.Slot]++
			key := a.Identity + "|" + a.Slot
			assert.False(t, seen[key], "trial %d: %s assigned to %s twice", trial, a.Identity, a.Slot)
			seen[key] = true
		}

		// Invariant 1: summed over rounds, a slot never exceeds capacity+1.
		for i := range catalog {
			label := catalog[i].Label()
			assert.LessOrEqual(t, perSlot[label], catalog[i].Capacity+1,
				"trial %d: slot %s over capacity", trial, label)
		}

		// Invariant 2: every placement respects the level window.
		for _, a := range status.Assignments() {
			var ok bool
			for i := range catalog {
				if catalog[i].Label() == a.Slot && catalog[i].Accepts(a.Level) {
					ok = true
				}
			}
			assert.True(t, ok, "trial %d: %s placed outside level window of %s", trial, a.Identity, a.Slot)
		}
	}
}

func TestPlanRound_Invariants_ResetThenRerunIsIdentical(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		catalog := randomCatalog(rng)
		sets := randomDatasets(rng, catalog)
		status := domain.DefaultStatus()

		first, _ := PlanRound(status, 1, sets[1], catalog)
		status.PutRecord(recordFor(1, first))
		_ = status.Complete(1)
		second, _ := PlanRound(status, 2, sets[2], catalog)
		status.PutRecord(recordFor(2, second))

		assert.NoError(t, status.ResetRound(2))
		again, _ := PlanRound(status, 2, sets[2], catalog)

		assert.Equal(t, second, again, "trial %d: rerun of round 2 diverged", trial)
	}
}
