package scheduler

import (
	"github.com/alexanderramin/slotter/internal/domain"
)

// CarriedCounts counts, per slot label, the assignments made in rounds
// before round. Automatic and manual assignments both occupy a seat.
func CarriedCounts(history []domain.RoundRecord, round int) map[string]int {
	counts := make(map[string]int)
	for _, rec := range history {
		if rec.Round >= round {
			continue
		}
		for _, a := range rec.Assigned {
			counts[a.Slot]++
		}
	}
	return counts
}

// AdjustCatalog returns a copy of catalog with each capacity reduced by the
// seats carried from earlier rounds, floored at zero.
func AdjustCatalog(catalog []domain.Slot, carried map[string]int) []domain.Slot {
	out := make([]domain.Slot, len(catalog))
	copy(out, catalog)
	for i := range out {
		c := out[i].Capacity - carried[out[i].Label()]
		if c < 0 {
			c = 0
		}
		out[i].Capacity = c
	}
	return out
}
