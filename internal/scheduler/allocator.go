package scheduler

import (
	"github.com/alexanderramin/slotter/internal/domain"
)

// RoundResult is the outcome of one allocation pass.
type RoundResult struct {
	Slots  []domain.SlotPlacements
	Manual []domain.ManualNeeded
}

// AssignedCount returns the number of placements across all slots.
func (r *RoundResult) AssignedCount() int {
	n := 0
	for _, sp := range r.Slots {
		n += len(sp.People)
	}
	return n
}

func (r *RoundResult) place(label string, p domain.Placement) {
	for i := range r.Slots {
		if r.Slots[i].Slot == label {
			r.Slots[i].People = append(r.Slots[i].People, p)
			return
		}
	}
	r.Slots = append(r.Slots, domain.SlotPlacements{Slot: label, People: []domain.Placement{p}})
}

// Allocate places every registrant of pool in FIFO order, trying their
// preferences in rank order and stopping at the first match. Registrants
// without a match land in the manual list with a classified reason.
// The pool is not modified; seats are consumed from table.
func Allocate(pool []domain.Registrant, catalog []domain.Slot, table *CapacityTable) RoundResult {
	ordered := make([]domain.Registrant, len(pool))
	copy(ordered, pool)
	SortFIFO(ordered)

	bounds := catalogBounds(catalog)
	var result RoundResult

	for i := range ordered {
		r := &ordered[i]
		var level *float64
		if v, ok := r.Level(); ok {
			level = &v
		}

		matched := false
		for _, pref := range r.Preferences {
			m, ok := MatchPreference(pref, level, catalog, table)
			if !ok {
				continue
			}
			result.place(m.Label, domain.Placement{Identity: r.Phone, Name: r.Name, Level: *level})
			matched = true
			break
		}
		if matched {
			continue
		}

		result.Manual = append(result.Manual, domain.ManualNeeded{
			Identity:    r.Phone,
			Name:        r.Name,
			Level:       level,
			Preferences: r.PreferenceList(),
			Reason:      classify(r, level, bounds),
		})
	}
	return result
}

type levelBounds struct {
	min, max float64
	empty    bool
}

func catalogBounds(catalog []domain.Slot) levelBounds {
	if len(catalog) == 0 {
		return levelBounds{empty: true}
	}
	b := levelBounds{min: float64(catalog[0].MinLevel), max: float64(catalog[0].MaxLevel)}
	for _, s := range catalog[1:] {
		if float64(s.MinLevel) < b.min {
			b.min = float64(s.MinLevel)
		}
		if float64(s.MaxLevel) > b.max {
			b.max = float64(s.MaxLevel)
		}
	}
	return b
}

// classify picks the first applicable reason. Level checks compare against
// the whole catalog, not a single slot's window.
func classify(r *domain.Registrant, level *float64, b levelBounds) domain.ReasonCode {
	switch {
	case !r.HasPreferences():
		return domain.ReasonNoPreferences
	case level == nil:
		return domain.ReasonLevelMissing
	case !b.empty && *level < b.min:
		return domain.ReasonLevelTooLow
	case !b.empty && *level > b.max:
		return domain.ReasonLevelTooHigh
	default:
		return domain.ReasonNoMatch
	}
}
