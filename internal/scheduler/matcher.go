package scheduler

import (
	"strings"

	"github.com/alexanderramin/slotter/internal/domain"
)

// CapacityTable holds the remaining seats per slot label for one round run.
type CapacityTable struct {
	remaining map[string]int
}

// NewCapacityTable seeds a counter per catalog slot. Each slot starts at
// its capacity plus one, minus the seats already taken in earlier rounds,
// floored at zero. The extra seat means a slot with capacity C accepts
// C+1 people before matching fails; existing allocations depend on it.
func NewCapacityTable(catalog []domain.Slot, carried map[string]int) *CapacityTable {
	t := &CapacityTable{remaining: make(map[string]int, len(catalog))}
	for i := range catalog {
		label := catalog[i].Label()
		seats := catalog[i].Capacity + 1 - carried[label]
		if seats < 0 {
			seats = 0
		}
		t.remaining[label] = seats
	}
	return t
}

// Remaining returns the seats left for label.
func (t *CapacityTable) Remaining(label string) int {
	return t.remaining[label]
}

// Reserve takes one seat from label. It reports false when none are left.
func (t *CapacityTable) Reserve(label string) bool {
	if t.remaining[label] <= 0 {
		return false
	}
	t.remaining[label]--
	return true
}

// Release gives one seat back to label.
func (t *CapacityTable) Release(label string) {
	if _, ok := t.remaining[label]; ok {
		t.remaining[label]++
	}
}

// Match is a successful preference match.
type Match struct {
	Label string
	Index int
}

// MatchPreference finds the first catalog slot whose day prefixes pref,
// whose level window contains level and which still has a seat, and
// reserves that seat. A blank preference or a missing level never matches
// and leaves the table untouched.
func MatchPreference(pref string, level *float64, catalog []domain.Slot, table *CapacityTable) (Match, bool) {
	if strings.TrimSpace(pref) == "" || level == nil {
		return Match{}, false
	}
	for i := range catalog {
		slot := &catalog[i]
		if !slot.MatchesPreference(pref) || !slot.Accepts(*level) {
			continue
		}
		label := slot.Label()
		if table.Reserve(label) {
			return Match{Label: label, Index: i}, true
		}
	}
	return Match{}, false
}
