package scheduler

import (
	"fmt"

	"github.com/alexanderramin/slotter/internal/domain"
)

// Held maps an identity to the slot labels it already holds.
type Held map[string]map[string]bool

// Has reports whether identity holds label.
func (h Held) Has(identity, label string) bool {
	return h[identity][label]
}

func (h Held) add(identity, label string) {
	set, ok := h[identity]
	if !ok {
		set = make(map[string]bool)
		h[identity] = set
	}
	set[label] = true
}

// HeldSlots collects the slots each identity holds from rounds before
// round, from both the history records and the manual ledger.
func HeldSlots(status *domain.PlanningStatus, round int) Held {
	held := make(Held)
	for _, rec := range status.PlanningHistory {
		if rec.Round >= round {
			continue
		}
		for _, a := range rec.Assigned {
			held.add(a.Identity, a.Slot)
		}
	}
	for r, ledger := range status.ManualAssignments {
		if r >= round {
			continue
		}
		for _, ma := range ledger {
			held.add(ma.Identity, ma.Slot)
		}
	}
	return held
}

// FilterPool drops registrants that already hold every slot in catalog.
// An empty catalog filters nobody.
func FilterPool(pool []domain.Registrant, catalog []domain.Slot, held Held) []domain.Registrant {
	out := make([]domain.Registrant, 0, len(pool))
	for _, r := range pool {
		if len(catalog) > 0 && holdsAll(held, r.Phone, catalog) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func holdsAll(held Held, identity string, catalog []domain.Slot) bool {
	for i := range catalog {
		if !held.Has(identity, catalog[i].Label()) {
			return false
		}
	}
	return true
}

// StripDuplicates removes placements whose slot the person already holds,
// returns their seat to table and lists them as manual-needed with
// ReasonAlreadyAssigned. It returns the number of placements removed.
func StripDuplicates(result *RoundResult, held Held, table *CapacityTable) int {
	stripped := 0
	slots := result.Slots[:0]
	for _, sp := range result.Slots {
		kept := sp.People[:0]
		for _, p := range sp.People {
			if !held.Has(p.Identity, sp.Slot) {
				kept = append(kept, p)
				continue
			}
			stripped++
			table.Release(sp.Slot)
			level := p.Level
			result.Manual = append(result.Manual, domain.ManualNeeded{
				Identity: p.Identity,
				Name:     p.Name,
				Level:    &level,
				Reason:   domain.ReasonAlreadyAssigned,
				Detail:   fmt.Sprintf("already assigned to %s in a previous round", sp.Slot),
			})
		}
		if len(kept) > 0 {
			sp.People = kept
			slots = append(slots, sp)
		}
	}
	result.Slots = slots
	return stripped
}
