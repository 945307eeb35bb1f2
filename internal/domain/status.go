package domain

import (
	"slices"
	"sort"
	"time"
)

// PlanningStatus is the persisted state of the three-round process for one
// working period.
type PlanningStatus struct {
	CurrentRound      int                        `json:"current_round"`
	RoundsCompleted   []int                      `json:"rounds_completed"`
	ManualAssignments map[int][]ManualAssignment `json:"manual_assignments"`
	ExcludedPeople    []string                   `json:"excluded_people"`
	PlanningHistory   []RoundRecord              `json:"planning_history"`
}

// DefaultStatus is the initial state: round 1 active, nothing planned.
func DefaultStatus() *PlanningStatus {
	return &PlanningStatus{
		CurrentRound:      MinRound,
		RoundsCompleted:   []int{},
		ManualAssignments: map[int][]ManualAssignment{},
		ExcludedPeople:    []string{},
		PlanningHistory:   []RoundRecord{},
	}
}

// Normalize repairs a loaded document in place and returns the number of
// duplicate history records it collapsed. When several records share a
// round number only the one with the latest timestamp survives; on equal
// timestamps the later entry wins.
func (s *PlanningStatus) Normalize() int {
	if s.CurrentRound < MinRound {
		s.CurrentRound = MinRound
	}
	if s.CurrentRound > MaxRound {
		s.CurrentRound = MaxRound
	}
	if s.ManualAssignments == nil {
		s.ManualAssignments = map[int][]ManualAssignment{}
	}
	if s.ExcludedPeople == nil {
		s.ExcludedPeople = []string{}
	}

	completed := make([]int, 0, len(s.RoundsCompleted))
	for _, r := range s.RoundsCompleted {
		if ValidRound(r) && !slices.Contains(completed, r) {
			completed = append(completed, r)
		}
	}
	sort.Ints(completed)
	s.RoundsCompleted = completed

	collapsed := 0
	byRound := make(map[int]int)
	history := make([]RoundRecord, 0, len(s.PlanningHistory))
	for _, rec := range s.PlanningHistory {
		if !ValidRound(rec.Round) {
			continue
		}
		if idx, ok := byRound[rec.Round]; ok {
			collapsed++
			if !rec.Timestamp.Before(history[idx].Timestamp) {
				history[idx] = rec
			}
			continue
		}
		byRound[rec.Round] = len(history)
		history = append(history, rec)
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Round < history[j].Round })
	s.PlanningHistory = history
	return collapsed
}

// IsCompleted reports whether round n has been completed.
func (s *PlanningStatus) IsCompleted(n int) bool {
	return slices.Contains(s.RoundsCompleted, n)
}

// RoundState returns the lifecycle state of round n.
func (s *PlanningStatus) RoundState(n int) RoundState {
	switch {
	case s.IsCompleted(n):
		return RoundCompleted
	case n == s.CurrentRound:
		return RoundActive
	default:
		return RoundPending
	}
}

// CanRun checks that round n may be (re-)run automatically.
func (s *PlanningStatus) CanRun(n int) error {
	if !ValidRound(n) {
		return ErrInvalidRound
	}
	if s.IsCompleted(n) {
		return ErrRoundCompleted
	}
	if n > s.CurrentRound {
		return ErrRoundNotReached
	}
	if n != s.CurrentRound {
		return ErrRoundNotActive
	}
	return nil
}

// Record returns the history record for round n.
func (s *PlanningStatus) Record(n int) (*RoundRecord, bool) {
	for i := range s.PlanningHistory {
		if s.PlanningHistory[i].Round == n {
			return &s.PlanningHistory[i], true
		}
	}
	return nil, false
}

// PutRecord stores rec as the single history record of its round,
// replacing an existing record in place.
func (s *PlanningStatus) PutRecord(rec RoundRecord) {
	if existing, ok := s.Record(rec.Round); ok {
		*existing = rec
		return
	}
	idx := sort.Search(len(s.PlanningHistory), func(i int) bool {
		return s.PlanningHistory[i].Round > rec.Round
	})
	s.PlanningHistory = slices.Insert(s.PlanningHistory, idx, rec)
}

// ManualResolved reports whether identity already has a manual assignment
// in round n.
func (s *PlanningStatus) ManualResolved(n int, identity string) bool {
	for _, ma := range s.ManualAssignments[n] {
		if ma.Identity == identity {
			return true
		}
	}
	return false
}

// OpenManualNeeded returns the manual-needed entries of round n that have
// not yet been resolved by a manual assignment.
func (s *PlanningStatus) OpenManualNeeded(n int) []ManualNeeded {
	rec, ok := s.Record(n)
	if !ok {
		return nil
	}
	var open []ManualNeeded
	for _, m := range rec.ManualNeeded {
		if !s.ManualResolved(n, m.Identity) {
			open = append(open, m)
		}
	}
	return open
}

// OpenManualCount counts unresolved manual-needed entries across all rounds.
func (s *PlanningStatus) OpenManualCount() int {
	total := 0
	for _, rec := range s.PlanningHistory {
		total += len(s.OpenManualNeeded(rec.Round))
	}
	return total
}

// FullyResolved reports whether planning has run at least once and every
// manual-needed entry in history has a matching manual assignment.
func (s *PlanningStatus) FullyResolved() bool {
	return len(s.PlanningHistory) > 0 && s.OpenManualCount() == 0
}

// Holds reports whether identity holds slot in any round.
func (s *PlanningStatus) Holds(identity, slot string) bool {
	for _, a := range s.Assignments() {
		if a.Identity == identity && a.Slot == slot {
			return true
		}
	}
	for _, ledger := range s.ManualAssignments {
		for _, ma := range ledger {
			if ma.Identity == identity && ma.Slot == slot {
				return true
			}
		}
	}
	return false
}

// RecordManual resolves the manual-needed entry of identity in round n by
// assigning them to slot. The entry's name and level are carried over.
func (s *PlanningStatus) RecordManual(n int, identity, slot string, now time.Time) (ManualAssignment, error) {
	if !ValidRound(n) {
		return ManualAssignment{}, ErrInvalidRound
	}
	if s.ManualResolved(n, identity) {
		return ManualAssignment{}, ErrAlreadyResolved
	}
	rec, ok := s.Record(n)
	if !ok {
		return ManualAssignment{}, ErrNoManualEntry
	}
	var entry *ManualNeeded
	for i := range rec.ManualNeeded {
		if rec.ManualNeeded[i].Identity == identity {
			entry = &rec.ManualNeeded[i]
			break
		}
	}
	if entry == nil {
		return ManualAssignment{}, ErrNoManualEntry
	}
	if s.Holds(identity, slot) {
		return ManualAssignment{}, ErrDuplicateSlot
	}

	ma := ManualAssignment{
		Identity:  identity,
		Name:      entry.Name,
		Level:     entry.Level,
		Slot:      slot,
		Timestamp: now,
	}
	var level float64
	if entry.Level != nil {
		level = *entry.Level
	}
	s.ManualAssignments[n] = append(s.ManualAssignments[n], ma)
	rec.Assigned = append(rec.Assigned, Assignment{
		Identity:  identity,
		Name:      entry.Name,
		Level:     level,
		Slot:      slot,
		Round:     n,
		Origin:    OriginManual,
		Timestamp: now,
	})
	return ma, nil
}

// Complete closes the active round n and moves the pointer to the next
// round. Past the last round the pointer stays put.
func (s *PlanningStatus) Complete(n int) error {
	if err := s.CanRun(n); err != nil {
		return err
	}
	s.RoundsCompleted = append(s.RoundsCompleted, n)
	sort.Ints(s.RoundsCompleted)
	if n < MaxRound {
		s.CurrentRound = n + 1
	}
	return nil
}

// ResetRound forgets everything about round n (history record, manual
// ledger and completion mark) and makes it the active round again. It is
// rejected once a later round has been run or completed.
func (s *PlanningStatus) ResetRound(n int) error {
	if !ValidRound(n) {
		return ErrInvalidRound
	}
	if n > s.CurrentRound {
		return ErrRoundNotReached
	}
	if s.laterRoundPlanned(n) {
		return ErrLaterRoundPlanned
	}
	s.PlanningHistory = slices.DeleteFunc(s.PlanningHistory, func(r RoundRecord) bool {
		return r.Round == n
	})
	delete(s.ManualAssignments, n)
	s.RoundsCompleted = slices.DeleteFunc(s.RoundsCompleted, func(r int) bool { return r == n })
	s.CurrentRound = n
	return nil
}

func (s *PlanningStatus) laterRoundPlanned(n int) bool {
	for _, rec := range s.PlanningHistory {
		if rec.Round > n {
			return true
		}
	}
	for round, entries := range s.ManualAssignments {
		if round > n && len(entries) > 0 {
			return true
		}
	}
	return slices.ContainsFunc(s.RoundsCompleted, func(r int) bool { return r > n })
}

// Reset returns the status to its initial state.
func (s *PlanningStatus) Reset() {
	*s = *DefaultStatus()
}

// IsExcluded reports whether identity was excluded from planning.
func (s *PlanningStatus) IsExcluded(identity string) bool {
	return slices.Contains(s.ExcludedPeople, identity)
}

// Exclude removes identity from all future candidate pools.
func (s *PlanningStatus) Exclude(identity string) bool {
	if s.IsExcluded(identity) {
		return false
	}
	s.ExcludedPeople = append(s.ExcludedPeople, identity)
	return true
}

// Include undoes Exclude.
func (s *PlanningStatus) Include(identity string) bool {
	before := len(s.ExcludedPeople)
	s.ExcludedPeople = slices.DeleteFunc(s.ExcludedPeople, func(p string) bool { return p == identity })
	return len(s.ExcludedPeople) != before
}

// Assignments returns every assignment in history, automatic and manual,
// in round order.
func (s *PlanningStatus) Assignments() []Assignment {
	var out []Assignment
	for _, rec := range s.PlanningHistory {
		out = append(out, rec.Assigned...)
	}
	return out
}
