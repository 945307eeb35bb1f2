package domain

import "time"

// Placement is one person placed in a slot by the allocator.
type Placement struct {
	Identity string  `json:"identity"`
	Name     string  `json:"name"`
	Level    float64 `json:"level"`
}

// SlotPlacements lists the people placed in one slot, in assignment order.
type SlotPlacements struct {
	Slot   string      `json:"slot"`
	People []Placement `json:"people"`
}

// Assignment is a (person, slot) pair established in a round.
type Assignment struct {
	Identity  string    `json:"identity"`
	Name      string    `json:"name"`
	Level     float64   `json:"level"`
	Slot      string    `json:"slot"`
	Round     int       `json:"round"`
	Origin    Origin    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// ManualNeeded is a registrant the allocator could not place. Level is nil
// when the registrant's level could not be parsed.
type ManualNeeded struct {
	Identity    string     `json:"identity"`
	Name        string     `json:"name"`
	Level       *float64   `json:"level,omitempty"`
	Preferences []string   `json:"preferences,omitempty"`
	Reason      ReasonCode `json:"reason"`
	Detail      string     `json:"detail,omitempty"`
}

// LevelDisplay renders the level, or "?" when it is missing.
func (m ManualNeeded) LevelDisplay() string {
	if m.Level == nil {
		return "?"
	}
	return FormatLevel(*m.Level)
}

// ReasonText returns the detail when present, otherwise the reason message.
func (m ManualNeeded) ReasonText() string {
	if m.Detail != "" {
		return m.Detail
	}
	return m.Reason.Message()
}

// ManualAssignment is an operator decision resolving a ManualNeeded entry.
type ManualAssignment struct {
	Identity  string    `json:"identity"`
	Name      string    `json:"name"`
	Level     *float64  `json:"level,omitempty"`
	Slot      string    `json:"slot"`
	Timestamp time.Time `json:"timestamp"`
}

// RoundRecord is the planning history entry for one round. There is at
// most one record per round number.
type RoundRecord struct {
	Round          int              `json:"round"`
	Timestamp      time.Time        `json:"timestamp"`
	AssignedBySlot []SlotPlacements `json:"assigned_by_slot"`
	ManualNeeded   []ManualNeeded   `json:"manual_needed"`
	Assigned       []Assignment     `json:"assigned"`
}

// FlattenAssigned derives the flat assigned list from AssignedBySlot.
func FlattenAssigned(round int, bySlot []SlotPlacements, at time.Time) []Assignment {
	var out []Assignment
	for _, sp := range bySlot {
		for _, p := range sp.People {
			out = append(out, Assignment{
				Identity:  p.Identity,
				Name:      p.Name,
				Level:     p.Level,
				Slot:      sp.Slot,
				Round:     round,
				Origin:    OriginAutomatic,
				Timestamp: at,
			})
		}
	}
	return out
}
