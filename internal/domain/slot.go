package domain

import (
	"fmt"
	"strings"
	"time"
)

// SlotKey is the composite identity of a slot. History refers to slots by
// the label rendered from this key, so renaming a day, time or trainer
// breaks continuity with earlier assignments.
type SlotKey struct {
	Day     string
	Time    string
	Trainer string
}

// Label renders the key as "<Day> <Time>" or "<Day> <Time> - <Trainer>".
func (k SlotKey) Label() string {
	label := strings.TrimSpace(k.Day) + " " + strings.TrimSpace(k.Time)
	if t := strings.TrimSpace(k.Trainer); t != "" {
		label += " - " + t
	}
	return label
}

func (k SlotKey) String() string { return k.Label() }

// Slot is one training definition in the catalog.
type Slot struct {
	ID        string
	Day       string
	Time      string
	MinLevel  int
	MaxLevel  int
	Capacity  int
	Trainer   string
	Position  int
	CreatedAt time.Time
}

func (s *Slot) Key() SlotKey {
	return SlotKey{Day: s.Day, Time: s.Time, Trainer: s.Trainer}
}

func (s *Slot) Label() string {
	return s.Key().Label()
}

// MatchesPreference reports whether a free-text preference refers to this
// slot. Preferences are matched on the day prefix only.
func (s *Slot) MatchesPreference(pref string) bool {
	pref = strings.TrimSpace(pref)
	day := strings.TrimSpace(s.Day)
	if pref == "" || day == "" {
		return false
	}
	return strings.HasPrefix(pref, day)
}

// Accepts reports whether level falls inside the inclusive level window.
func (s *Slot) Accepts(level float64) bool {
	return float64(s.MinLevel) <= level && level <= float64(s.MaxLevel)
}

// OptionText renders the slot the way registration forms offer it,
// e.g. "Monday 19:00 - Anna (Level 5-9)".
func (s *Slot) OptionText() string {
	if s.MinLevel == s.MaxLevel {
		return fmt.Sprintf("%s (Level %d)", s.Label(), s.MinLevel)
	}
	return fmt.Sprintf("%s (Level %d-%d)", s.Label(), s.MinLevel, s.MaxLevel)
}

// Validate checks the slot definition.
func (s *Slot) Validate() error {
	if strings.TrimSpace(s.Day) == "" {
		return fmt.Errorf("slot day is required")
	}
	if strings.TrimSpace(s.Time) == "" {
		return fmt.Errorf("slot time is required")
	}
	if s.MinLevel > s.MaxLevel {
		return fmt.Errorf("slot %s: min level %d exceeds max level %d", s.Label(), s.MinLevel, s.MaxLevel)
	}
	if s.Capacity < 0 {
		return fmt.Errorf("slot %s: capacity must not be negative", s.Label())
	}
	return nil
}

var dayOrder = map[string]int{
	"maandag": 1, "dinsdag": 2, "woensdag": 3, "donderdag": 4, "vrijdag": 5, "zaterdag": 6, "zondag": 7,
	"monday": 1, "tuesday": 2, "wednesday": 3, "thursday": 4, "friday": 5, "saturday": 6, "sunday": 7,
}

// DayIndex returns 1 (Monday) through 7 (Sunday) for the first word of a
// label, or 8 when the day is not recognised.
func DayIndex(label string) int {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 8
	}
	if idx, ok := dayOrder[strings.ToLower(fields[0])]; ok {
		return idx
	}
	return 8
}

// Weekday converts a day name to a time.Weekday.
func Weekday(day string) (time.Weekday, bool) {
	idx, ok := dayOrder[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return time.Sunday, false
	}
	return time.Weekday(idx % 7), true
}
