package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/slotter/internal/domain"
)

var baseTime = time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

func at(minutes int) string {
	return baseTime.Add(time.Duration(minutes) * time.Minute).Format(domain.SubmittedAtLayout)
}

func person(phone, level string, submitted string, prefs ...string) domain.Registrant {
	r := domain.Registrant{
		Phone:       phone,
		Name:        "Person " + phone,
		LevelText:   level,
		Frequency:   1,
		SubmittedAt: submitted,
	}
	copy(r.Preferences[:], prefs)
	return r
}

func slot(day, tm string, minLevel, maxLevel, capacity int) domain.Slot {
	return domain.Slot{
		ID:       fmt.Sprintf("%s-%s", day, tm),
		Day:      day,
		Time:     tm,
		MinLevel: minLevel,
		MaxLevel: maxLevel,
		Capacity: capacity,
	}
}

func placedIDs(r RoundResult, label string) []string {
	for _, sp := range r.Slots {
		if sp.Slot != label {
			continue
		}
		ids := make([]string, 0, len(sp.People))
		for _, p := range sp.People {
			ids = append(ids, p.Identity)
		}
		return ids
	}
	return nil
}

func manualFor(r RoundResult, identity string) (domain.ManualNeeded, bool) {
	for _, m := range r.Manual {
		if m.Identity == identity {
			return m, true
		}
	}
	return domain.ManualNeeded{}, false
}
