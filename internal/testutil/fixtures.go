package testutil

import (
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/google/uuid"
)

// TestPeriod is the working period used by fixtures.
const TestPeriod = "test"

var testPhoneCounter atomic.Int64

// BaseTime anchors fixture submission timestamps.
var BaseTime = time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

// Slot options
type SlotOption func(*domain.Slot)

func WithTrainer(name string) SlotOption {
	return func(s *domain.Slot) {
		s.Trainer = name
	}
}

func WithLevels(min, max int) SlotOption {
	return func(s *domain.Slot) {
		s.MinLevel = min
		s.MaxLevel = max
	}
}

func WithCapacity(c int) SlotOption {
	return func(s *domain.Slot) {
		s.Capacity = c
	}
}

// NewTestSlot builds a slot open to levels 1-10 with capacity 10.
func NewTestSlot(day, tm string, opts ...SlotOption) *domain.Slot {
	s := &domain.Slot{
		ID:        uuid.New().String(),
		Day:       day,
		Time:      tm,
		MinLevel:  1,
		MaxLevel:  10,
		Capacity:  10,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registrant options
type RegistrantOption func(*domain.Registrant)

func WithPhone(phone string) RegistrantOption {
	return func(r *domain.Registrant) {
		r.Phone = phone
	}
}

func WithLevel(level string) RegistrantOption {
	return func(r *domain.Registrant) {
		r.LevelText = level
	}
}

func WithFrequency(n int) RegistrantOption {
	return func(r *domain.Registrant) {
		r.Frequency = n
	}
}

func WithChoice(n int) RegistrantOption {
	return func(r *domain.Registrant) {
		r.Choice = n
	}
}

func WithPreferences(prefs ...string) RegistrantOption {
	return func(r *domain.Registrant) {
		r.Preferences = [3]string{}
		copy(r.Preferences[:], prefs)
	}
}

// WithSubmittedAfter stamps the submission minutes after BaseTime.
func WithSubmittedAfter(minutes int) RegistrantOption {
	return func(r *domain.Registrant) {
		r.SubmittedAt = BaseTime.Add(time.Duration(minutes) * time.Minute).Format(domain.SubmittedAtLayout)
	}
}

func WithPermitHigher() RegistrantOption {
	return func(r *domain.Registrant) {
		r.PermitHigher = true
	}
}

func WithPeriod(p string) RegistrantOption {
	return func(r *domain.Registrant) {
		r.Period = p
	}
}

// NewTestRegistrant builds a level 6, once-a-week registrant in dataset 1
// of TestPeriod with a unique phone number.
func NewTestRegistrant(name string, opts ...RegistrantOption) *domain.Registrant {
	n := testPhoneCounter.Add(1)
	r := &domain.Registrant{
		ID:          uuid.New().String(),
		Period:      TestPeriod,
		Choice:      1,
		Phone:       fmt.Sprintf("0600%06d", n),
		Name:        name,
		LevelText:   "6",
		Frequency:   1,
		SubmittedAt: BaseTime.Format(domain.SubmittedAtLayout),
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewTestRecord builds a round record holding the given automatic
// assignments, keyed as identity -> slot label. Identities are placed in
// sorted order.
func NewTestRecord(round int, at time.Time, assigned map[string]string) domain.RoundRecord {
	identities := make([]string, 0, len(assigned))
	for identity := range assigned {
		identities = append(identities, identity)
	}
	sort.Strings(identities)

	var bySlot []domain.SlotPlacements
	index := make(map[string]int)
	for _, identity := range identities {
		slot := assigned[identity]
		i, ok := index[slot]
		if !ok {
			i = len(bySlot)
			index[slot] = i
			bySlot = append(bySlot, domain.SlotPlacements{Slot: slot})
		}
		bySlot[i].People = append(bySlot[i].People, domain.Placement{Identity: identity, Name: identity, Level: 6})
	}
	return domain.RoundRecord{
		Round:          round,
		Timestamp:      at,
		AssignedBySlot: bySlot,
		Assigned:       domain.FlattenAssigned(round, bySlot, at),
	}
}
