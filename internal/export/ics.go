package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
)

const (
	defaultTrainingDuration = 90 * time.Minute
	icsFloatingLayout       = "20060102T150405"
)

var clockPattern = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`)

// ICSOptions place the weekly trainings on the calendar.
type ICSOptions struct {
	// FirstWeek is any day of the first training week.
	FirstWeek time.Time
	// Weeks limits the recurrence; zero repeats without end.
	Weeks int
	// Duration applies to slots whose time has no end, e.g. "19:00".
	Duration time.Duration
	Location string
}

// WriteICS writes one weekly recurring event per slot that has people in
// it. Times are floating local times. Slots whose day or start time cannot
// be read are skipped and returned by name.
func WriteICS(w io.Writer, plan *app.FinalPlan, opts ICSOptions) error {
	cal, skipped := buildCalendar(plan, opts)
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return err
	}
	if len(skipped) > 0 {
		return &SkippedSlotsError{Slots: skipped}
	}
	return nil
}

// SkippedSlotsError lists slots left out of a calendar export. The
// calendar itself was written.
type SkippedSlotsError struct {
	Slots []string
}

func (e *SkippedSlotsError) Error() string {
	return "slots left out of the calendar (day or time not understood): " + strings.Join(e.Slots, ", ")
}

func buildCalendar(plan *app.FinalPlan, opts ICSOptions) (*ics.Calendar, []string) {
	if opts.Duration <= 0 {
		opts.Duration = defaultTrainingDuration
	}
	firstWeek := opts.FirstWeek
	if firstWeek.IsZero() {
		firstWeek = plan.GeneratedAt
	}
	stamp := plan.GeneratedAt.UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//slotter//training plan//EN")
	cal.SetXWRCalName("Trainingen " + plan.Period)

	var skipped []string
	for _, slot := range plan.Slots {
		if len(slot.Rows) == 0 {
			continue
		}
		start, end, ok := slotTimes(slot.Slot, firstWeek, opts.Duration)
		if !ok {
			skipped = append(skipped, slot.Slot)
			continue
		}

		event := cal.AddEvent(eventUID(plan.Period, slot.Slot))
		event.SetDtStampTime(stamp)
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsFloatingLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsFloatingLayout))
		event.SetSummary("Training " + slot.Slot)
		event.SetDescription(attendeeList(slot))
		if opts.Location != "" {
			event.SetLocation(opts.Location)
		}
		rule := "FREQ=WEEKLY"
		if opts.Weeks > 0 {
			rule += fmt.Sprintf(";COUNT=%d", opts.Weeks)
		}
		event.AddRrule(rule)
	}
	return cal, skipped
}

// slotTimes finds the first occurrence of a slot label such as
// "Maandag 18:00 - 19:30 - Tom" on or after the first week's Monday.
func slotTimes(label string, firstWeek time.Time, duration time.Duration) (time.Time, time.Time, bool) {
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return time.Time{}, time.Time{}, false
	}
	weekday, ok := domain.Weekday(fields[0])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	clocks := clockPattern.FindAllStringSubmatch(strings.Join(fields[1:], " "), 2)
	if len(clocks) == 0 {
		return time.Time{}, time.Time{}, false
	}

	monday := startOfWeek(firstWeek)
	offset := (int(weekday) + 6) % 7
	day := monday.AddDate(0, 0, offset)

	start, ok := atClock(day, clocks[0])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end := start.Add(duration)
	if len(clocks) > 1 {
		if e, ok := atClock(day, clocks[1]); ok && e.After(start) {
			end = e
		}
	}
	return start, end, true
}

func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
}

func atClock(day time.Time, match []string) (time.Time, bool) {
	var h, m int
	if _, err := fmt.Sscanf(match[1]+" "+match[2], "%d %d", &h, &m); err != nil || h > 23 || m > 59 {
		return time.Time{}, false
	}
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), true
}

func eventUID(period, label string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, label)
	return fmt.Sprintf("%s-%s@slotter", period, slug)
}

func attendeeList(slot app.SlotPlan) string {
	names := make([]string, 0, len(slot.Rows))
	for _, row := range slot.Rows {
		name := row.Name
		if lvl := levelText(row.Level); lvl != "" {
			name += " (" + lvl + ")"
		}
		names = append(names, name)
	}
	return strings.Join(names, "; ")
}
