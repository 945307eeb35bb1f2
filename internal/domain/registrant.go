package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Registrant is one row of a per-choice dataset: a person asking for their
// Choice-th weekly training, with up to three ranked slot preferences.
type Registrant struct {
	ID           string
	Period       string
	Choice       int
	Phone        string
	Name         string
	LevelText    string
	Frequency    int
	PermitHigher bool
	Preferences  [3]string
	SubmittedAt  string
	Note         string
	CreatedAt    time.Time
}

// Level parses the registrant's skill level. ok is false when it is missing
// or not numeric.
func (r *Registrant) Level() (float64, bool) {
	return ParseLevel(r.LevelText)
}

// HasPreferences reports whether at least one preference is filled in.
func (r *Registrant) HasPreferences() bool {
	for _, p := range r.Preferences {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// PreferenceList returns the non-blank preferences in rank order.
func (r *Registrant) PreferenceList() []string {
	out := make([]string, 0, len(r.Preferences))
	for _, p := range r.Preferences {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SubmittedTime parses SubmittedAt. Unparsable values report ok=false and
// the zero time, which sorts before every real submission.
func (r *Registrant) SubmittedTime() (time.Time, bool) {
	return ParseSubmittedAt(r.SubmittedAt)
}

// ParseLevel accepts "6", "6.5" and the comma form "6,5".
func ParseLevel(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatLevel renders a level without a trailing ".0" for whole numbers.
func FormatLevel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var submittedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseSubmittedAt parses a submission timestamp in any of the layouts the
// registration sources have produced.
func ParseSubmittedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range submittedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SubmittedAtLayout is the layout used when stamping new submissions.
const SubmittedAtLayout = "2006-01-02 15:04:05"

// ParseFrequency accepts "2", "2x", "2x per week" and similar. Unknown
// values return 0 and an error.
func ParseFrequency(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("frequency is empty")
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("frequency %q: expected 1, 2 or 3 per week", s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 || n > MaxRound {
		return 0, fmt.Errorf("frequency %q: expected 1, 2 or 3 per week", s)
	}
	return n, nil
}

// FrequencyLabel renders a weekly frequency the way registrations store it.
func FrequencyLabel(n int) string {
	if n < 1 {
		return ""
	}
	return fmt.Sprintf("%dx per week", n)
}
