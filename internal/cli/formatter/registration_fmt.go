package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
)

// FormatSlotList renders the catalog in catalog order.
func FormatSlotList(slots []domain.Slot) string {
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		levels := fmt.Sprintf("%d-%d", s.MinLevel, s.MaxLevel)
		if s.MinLevel == s.MaxLevel {
			levels = itoa(s.MinLevel)
		}
		rows = append(rows, []string{itoa(s.Position), s.Label(), levels, itoa(s.Capacity)})
	}
	return Table{
		Headers: []string{"#", "SLOT", "LEVELS", "CAPACITY"},
		Rows:    rows,
		Right:   map[int]bool{0: true, 3: true},
		Empty:   "no slots defined",
	}.Render()
}

// FormatRegistrantList renders one per-choice dataset in stored order.
func FormatRegistrantList(choice int, regs []domain.Registrant) string {
	rows := make([][]string, 0, len(regs))
	for _, r := range regs {
		level := r.LevelText
		if _, ok := r.Level(); !ok {
			level = StyleRed.Render(coalesce(level, "?"))
		}
		prefs := strings.Join(r.PreferenceList(), " / ")
		rows = append(rows, []string{r.Phone, r.Name, level, domain.FrequencyLabel(r.Frequency), prefs, r.SubmittedAt})
	}
	return Header(fmt.Sprintf("Choice %d", choice)) + "\n" +
		Table{
			Headers: []string{"PHONE", "NAME", "LEVEL", "PER WEEK", "PREFERENCES", "SUBMITTED"},
			Rows:    rows,
			Empty:   "no registrations",
		}.Render()
}

// FormatCounts renders the number of rows in each per-choice dataset.
func FormatCounts(counts map[int]int) string {
	choices := make([]int, 0, len(counts))
	for c := range counts {
		choices = append(choices, c)
	}
	sort.Ints(choices)

	rows := make([][]string, 0, len(choices))
	for _, c := range choices {
		rows = append(rows, []string{itoa(c), itoa(counts[c])})
	}
	return Table{
		Headers: []string{"CHOICE", "REGISTRATIONS"},
		Rows:    rows,
		Right:   map[int]bool{1: true},
		Empty:   "no registrations",
	}.Render()
}

// FormatSubmitResult confirms a stored submission and lists permission
// warnings.
func FormatSubmitResult(res *app.SubmitResult) string {
	var b strings.Builder
	verb := "Registered"
	if res.Replaced {
		verb = "Updated registration of"
	}
	fmt.Fprintf(&b, "%s %s (%s)\n", verb, Bold(res.Identity), Plural(res.Rows, "training"))
	for _, w := range res.Warnings {
		msg := fmt.Sprintf("choice %d: %q needs level %d, registered level is %s",
			w.Choice, w.Preference, w.MinLevel, domain.FormatLevel(w.Level))
		b.WriteString(Warning(msg) + "\n")
	}
	return b.String()
}

func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
