package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
)

// FormatRunResult summarizes one allocation run: the people placed per
// slot, how the pool was narrowed and who needs a manual decision.
func FormatRunResult(resp *app.RunRoundResponse) string {
	var b strings.Builder
	rec := resp.Record

	b.WriteString(Header(fmt.Sprintf("Round %d", resp.Round)) + "\n")
	if resp.Replaced {
		b.WriteString(Dim("Earlier run of this round replaced.") + "\n")
	}
	if resp.DroppedManual > 0 {
		b.WriteString(Warning(fmt.Sprintf("%s from the earlier run discarded", Plural(resp.DroppedManual, "manual assignment"))) + "\n")
	}

	p := resp.Pool
	fmt.Fprintf(&b, "%s %d candidates, %d excluded, %d not taking part this round, %d already in every slot, %d repeat placements removed\n\n",
		Dim("Pool:"), p.Candidates, p.Excluded, p.Ineligible, p.Saturated, p.Stripped)

	rows := make([][]string, 0, len(rec.AssignedBySlot))
	for _, sp := range rec.AssignedBySlot {
		names := make([]string, 0, len(sp.People))
		for _, person := range sp.People {
			names = append(names, person.Name)
		}
		rows = append(rows, []string{sp.Slot, itoa(len(sp.People)), strings.Join(names, ", ")})
	}
	b.WriteString(Table{
		Headers: []string{"SLOT", "N", "PEOPLE"},
		Rows:    rows,
		Right:   map[int]bool{1: true},
		Empty:   "nobody placed",
	}.Render())

	fmt.Fprintf(&b, "\n%s placed automatically", Bold(itoa(len(rec.Assigned))))
	if n := len(rec.ManualNeeded); n > 0 {
		b.WriteString(", " + StyleYellow.Render(fmt.Sprintf("%d need a manual decision", n)))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatManualNeeded lists the registrants of a round still waiting for a
// manual placement.
func FormatManualNeeded(round int, entries []domain.ManualNeeded) string {
	if len(entries) == 0 {
		return StyleGreen.Render(fmt.Sprintf("Round %d has no open manual cases.", round))
	}
	rows := make([][]string, 0, len(entries))
	for _, m := range entries {
		prefs := strings.Join(m.Preferences, " / ")
		if prefs == "" {
			prefs = Dim("--")
		}
		rows = append(rows, []string{m.Identity, m.Name, m.LevelDisplay(), m.ReasonText(), prefs})
	}
	return Header(fmt.Sprintf("Round %d manual", round)) + "\n" +
		Table{
			Headers: []string{"PHONE", "NAME", "LEVEL", "REASON", "PREFERENCES"},
			Rows:    rows,
			Right:   map[int]bool{2: true},
		}.Render()
}
