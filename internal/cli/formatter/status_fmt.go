package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/slotter/internal/app"
)

const fillBarWidth = 10

// FormatPlanningStatus renders the round overview, slot occupancy and the
// resolution state of a period.
func FormatPlanningStatus(view *app.PlanningStatusView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s   %s %d\n\n",
		Dim("Period"), Bold(view.Period), Dim("Current round"), view.CurrentRound)

	rounds := make([][]string, 0, len(view.Rounds))
	for _, r := range view.Rounds {
		open := itoa(r.OpenManual)
		if r.OpenManual > 0 {
			open = StyleYellow.Render(open)
		}
		rounds = append(rounds, []string{
			itoa(r.Round),
			RoundStateBadge(r.State),
			Timestamp(r.RanAt),
			itoa(r.Assigned),
			itoa(r.ManualNeeded),
			open,
		})
	}
	b.WriteString(Table{
		Headers: []string{"ROUND", "STATE", "RAN", "ASSIGNED", "MANUAL", "OPEN"},
		Rows:    rounds,
		Right:   map[int]bool{3: true, 4: true, 5: true},
	}.Render())

	if len(view.Slots) > 0 {
		b.WriteString("\n")
		slots := make([][]string, 0, len(view.Slots))
		for _, s := range view.Slots {
			slots = append(slots, []string{s.Label, RenderFill(s.Taken, s.Capacity, fillBarWidth), itoa(s.Remaining)})
		}
		b.WriteString(Table{
			Headers: []string{"SLOT", "TAKEN", "LEFT"},
			Rows:    slots,
			Right:   map[int]bool{2: true},
		}.Render())
	}

	b.WriteString("\n")
	switch {
	case view.FullyResolved:
		b.WriteString(StyleGreen.Render("All rounds run and every manual case resolved.") + "\n")
	case view.OpenManual > 0:
		b.WriteString(StyleYellow.Render(fmt.Sprintf("%s waiting for a manual decision.", Plural(view.OpenManual, "registrant"))) + "\n")
	default:
		b.WriteString(Dim("No open manual cases.") + "\n")
	}

	if len(view.Excluded) > 0 {
		b.WriteString(Dim("Excluded: "+strings.Join(view.Excluded, ", ")) + "\n")
	}
	if view.Healed > 0 {
		b.WriteString(Warning(fmt.Sprintf("collapsed %s while loading", Plural(view.Healed, "duplicate round record"))) + "\n")
	}

	return RenderBox("Planning", b.String())
}
