package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
)

// FormatFinalPlan renders the consolidated plan grouped by slot.
func FormatFinalPlan(plan *app.FinalPlan) string {
	var b strings.Builder

	for i, s := range plan.Slots {
		if i > 0 {
			b.WriteString("\n")
		}
		title := fmt.Sprintf("%s  %s", Bold(s.Slot), RenderFill(s.Total(), s.Capacity, fillBarWidth))
		b.WriteString(title + "\n")
		if len(s.Rows) == 0 {
			b.WriteString("  " + Dim("nobody") + "\n")
			continue
		}
		for _, row := range s.Rows {
			fmt.Fprintf(&b, "  %-24s %-12s %5s  %s %s\n",
				row.Name, row.Identity, levelCell(row.Level), OriginBadge(row.Origin), Dim(fmt.Sprintf("r%d", row.Round)))
		}
	}

	b.WriteString("\n")
	var automatic, manual int
	for _, row := range plan.Rows {
		if row.Origin == domain.OriginManual {
			manual++
		} else {
			automatic++
		}
	}
	fmt.Fprintf(&b, "%s placements: %d automatic, %d manual\n", Bold(itoa(len(plan.Rows))), automatic, manual)
	if !plan.FullyResolved {
		msg := "plan is not final yet"
		if plan.OpenManual > 0 {
			msg = fmt.Sprintf("plan is not final yet, %s", Plural(plan.OpenManual, "open manual case"))
		}
		b.WriteString(Warning(msg) + "\n")
	}

	return RenderBox("Plan "+plan.Period, b.String())
}

func levelCell(level float64) string {
	if level == 0 {
		return ""
	}
	return domain.FormatLevel(level)
}
