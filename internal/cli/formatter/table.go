package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Table is an aligned text table with a header separator line. Widths are
// measured on visible characters so styled cells line up.
type Table struct {
	Headers []string
	Rows    [][]string
	// Right lists the columns that are right aligned, typically counts.
	Right map[int]bool
	// Empty is shown instead of the separator and rows when there are no
	// rows. Blank keeps the header only.
	Empty string
}

// RenderTable renders a left-aligned table.
func RenderTable(headers []string, rows [][]string) string {
	return Table{Headers: headers, Rows: rows}.Render()
}

func (t Table) Render() string {
	cols := len(t.Headers)
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	styled := make([]string, cols)
	for i, h := range t.Headers {
		styled[i] = StyleHeader.Render(h)
	}
	t.writeLine(&b, styled, t.Headers, widths)

	if len(t.Rows) == 0 && t.Empty != "" {
		b.WriteString(Dim(t.Empty) + "\n")
		return b.String()
	}

	seps := make([]string, cols)
	for i, w := range widths {
		seps[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	t.writeLine(&b, seps, seps, widths)

	for _, row := range t.Rows {
		cells := make([]string, cols)
		copy(cells, row)
		t.writeLine(&b, cells, cells, widths)
	}
	return b.String()
}

// writeLine pads each rendered cell to its column width. plain is used for
// measuring when the rendered text carries styling the width ignores.
func (t Table) writeLine(b *strings.Builder, rendered, plain []string, widths []int) {
	last := len(rendered) - 1
	for i, cell := range rendered {
		pad := max(widths[i]-lipgloss.Width(plain[i]), 0)
		if t.Right[i] {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
			if i < last {
				b.WriteString(strings.Repeat(" ", colGap))
			}
			continue
		}
		b.WriteString(cell)
		if i < last {
			b.WriteString(strings.Repeat(" ", pad+colGap))
		}
	}
	b.WriteString("\n")
}
