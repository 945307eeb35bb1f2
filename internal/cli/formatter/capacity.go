package formatter

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderFill renders how full a slot is, like [█████░░░] 5/8. Free seats
// keep the bar green, the last seat turns it yellow and a full slot red.
// The bar is scaled to width cells; slots without capacity show "no seats".
func RenderFill(taken, capacity, width int) string {
	if capacity <= 0 {
		return Dim("no seats")
	}
	if width < 2 {
		width = 2
	}
	taken = max(taken, 0)

	filled := min(taken*width/capacity, width)
	if taken > 0 && filled == 0 {
		filled = 1
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch free := capacity - taken; {
	case free <= 0:
		style = StyleRed
	case free == 1:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), taken, capacity)
}

func itoa(n int) string { return strconv.Itoa(n) }
