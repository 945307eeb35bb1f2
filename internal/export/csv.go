package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
)

// WriteCSV writes the flat plan as semicolon separated values, the layout
// spreadsheet programs open directly in comma-decimal locales. With bom
// set the output starts with a UTF-8 byte order mark.
func WriteCSV(w io.Writer, plan *app.FinalPlan, bom bool) error {
	if bom {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(planHeader); err != nil {
		return err
	}
	for _, row := range plan.Rows {
		if err := cw.Write(planRecord(row)); err != nil {
			return fmt.Errorf("writing row for %s: %w", row.Identity, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func levelText(level float64) string {
	if level == 0 {
		return ""
	}
	return domain.FormatLevel(level)
}
