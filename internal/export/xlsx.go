package export

import (
	"fmt"
	"io"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/xuri/excelize/v2"
)

const (
	planSheet    = "Plan"
	summarySheet = "Summary"
)

var summaryHeader = []string{"Slot", "Capacity", "Automatic", "Manual", "Total"}

// WriteXLSX writes a workbook with the flat plan on sheet "Plan" and one
// line per slot on sheet "Summary".
func WriteXLSX(w io.Writer, plan *app.FinalPlan) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(planSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	planRows := make([][]any, 0, len(plan.Rows))
	for _, row := range plan.Rows {
		var level any = row.Level
		if row.Level == 0 {
			level = ""
		}
		planRows = append(planRows, []any{row.Slot, row.Identity, row.Name, level, string(row.Origin), row.Round})
	}
	if err := writeSheet(f, planSheet, planHeader, planRows, headerStyle, []float64{26, 14, 24, 8, 11, 7}); err != nil {
		return err
	}

	summaryRows := make([][]any, 0, len(plan.Slots)+1)
	var capacity, automatic, manual int
	for _, s := range plan.Slots {
		summaryRows = append(summaryRows, []any{s.Slot, s.Capacity, s.Automatic, s.Manual, s.Total()})
		capacity += s.Capacity
		automatic += s.Automatic
		manual += s.Manual
	}
	summaryRows = append(summaryRows, []any{"Total", capacity, automatic, manual, automatic + manual})
	if err := writeSheet(f, summarySheet, summaryHeader, summaryRows, headerStyle, []float64{26, 10, 11, 9, 8}); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int, widths []float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}
