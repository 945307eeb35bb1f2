package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/slotter/internal/app"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatICS  Format = "ics"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case FormatCSV, FormatXLSX, FormatICS:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (csv, xlsx or ics)", s)
	}
}

// Options holds the settings of every writer; each one reads its own part.
type Options struct {
	CSVBOM bool
	ICS    ICSOptions
}

// Write renders plan in format f.
func Write(w io.Writer, f Format, plan *app.FinalPlan, opts Options) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, plan, opts.CSVBOM)
	case FormatXLSX:
		return WriteXLSX(w, plan)
	case FormatICS:
		return WriteICS(w, plan, opts.ICS)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

var planHeader = []string{"Slot", "Phone", "Name", "Level", "Origin", "Round"}

func planRecord(row app.FinalPlanRow) []string {
	return []string{
		row.Slot,
		row.Identity,
		row.Name,
		levelText(row.Level),
		string(row.Origin),
		fmt.Sprintf("%d", row.Round),
	}
}
