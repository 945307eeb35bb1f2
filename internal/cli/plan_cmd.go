package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	slotterapp "github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/cli/formatter"
	"github.com/alexanderramin/slotter/internal/export"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show or export the consolidated plan",
	}

	cmd.AddCommand(
		newPlanShowCmd(app),
		newPlanExportCmd(app),
	)

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show every placement of all rounds grouped by slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.FinalPlan(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFinalPlan(plan))
			return nil
		},
	}
}

func newPlanExportCmd(app *App) *cobra.Command {
	var (
		format, out string
		firstWeek   string
		weeks       int
		duration    time.Duration
		location    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the plan as CSV, XLSX or iCalendar",
		Long: `Write the plan as CSV, XLSX or iCalendar.

The format follows the extension of --out unless --format is given. Use
--out - to write to standard output. Calendar exports place every slot
with people in it as a weekly event starting in the week of --first-week.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = filepath.Ext(out)
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			opts := app.Export
			opts.ICS = export.ICSOptions{Weeks: weeks, Duration: duration, Location: location}
			if firstWeek != "" {
				opts.ICS.FirstWeek, err = time.Parse("2006-01-02", firstWeek)
				if err != nil {
					return fmt.Errorf("invalid --first-week %q: %w", firstWeek, err)
				}
			}

			plan, err := app.Plans.FinalPlan(context.Background())
			if err != nil {
				return err
			}
			if !plan.FullyResolved {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning("exporting a plan that is not final yet"))
			}

			if err := writePlan(cmd, out, f, plan, opts); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s placements to %s\n", formatter.Bold(fmt.Sprint(len(plan.Rows))), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "csv, xlsx or ics")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, or - for standard output")
	cmd.Flags().StringVar(&firstWeek, "first-week", "", "Any date in the first training week (YYYY-MM-DD, ics only)")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Number of training weeks (ics only, 0 repeats without end)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Length of slots without an end time (ics only, default 1h30m)")
	cmd.Flags().StringVar(&location, "location", "", "Event location (ics only)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func writePlan(cmd *cobra.Command, out string, f export.Format, plan *slotterapp.FinalPlan, opts export.Options) (err error) {
	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		file, createErr := os.Create(out)
		if createErr != nil {
			return createErr
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		w = file
	}

	err = export.Write(w, f, plan, opts)
	var skipped *export.SkippedSlotsError
	if errors.As(err, &skipped) {
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning(skipped.Error()))
		return nil
	}
	return err
}
