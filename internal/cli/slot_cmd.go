package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/slotter/internal/cli/formatter"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/alexanderramin/slotter/internal/importer"
	"github.com/alexanderramin/slotter/internal/repository"
	"github.com/spf13/cobra"
)

func newSlotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Manage the training slot catalog",
	}

	cmd.AddCommand(
		newSlotAddCmd(app),
		newSlotListCmd(app),
		newSlotRemoveCmd(app),
		newSlotImportCmd(app),
	)

	return cmd
}

func newSlotAddCmd(app *App) *cobra.Command {
	var (
		s        domain.Slot
		position int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a slot to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			s.Position = position
			s.CreatedAt = time.Now().UTC()
			if err := app.Catalog.Add(context.Background(), &s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added slot %s\n", s.OptionText())
			return nil
		},
	}

	cmd.Flags().StringVar(&s.Day, "day", "", "Day of the week, e.g. Maandag")
	cmd.Flags().StringVar(&s.Time, "time", "", "Start time or range, e.g. 19:00 - 20:30")
	cmd.Flags().StringVar(&s.Trainer, "trainer", "", "Trainer name (part of the slot label)")
	cmd.Flags().IntVar(&s.MinLevel, "min-level", 1, "Lowest level admitted")
	cmd.Flags().IntVar(&s.MaxLevel, "max-level", 10, "Highest level admitted")
	cmd.Flags().IntVar(&s.Capacity, "capacity", 0, "Number of seats")
	cmd.Flags().IntVar(&position, "position", 0, "Catalog position (0 appends)")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("time")
	_ = cmd.MarkFlagRequired("capacity")

	return cmd
}

func newSlotListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog in allocation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := app.Catalog.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSlotList(slots))
			return nil
		},
	}
}

func newSlotRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove LABEL",
		Short: "Remove a slot by its label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Catalog.Delete(context.Background(), args[0]); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("no slot labelled %q", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed slot %s\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
}

func newSlotImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the catalog with the slots in a CSV or XLSX file",
		Long: `Replace the catalog with the slots in a CSV or XLSX file.

The header needs the columns Dag, Tijd, MinNiveau, MaxNiveau and Capaciteit
(English names Day, Time, Min level, Max level and Capacity work too).
Trainer is optional. Rows keep their file order as catalog order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := importer.ReadFile(args[0])
			if err != nil {
				return err
			}
			slots, problems := importer.ParseSlots(rows)
			if err := reportProblems(cmd, problems); err != nil {
				return err
			}
			n, err := app.Catalog.ReplaceAll(context.Background(), slots)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", formatter.Plural(n, "slot"))
			return nil
		},
	}
}

// reportProblems prints import errors and fails when there are any.
func reportProblems(cmd *cobra.Command, problems []error) error {
	if len(problems) == 0 {
		return nil
	}
	for _, p := range problems {
		fmt.Fprintln(cmd.ErrOrStderr(), "  "+p.Error())
	}
	return fmt.Errorf("%s found, nothing imported", formatter.Plural(len(problems), "problem"))
}
