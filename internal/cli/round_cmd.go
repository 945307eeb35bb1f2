package cli

import (
	"context"
	"errors"
	"fmt"

	slotterapp "github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRoundCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Run and advance allocation rounds",
	}

	cmd.AddCommand(
		newRoundStatusCmd(app),
		newRoundRunCmd(app),
		newRoundCompleteCmd(app),
		newRoundResetCmd(app),
		newRoundResetAllCmd(app),
		newRoundExcludeCmd(app, true),
		newRoundExcludeCmd(app, false),
	)

	return cmd
}

// currentRound resolves a --round flag left at zero to the active round.
func currentRound(ctx context.Context, app *App, round int) (int, error) {
	if round != 0 {
		return round, nil
	}
	view, err := app.Planning.Status(ctx)
	if err != nil {
		return 0, err
	}
	return view.CurrentRound, nil
}

func newRoundStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show rounds, slot occupancy and open manual cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Planning.Status(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanningStatus(view))
			return nil
		},
	}
}

func newRoundRunCmd(app *App) *cobra.Command {
	var round int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Allocate the registrations of a round",
		Long: `Allocate the registrations of a round.

Rerunning a round replaces its earlier result; manual assignments made for
that round are discarded with it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Planning.RunRound(context.Background(), slotterapp.RunRoundRequest{Round: round})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatRunResult(resp))
			if len(resp.Record.ManualNeeded) > 0 {
				fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Next: slotter manual list --round %d", resp.Round)))
			} else {
				fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Next: slotter round complete --round %d", resp.Round)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&round, "round", 0, "Round to run (default: the current round)")

	return cmd
}

func newRoundCompleteCmd(app *App) *cobra.Command {
	var round int

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Mark a round completed and move on to the next",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			n, err := currentRound(ctx, app, round)
			if err != nil {
				return err
			}
			if err := app.Planning.CompleteRound(ctx, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Round %d completed\n", n)
			return nil
		},
	}

	cmd.Flags().IntVar(&round, "round", 0, "Round to complete (default: the current round)")

	return cmd
}

func newRoundResetCmd(app *App) *cobra.Command {
	var (
		round int
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the result and manual assignments of one round",
		Long:  "Discard the result and manual assignments of one round.\nLater rounds that were already run must be reset first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.confirm(fmt.Sprintf("Reset round %d? Its result and manual assignments are discarded.", round), yes)
			if err != nil {
				if errors.Is(err, errNotInteractive) {
					return errors.New("reset needs --yes when not run from a terminal")
				}
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			if err := app.Planning.ResetRound(context.Background(), round); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Round %d reset\n", round)
			return nil
		},
	}

	cmd.Flags().IntVar(&round, "round", 0, "Round to reset")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	_ = cmd.MarkFlagRequired("round")

	return cmd
}

func newRoundResetAllCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset-all",
		Short: "Return the period to round 1 with no history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.confirm(fmt.Sprintf("Reset all planning of period %q?", app.Period), yes)
			if err != nil {
				if errors.Is(err, errNotInteractive) {
					return errors.New("reset-all needs --yes when not run from a terminal")
				}
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			if err := app.Planning.ResetAll(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Planning reset to round 1")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// newRoundExcludeCmd builds "exclude" or, with exclude false, "include".
func newRoundExcludeCmd(app *App, exclude bool) *cobra.Command {
	use, short := "include PHONE", "Take an excluded person back into future rounds"
	if exclude {
		use, short = "exclude PHONE", "Leave a person out of future rounds"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var (
				changed bool
				err     error
			)
			if exclude {
				changed, err = app.Planning.Exclude(ctx, args[0])
			} else {
				changed, err = app.Planning.Include(ctx, args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case !changed && exclude:
				fmt.Fprintf(out, "%s was already excluded\n", args[0])
			case !changed:
				fmt.Fprintf(out, "%s was not excluded\n", args[0])
			case exclude:
				fmt.Fprintf(out, "Excluded %s from future rounds\n", args[0])
			default:
				fmt.Fprintf(out, "Included %s again\n", args[0])
			}
			return nil
		},
	}
}
