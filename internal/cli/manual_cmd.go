package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	slotterapp "github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/cli/formatter"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/spf13/cobra"
)

func newManualCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Resolve registrants the allocator could not place",
	}

	cmd.AddCommand(
		newManualListCmd(app),
		newManualAssignCmd(app),
	)

	return cmd
}

func newManualListCmd(app *App) *cobra.Command {
	var round int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the open manual cases of a round",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			n, err := currentRound(ctx, app, round)
			if err != nil {
				return err
			}
			entries, err := app.Planning.OpenManual(ctx, n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatManualNeeded(n, entries))
			return nil
		},
	}

	cmd.Flags().IntVar(&round, "round", 0, "Round (default: the current round)")

	return cmd
}

func newManualAssignCmd(app *App) *cobra.Command {
	var (
		round int
		phone string
		slot  string
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Place an open manual case in a slot",
		Long: `Place an open manual case in a slot.

Without --slot the catalog is offered as a list. Manual placements may go
over a slot's capacity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			n, err := currentRound(ctx, app, round)
			if err != nil {
				return err
			}

			if strings.TrimSpace(slot) == "" {
				slot, err = pickSlot(ctx, app, n, phone)
				if err != nil {
					return err
				}
			}

			ma, err := app.Planning.AssignManual(ctx, slotterapp.ManualAssignRequest{Round: n, Identity: phone, Slot: slot})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s (%s) to %s in round %d\n", ma.Name, ma.Identity, ma.Slot, n)
			return nil
		},
	}

	cmd.Flags().IntVar(&round, "round", 0, "Round (default: the current round)")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number of the open case")
	cmd.Flags().StringVar(&slot, "slot", "", "Slot label, e.g. \"Maandag 19:00 - Tom\"")
	_ = cmd.MarkFlagRequired("phone")

	return cmd
}

// pickSlot prompts for a slot, describing the case with its preferences.
func pickSlot(ctx context.Context, app *App, round int, phone string) (string, error) {
	if !app.interactive() {
		return "", errors.New("--slot is required when not run from a terminal")
	}
	slots, err := app.Catalog.List(ctx)
	if err != nil {
		return "", err
	}
	if len(slots) == 0 {
		return "", errors.New("the catalog has no slots")
	}

	title := "Slot for " + phone
	var description string
	if entry, ok := findOpenCase(ctx, app, round, phone); ok {
		title = fmt.Sprintf("Slot for %s (level %s)", entry.Name, entry.LevelDisplay())
		description = entry.ReasonText()
		if len(entry.Preferences) > 0 {
			description += "; wanted " + strings.Join(entry.Preferences, " / ")
		}
	}

	var chosen string
	if err := app.runForm(slotPickerForm(title, description, slots, &chosen)); err != nil {
		return "", err
	}
	if chosen == "" {
		return "", errors.New("no slot chosen")
	}
	return chosen, nil
}

func findOpenCase(ctx context.Context, app *App, round int, phone string) (domain.ManualNeeded, bool) {
	entries, err := app.Planning.OpenManual(ctx, round)
	if err != nil {
		return domain.ManualNeeded{}, false
	}
	phone = strings.TrimSpace(phone)
	for _, e := range entries {
		if e.Identity == phone {
			return e, true
		}
	}
	return domain.ManualNeeded{}, false
}
