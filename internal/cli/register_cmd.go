package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	slotterapp "github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/cli/formatter"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/alexanderramin/slotter/internal/importer"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errRegistrationClosed = errors.New("registration is closed for this period")

func newRegisterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "register",
		Aliases: []string{"reg"},
		Short:   "Record and maintain registrations",
	}

	cmd.AddCommand(
		newRegisterSubmitCmd(app),
		newRegisterImportCmd(app),
		newRegisterCleanCmd(app),
		newRegisterCountsCmd(app),
		newRegisterListCmd(app),
	)

	return cmd
}

// choiceFlags registers the --choice flag shared by the dataset commands.
func choiceFlags(choice *int) *pflag.FlagSet {
	fs := pflag.NewFlagSet("choice", pflag.ContinueOnError)
	fs.IntVar(choice, "choice", 1, "Dataset: 1 for first choices, 2 for second, 3 for third")
	return fs
}

func newRegisterSubmitCmd(app *App) *cobra.Command {
	var (
		req                 slotterapp.SubmitRequest
		pref1, pref2, pref3 []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record a registration form submission",
		Long: `Record a registration form submission.

Give the preferences of each weekly training with --pref1, --pref2 and
--pref3; repeat the flags for the second and third training:

  slotter register submit --phone 0612345678 --name "Anna" --level 6,5 \
    --per-week 2 --pref1 "Maandag 19:00" --pref2 "Donderdag 20:00" \
    --pref1 "Woensdag 18:00" --pref2 "Vrijdag 19:00"

A later submission with the same phone number replaces the earlier one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.RegistrationOpen {
				return errRegistrationClosed
			}
			req.Occurrences = occurrences(pref1, pref2, pref3)
			res, err := app.Registrations.Submit(context.Background(), req)
			if err != nil {
				var verr *slotterapp.ValidationError
				if errors.As(err, &verr) {
					for _, p := range verr.Problems {
						fmt.Fprintln(cmd.ErrOrStderr(), "  "+p)
					}
					return errors.New("registration not stored")
				}
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSubmitResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number (identifies the registrant)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.LevelText, "level", "", "Playing level, e.g. 6 or 6,5")
	cmd.Flags().IntVar(&req.Frequency, "per-week", 1, "Trainings per week (1-3)")
	cmd.Flags().BoolVar(&req.PermitHigher, "permit-higher", false, "Trainer allowed a slot above the registrant's level")
	cmd.Flags().StringArrayVar(&pref1, "pref1", nil, "First preference, once per weekly training")
	cmd.Flags().StringArrayVar(&pref2, "pref2", nil, "Second preference, once per weekly training")
	cmd.Flags().StringArrayVar(&pref3, "pref3", nil, "Third preference, once per weekly training")
	cmd.Flags().StringVar(&req.Note, "note", "", "Free-text message")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// occurrences zips the ranked preference flags into one triple per weekly
// training. The i-th value of each flag belongs to training i.
func occurrences(pref1, pref2, pref3 []string) [][3]string {
	n := max(len(pref1), len(pref2), len(pref3))
	out := make([][3]string, n)
	for i := range out {
		for rank, prefs := range [][]string{pref1, pref2, pref3} {
			if i < len(prefs) {
				out[i][rank] = strings.TrimSpace(prefs[i])
			}
		}
	}
	return out
}

func newRegisterImportCmd(app *App) *cobra.Command {
	var (
		choice int
		clean  bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Append a registration form export to a dataset",
		Long: `Append a registration form export (CSV or XLSX) to a dataset.

Rows are added as they are; use --clean or "register clean" afterwards to
keep only the latest submission of every phone number.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := importer.ReadFile(args[0])
			if err != nil {
				return err
			}
			regs, problems := importer.ParseRegistrations(rows)
			if err := reportProblems(cmd, problems); err != nil {
				return err
			}

			ctx := context.Background()
			n, err := app.Registrations.Import(ctx, choice, regs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into choice %d\n", formatter.Plural(n, "registration"), choice)

			if clean {
				res, err := app.Registrations.CleanDuplicates(ctx, choice)
				if err != nil {
					return err
				}
				printCleanResult(cmd, res)
			}
			return nil
		},
	}

	cmd.Flags().AddFlagSet(choiceFlags(&choice))
	cmd.Flags().BoolVar(&clean, "clean", false, "Remove older duplicates after importing")

	return cmd
}

func newRegisterCleanCmd(app *App) *cobra.Command {
	var choice int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Keep only the latest submission of every phone number",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Registrations.CleanDuplicates(context.Background(), choice)
			if err != nil {
				return err
			}
			printCleanResult(cmd, res)
			return nil
		},
	}

	cmd.Flags().AddFlagSet(choiceFlags(&choice))

	return cmd
}

func printCleanResult(cmd *cobra.Command, res *slotterapp.CleanResult) {
	if res.Removed == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Choice %d has no duplicates (%s)\n", res.Choice, formatter.Plural(res.Kept, "registration"))
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Choice %d: removed %s, kept %d\n",
		res.Choice, formatter.Plural(res.Removed, "older duplicate"), res.Kept)
}

func newRegisterCountsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show the number of registrations per dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := app.Registrations.Counts(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCounts(counts))
			return nil
		},
	}
}

func newRegisterListCmd(app *App) *cobra.Command {
	var choice int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registrations of a dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !domain.ValidRound(choice) {
				return fmt.Errorf("choice must be between %d and %d", domain.MinRound, domain.MaxRound)
			}
			regs, err := app.Registrations.List(context.Background(), choice)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRegistrantList(choice, regs))
			return nil
		},
	}

	cmd.Flags().AddFlagSet(choiceFlags(&choice))

	return cmd
}
