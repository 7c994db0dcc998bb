package cli

import (
	"fmt"

	"github.com/CBirkbeck/modulechoices/internal/cli/formatter"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/spf13/cobra"
)

func newOfferingsCmd(app *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "offerings",
		Short: "List offerings visible to the entry cohort",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year != 0 && !domain.ValidProgramYear(year) {
				return fmt.Errorf("--year must be between %d and %d", domain.MinProgramYear, domain.MaxProgramYear)
			}
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}
			offs, err := app.Planner.Offerings(ctx, year)
			if err != nil {
				return err
			}
			sel := app.Planner.Selection()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOfferings(offs, sel.Has))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only this year of study (1-4)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <code|uid>",
		Short: "Show one offering with its rules and dependents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}
			o, err := app.Planner.Offering(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOffering(o))
			return nil
		},
	}
}

func newGhostsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ghosts",
		Short: "List codes referenced by rules but not in the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}
			ghosts, err := app.Planner.Ghosts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGhosts(ghosts))
			return nil
		},
	}
}
