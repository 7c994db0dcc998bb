package cli

import (
	"fmt"

	"github.com/CBirkbeck/modulechoices/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <code|uid>...",
		Short: "Add offerings, pulling in their prerequisites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rejected := 0
			for _, ref := range args {
				res, err := app.Planner.Select(ctx, ref)
				if err != nil {
					return err
				}
				if !res.Verdict.Accepted {
					rejected++
				}
				fmt.Fprint(out, formatter.FormatSelectResult(res))
			}

			if err := app.persist(ctx); err != nil {
				return err
			}
			if rejected > 0 {
				return fmt.Errorf("%d of %d selections rejected", rejected, len(args))
			}
			return nil
		},
	}
}

func newDeselectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deselect <code|uid>...",
		Short: "Remove offerings from the selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ref := range args {
				removed, err := app.Planner.Deselect(ctx, ref)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(out, "Removed %s\n", formatter.Bold(ref))
				} else {
					fmt.Fprintf(out, "%s was not selected\n", ref)
				}
			}
			return app.persist(ctx)
		},
	}
}
