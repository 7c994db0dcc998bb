package cli

import (
	"fmt"

	"github.com/CBirkbeck/modulechoices/internal/cli/formatter"
	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show credit loads, section totals and warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if year != 0 && !domain.ValidProgramYear(year) {
				return fmt.Errorf("--year must be between %d and %d", domain.MinProgramYear, domain.MaxProgramYear)
			}
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}

			req := contract.NewStatusRequest()
			req.ProgramYear = year
			resp, err := app.Planner.GetStatus(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatus(resp))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only this year of study (1-4)")
	return cmd
}

func newEntryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "entry [cohort]",
		Short: "Show or change the entry cohort",
		Long: `Show or change the entry cohort. Changing it rebuilds the catalogue
index; selected offerings with no visible listing are reported as orphaned.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var target string
			switch {
			case len(args) == 1:
				target = args[0]
			case app.interactive():
				picked := app.Planner.EntryYear()
				if err := entryForm(app.Planner.EntryYear(), &picked).Run(); err != nil {
					return err
				}
				target = picked.Key()
			default:
				fmt.Fprintf(out, "Entry cohort %s\n", formatter.Bold(app.Planner.EntryYear().Key()))
				return nil
			}

			resp, err := app.Planner.Rebuild(ctx, contract.NewRebuildRequest(target))
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatRebuild(resp))
			return app.persist(ctx)
		},
	}
}
