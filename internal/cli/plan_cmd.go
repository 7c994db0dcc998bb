package cli

import (
	"fmt"

	"github.com/CBirkbeck/modulechoices/internal/cli/formatter"
	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage saved plans",
	}

	cmd.AddCommand(
		newPlanListCmd(app),
		newPlanSaveCmd(app),
		newPlanLoadCmd(app),
		newPlanDeleteCmd(app),
	)

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}
			plans, err := app.plans()
			if err != nil {
				return err
			}
			list, err := plans.ListPlans(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanList(list, app.now()))
			return nil
		},
	}
}

func newPlanSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save [name]",
		Short: "Save the current selection and cohort",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}
			plans, err := app.plans()
			if err != nil {
				return err
			}

			name := app.opts.plan
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				if !app.interactive() {
					return fmt.Errorf("plan name is required")
				}
				if err := planNameForm(&name).Run(); err != nil {
					return err
				}
			}

			p, err := plans.SavePlan(ctx, name)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan("Saved", p))
			return nil
		},
	}
}

func newPlanLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load <name>",
		Short: "Restore a saved plan and show its status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}
			plans, err := app.plans()
			if err != nil {
				return err
			}
			p, err := plans.LoadPlan(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatPlan("Loaded", p))

			status, err := app.Planner.GetStatus(ctx, contract.NewStatusRequest())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatStatus(status))
			return nil
		},
	}
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.session(ctx); err != nil {
				return err
			}
			plans, err := app.plans()
			if err != nil {
				return err
			}
			if err := plans.DeletePlan(ctx, args[0]); err != nil {
				return fmt.Errorf("deleting plan %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", formatter.Bold(args[0]))
			return nil
		},
	}
}
