package cli

import (
	"fmt"
	"os"

	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCatalogueCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Combine, clean and check catalogue files",
	}

	cmd.AddCommand(
		newCatalogueCombineCmd(app),
		newCatalogueCleanCmd(app),
		newCatalogueCheckCmd(app),
	)

	return cmd
}

func newCatalogueCombineCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "combine <snapshot.json>...",
		Short: "Merge per-year snapshot files into one catalogue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshots := make([]*catalogue.File, 0, len(args))
			for _, path := range args {
				f, err := catalogue.LoadFile(path)
				if err != nil {
					return fmt.Errorf("loading %s: %w", path, err)
				}
				snapshots = append(snapshots, f)
			}

			combined, err := catalogue.Combine(snapshots)
			if err != nil {
				return err
			}
			if err := catalogue.WriteFile(output, combined); err != nil {
				return err
			}

			app.logger().Debug("catalogue combined", "snapshots", len(args), "modules", len(combined.Modules), "output", output)
			fmt.Fprintf(cmd.OutOrStdout(), "Combined %d snapshots into %s (%d modules, years %v)\n",
				len(args), formatter.Bold(output), len(combined.Modules), combined.AcademicYears)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Combined catalogue file to write")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newCatalogueCleanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clean <file.json>...",
		Short: "Strip personal data and boilerplate from catalogue files in place",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cleaner, err := catalogue.NewCleaner(app.Config.Clean.PersonalPatterns)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range args {
				f, err := catalogue.LoadFile(path)
				if err != nil {
					return fmt.Errorf("loading %s: %w", path, err)
				}
				n := cleaner.CleanFile(f)
				if err := catalogue.WriteFile(path, f); err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleaned %d modules in %s\n", n, path)
			}
			return nil
		},
	}
}

func newCatalogueCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file.json]",
		Short: "Validate a catalogue against its schema and semantic rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.cataloguePath()
			if len(args) == 1 {
				path = args[0]
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading catalogue: %w", err)
			}

			out := cmd.OutOrStdout()
			errs := catalogue.ValidateJSON(data)
			if len(errs) == 0 {
				fmt.Fprintf(out, "%s %s\n", formatter.StyleGreen.Render("✔"), path)
				return nil
			}
			for _, e := range errs {
				fmt.Fprintf(out, "%s %v\n", formatter.StyleRed.Render("✖"), e)
			}
			return fmt.Errorf("%s: %d problems", path, len(errs))
		},
	}
}
