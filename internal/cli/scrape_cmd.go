package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/cli/formatter"
	"github.com/CBirkbeck/modulechoices/internal/scrape"
	"github.com/spf13/cobra"
)

func newScrapeCmd(app *App) *cobra.Command {
	var detailsDir, output, school, year string
	var clean bool

	cmd := &cobra.Command{
		Use:   "scrape <profile.html>",
		Short: "Build a per-year snapshot from saved course profile pages",
		Long: `Build a per-year snapshot from a saved course profile page. Module
detail pages are read from --details as <CODE>.html when present.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening profile: %w", err)
			}
			profile, err := scrape.ParseCourseProfile(f)
			f.Close()
			if err != nil {
				return err
			}
			if year != "" {
				profile.AcademicYear = year
			}

			details := make(map[string]scrape.ModuleDetail)
			if detailsDir != "" {
				for _, row := range profile.Rows {
					d, err := readDetail(filepath.Join(detailsDir, row.ModuleCode+".html"))
					if errors.Is(err, os.ErrNotExist) {
						continue
					}
					if err != nil {
						return fmt.Errorf("%s: %w", row.ModuleCode, err)
					}
					details[row.ModuleCode] = d
				}
			}

			snap, err := scrape.Snapshot(profile, details, school, app.now())
			if err != nil {
				return err
			}
			if clean {
				cleaner, err := catalogue.NewCleaner(app.Config.Clean.PersonalPatterns)
				if err != nil {
					return err
				}
				cleaner.CleanFile(snap)
			}
			if err := catalogue.WriteFile(output, snap); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s snapshot with %d modules (%d with details) to %s\n",
				snap.AcademicYear, len(snap.Modules), len(details), formatter.Bold(output))
			return nil
		},
	}

	cmd.Flags().StringVar(&detailsDir, "details", "", "Directory of saved module detail pages")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Snapshot file to write")
	cmd.Flags().StringVar(&school, "school", "", "School name recorded in the snapshot")
	cmd.Flags().StringVar(&year, "year", "", "Academic year, when the page heading lacks one")
	cmd.Flags().BoolVar(&clean, "clean", true, "Strip personal data before writing")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func readDetail(path string) (scrape.ModuleDetail, error) {
	f, err := os.Open(path)
	if err != nil {
		return scrape.ModuleDetail{}, err
	}
	defer f.Close()
	return scrape.ParseModuleRules(f)
}
