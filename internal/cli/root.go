package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"github.com/CBirkbeck/modulechoices/internal/config"
	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/httpapi"
	"github.com/CBirkbeck/modulechoices/internal/repository"
	"github.com/CBirkbeck/modulechoices/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// OpenFunc wires the planner and plan services for one catalogue file.
type OpenFunc func(ctx context.Context, cataloguePath string) (service.PlannerService, service.PlanService, error)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Planner service.PlannerService
	Plans   service.PlanService

	// Open is called lazily by commands that need a catalogue, so the
	// --catalogue flag can override Config.CataloguePath. It may be nil
	// when Planner is injected directly.
	Open OpenFunc

	Config   config.Config
	Logger   *slog.Logger
	Metrics  *httpapi.Metrics
	Gatherer prometheus.Gatherer

	IsInteractive func() bool
	Now           func() time.Time

	opts  globalOpts
	ready bool
}

type globalOpts struct {
	catalogue string
	entry     cohortFlag
	plan      string
}

// cohortFlag is an entry cohort given as "2025/6", "2025-26" or "2025".
type cohortFlag struct {
	year calendar.AcademicYear
	set  bool
}

func (f *cohortFlag) Set(s string) error {
	y, err := calendar.ParseAcademicYear(s)
	if err != nil {
		return err
	}
	f.year, f.set = y, true
	return nil
}

func (f *cohortFlag) String() string {
	if !f.set {
		return ""
	}
	return f.year.Key()
}

func (f *cohortFlag) Type() string { return "cohort" }

var _ pflag.Value = (*cohortFlag)(nil)

// NewRootCmd creates the top-level "modulechoices" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	app.opts = globalOpts{}
	app.ready = false

	root := &cobra.Command{
		Use:           "modulechoices",
		Short:         "Degree module planner and prerequisite checker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.opts.catalogue, "catalogue", "", "Catalogue JSON file (default from config)")
	pf.Var(&app.opts.entry, "entry", "Entry cohort, e.g. 2025/6")
	pf.StringVar(&app.opts.plan, "plan", "", "Working plan: loaded before and saved after each change")

	root.AddCommand(
		newOfferingsCmd(app),
		newShowCmd(app),
		newGhostsCmd(app),
		newSelectCmd(app),
		newDeselectCmd(app),
		newStatusCmd(app),
		newEntryCmd(app),
		newPlanCmd(app),
		newCatalogueCmd(app),
		newScrapeCmd(app),
		newBrowseCmd(app),
		newServeCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func (a *App) cataloguePath() string {
	if a.opts.catalogue != "" {
		return a.opts.catalogue
	}
	return a.Config.CataloguePath
}

// session makes the planner ready for a command: it opens the catalogue,
// restores the working plan if one is named, then applies --entry.
func (a *App) session(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.Open != nil && (a.Planner == nil || a.opts.catalogue != "") {
		p, plans, err := a.Open(ctx, a.cataloguePath())
		if err != nil {
			return err
		}
		a.Planner, a.Plans = p, plans
	}
	if a.Planner == nil {
		return fmt.Errorf("no catalogue loaded")
	}

	if a.opts.plan != "" && a.Plans != nil {
		if _, err := a.Plans.LoadPlan(ctx, a.opts.plan); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	if a.opts.entry.set && a.opts.entry.year != a.Planner.EntryYear() {
		if _, err := a.Planner.Rebuild(ctx, contract.NewRebuildRequest(a.opts.entry.year.Key())); err != nil {
			return err
		}
	}
	a.ready = true
	return nil
}

// persist saves the working plan after a change, when one is named.
func (a *App) persist(ctx context.Context) error {
	if a.opts.plan == "" || a.Plans == nil {
		return nil
	}
	_, err := a.Plans.SavePlan(ctx, a.opts.plan)
	return err
}

func (a *App) plans() (service.PlanService, error) {
	if a.Plans == nil {
		return nil, fmt.Errorf("plan store is not configured")
	}
	return a.Plans, nil
}
