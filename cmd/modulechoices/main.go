package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"github.com/CBirkbeck/modulechoices/internal/catalogue"
	"github.com/CBirkbeck/modulechoices/internal/cli"
	"github.com/CBirkbeck/modulechoices/internal/config"
	"github.com/CBirkbeck/modulechoices/internal/db"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/httpapi"
	"github.com/CBirkbeck/modulechoices/internal/planner"
	"github.com/CBirkbeck/modulechoices/internal/repository"
	"github.com/CBirkbeck/modulechoices/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var entry calendar.AcademicYear
	if cfg.EntryYear != "" {
		if entry, err = calendar.ParseAcademicYear(cfg.EntryYear); err != nil {
			return fmt.Errorf("entry_year: %w", err)
		}
	}

	// Open plan store: postgres when a DSN is configured, else SQLite.
	var plans repository.PlanRepo
	var uow db.UnitOfWork
	if cfg.DatabaseURL != "" {
		pg, err := repository.NewPGPlanRepo(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("opening postgres plan store: %w", err)
		}
		defer pg.Close()
		plans = pg
	} else {
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		plans = repository.NewSQLitePlanRepo(database)
		uow = db.NewSQLiteUnitOfWork(database)
	}

	registry := prometheus.NewRegistry()
	metrics := httpapi.NewMetrics(registry)
	observers := []service.UseCaseObserver{metrics}
	if level <= slog.LevelDebug {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	engine := planner.NewEngine(
		planner.Limits{
			SemesterMax:         cfg.Limits.SemesterMax,
			AnnualMax:           cfg.Limits.AnnualMax,
			SemesterCapFromYear: cfg.Limits.SemesterCapFromYear,
		},
		planner.CrossRangePolicy{
			AnchorCode: cfg.Policy.CrossRange.AnchorCode,
			Section:    domain.SectionKey(cfg.Policy.CrossRange.Range),
			Level:      cfg.Policy.CrossRange.Level,
		},
	)

	app := &cli.App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Gatherer: registry,
	}
	app.Open = func(ctx context.Context, path string) (service.PlannerService, service.PlanService, error) {
		var course string
		load := func(ctx context.Context) (*catalogue.File, error) {
			f, err := service.FileLoader(path)(ctx)
			if err == nil {
				course = f.Course
			}
			return f, err
		}
		p, err := service.NewPlannerService(ctx, load, engine, entry, observers...)
		if err != nil {
			return nil, nil, err
		}
		return p, service.NewPlanService(plans, uow, p, course), nil
	}

	// Detect interactive terminal for forms and the browser.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
