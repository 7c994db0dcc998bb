package service

import (
	"context"

	"github.com/CBirkbeck/modulechoices/internal/app"
	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"github.com/CBirkbeck/modulechoices/internal/contract"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/repository"
)

type PlannerService interface {
	app.SelectUseCase
	app.StatusUseCase
	app.RebuildUseCase

	// Offerings lists the visible offerings in canonical order; programYear
	// 0 means every year.
	Offerings(ctx context.Context, programYear int) ([]*domain.Offering, error)
	Offering(ctx context.Context, ref string) (*domain.Offering, error)
	Ghosts(ctx context.Context) ([]string, error)

	// Restore replaces the selection and cohort wholesale, then rebuilds.
	Restore(ctx context.Context, entryYear int, uids []string) (*contract.RebuildResponse, error)
	// Selection returns a copy of the current selection state.
	Selection() *domain.SelectionState
	EntryYear() calendar.AcademicYear
}

type PlanService interface {
	app.SavePlanUseCase
	app.LoadPlanUseCase
	ListPlans(ctx context.Context) ([]repository.PlanSummary, error)
	DeletePlan(ctx context.Context, name string) error
}
