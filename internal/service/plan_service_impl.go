package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/db"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/CBirkbeck/modulechoices/internal/repository"
)

type planService struct {
	plans   repository.PlanRepo
	uow     db.UnitOfWork
	planner PlannerService
	course  string
}

// NewPlanService persists the planner's selection. When uow is nil the
// repository must make Save atomic itself, as the postgres store does.
func NewPlanService(plans repository.PlanRepo, uow db.UnitOfWork, p PlannerService, course string) PlanService {
	return &planService{plans: plans, uow: uow, planner: p, course: course}
}

func (s *planService) SavePlan(ctx context.Context, name string) (*domain.Plan, error) {
	name = strings.TrimSpace(name)
	state := s.planner.Selection()
	plan := &domain.Plan{
		Name:      name,
		Course:    s.course,
		EntryYear: s.planner.EntryYear().Start(),
		UIDs:      state.UIDs(),
	}

	if s.uow == nil {
		if err := s.plans.Save(ctx, plan); err != nil {
			return nil, err
		}
		return plan, nil
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLitePlanRepo(tx).Save(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) LoadPlan(ctx context.Context, name string) (*domain.Plan, error) {
	plan, err := s.plans.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	if _, err := s.planner.Restore(ctx, plan.EntryYear, plan.UIDs); err != nil {
		return nil, fmt.Errorf("restoring plan %q: %w", plan.Name, err)
	}
	return plan, nil
}

func (s *planService) ListPlans(ctx context.Context) ([]repository.PlanSummary, error) {
	return s.plans.List(ctx)
}

func (s *planService) DeletePlan(ctx context.Context, name string) error {
	return s.plans.Delete(ctx, strings.TrimSpace(name))
}
