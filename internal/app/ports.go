package app

import (
	"context"

	"github.com/CBirkbeck/modulechoices/internal/domain"
)

type SelectUseCase interface {
	Select(ctx context.Context, ref string) (*SelectResult, error)
	Deselect(ctx context.Context, ref string) (bool, error)
}

type StatusUseCase interface {
	GetStatus(ctx context.Context, req StatusRequest) (*StatusResponse, error)
}

type RebuildUseCase interface {
	Rebuild(ctx context.Context, req RebuildRequest) (*RebuildResponse, error)
}

type SavePlanUseCase interface {
	SavePlan(ctx context.Context, name string) (*domain.Plan, error)
}

type LoadPlanUseCase interface {
	LoadPlan(ctx context.Context, name string) (*domain.Plan, error)
}
