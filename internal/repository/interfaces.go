package repository

import (
	"context"

	"github.com/CBirkbeck/modulechoices/internal/domain"
)

// PlanSummary is a plan row without its module list, for listings.
type PlanSummary struct {
	ID        string
	Name      string
	Course    string
	EntryYear int
	Modules   int
	UpdatedAt string
}

type PlanRepo interface {
	// Save inserts or updates the plan keyed by name and replaces its
	// module list. The SQLite implementation must run inside a unit of
	// work for the replacement to be atomic.
	Save(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	GetByName(ctx context.Context, name string) (*domain.Plan, error)
	List(ctx context.Context) ([]PlanSummary, error)
	Delete(ctx context.Context, name string) error
}
