package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		course     TEXT NOT NULL DEFAULT '',
		entry_year INTEGER NOT NULL CHECK (entry_year BETWEEN 1900 AND 2999),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS plan_modules (
		plan_id  TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		uid      TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (plan_id, uid)
	)`,
}

const pgUpsertPlan = `INSERT INTO plans (id, name, course, entry_year, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (name) DO UPDATE SET course=EXCLUDED.course, entry_year=EXCLUDED.entry_year, updated_at=EXCLUDED.updated_at RETURNING id, created_at`
const pgClearModules = `DELETE FROM plan_modules WHERE plan_id = $1`
const pgInsertModule = `INSERT INTO plan_modules (plan_id, uid, position) VALUES ($1, $2, $3)`
const pgSelectPlan = `SELECT id, name, course, entry_year, created_at, updated_at FROM plans`
const pgSelectModules = `SELECT uid FROM plan_modules WHERE plan_id = $1 ORDER BY position, uid`
const pgListPlans = `SELECT p.id, p.name, p.course, p.entry_year, COUNT(m.uid), p.updated_at FROM plans p LEFT JOIN plan_modules m ON m.plan_id = p.id GROUP BY p.id ORDER BY p.name`
const pgDeletePlan = `DELETE FROM plans WHERE name = $1`

// PGPlanRepo implements PlanRepo on PostgreSQL. Save is transactional on
// its own, so callers do not wrap it in a unit of work.
type PGPlanRepo struct {
	Pool *pgxpool.Pool
}

// NewPGPlanRepo connects to dsn and creates the plan tables if needed.
func NewPGPlanRepo(ctx context.Context, dsn string) (*PGPlanRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	r := &PGPlanRepo{Pool: pool}
	if err := r.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

// Migrate creates the plan tables.
func (r *PGPlanRepo) Migrate(ctx context.Context) error {
	for i, stmt := range pgSchema {
		if _, err := r.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migration %d: %w", i, err)
		}
	}
	return nil
}

func (r *PGPlanRepo) Close() {
	r.Pool.Close()
}

func (r *PGPlanRepo) Save(ctx context.Context, p *domain.Plan) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	created := p.CreatedAt
	if created.IsZero() {
		created = now
	}
	p.UIDs = dedupeUIDs(p.UIDs)

	return pgx.BeginFunc(ctx, r.Pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, pgUpsertPlan, p.ID, p.Name, p.Course, p.EntryYear, created, now).
			Scan(&p.ID, &p.CreatedAt); err != nil {
			return fmt.Errorf("upserting plan: %w", err)
		}
		p.UpdatedAt = now

		batch := pgx.Batch{}
		batch.Queue(pgClearModules, p.ID)
		for i, uid := range p.UIDs {
			batch.Queue(pgInsertModule, p.ID, uid, i)
		}
		if err := tx.SendBatch(ctx, &batch).Close(); err != nil {
			return fmt.Errorf("replacing plan modules: %w", err)
		}
		return nil
	})
}

func (r *PGPlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	return r.getWhere(ctx, pgSelectPlan+` WHERE id = $1`, id)
}

func (r *PGPlanRepo) GetByName(ctx context.Context, name string) (*domain.Plan, error) {
	return r.getWhere(ctx, pgSelectPlan+` WHERE name = $1`, name)
}

func (r *PGPlanRepo) getWhere(ctx context.Context, query string, arg any) (*domain.Plan, error) {
	var p domain.Plan
	err := r.Pool.QueryRow(ctx, query, arg).
		Scan(&p.ID, &p.Name, &p.Course, &p.EntryYear, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	rows, err := r.Pool.Query(ctx, pgSelectModules, p.ID)
	if err != nil {
		return nil, fmt.Errorf("querying plan modules: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("scanning plan module: %w", err)
		}
		p.UIDs = append(p.UIDs, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan modules: %w", err)
	}
	return &p, nil
}

func (r *PGPlanRepo) List(ctx context.Context) ([]PlanSummary, error) {
	rows, err := r.Pool.Query(ctx, pgListPlans)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var out []PlanSummary
	for rows.Next() {
		var s PlanSummary
		var updated time.Time
		var modules int64
		if err := rows.Scan(&s.ID, &s.Name, &s.Course, &s.EntryYear, &modules, &updated); err != nil {
			return nil, fmt.Errorf("scanning plan summary: %w", err)
		}
		s.Modules = int(modules)
		s.UpdatedAt = updated.UTC().Format(time.RFC3339)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return out, nil
}

func (r *PGPlanRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.Pool.Exec(ctx, pgDeletePlan, name)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan %q: %w", name, ErrNotFound)
	}
	return nil
}
