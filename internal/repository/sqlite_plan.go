package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CBirkbeck/modulechoices/internal/db"
	"github.com/CBirkbeck/modulechoices/internal/domain"
	"github.com/google/uuid"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Save(ctx context.Context, p *domain.Plan) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}

	var existingID, createdAt string
	err := r.db.QueryRowContext(ctx, `SELECT id, created_at FROM plans WHERE name = ?`, p.Name).
		Scan(&existingID, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		created := timeToString(p.CreatedAt)
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO plans (id, name, course, entry_year, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Course, p.EntryYear, created, nowUTC())
		if err != nil {
			return fmt.Errorf("inserting plan: %w", err)
		}
		p.CreatedAt = parseTime(created)
	case err != nil:
		return fmt.Errorf("looking up plan %q: %w", p.Name, err)
	default:
		p.ID = existingID
		p.CreatedAt = parseTime(createdAt)
		_, err = r.db.ExecContext(ctx,
			`UPDATE plans SET course = ?, entry_year = ?, updated_at = ? WHERE id = ?`,
			p.Course, p.EntryYear, nowUTC(), p.ID)
		if err != nil {
			return fmt.Errorf("updating plan: %w", err)
		}
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_modules WHERE plan_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing plan modules: %w", err)
	}
	p.UIDs = dedupeUIDs(p.UIDs)
	for i, uid := range p.UIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO plan_modules (plan_id, uid, position) VALUES (?, ?, ?)`,
			p.ID, uid, i); err != nil {
			return fmt.Errorf("inserting plan module %s: %w", uid, err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	return r.getWhere(ctx, `id = ?`, id)
}

func (r *SQLitePlanRepo) GetByName(ctx context.Context, name string) (*domain.Plan, error) {
	return r.getWhere(ctx, `name = ?`, name)
}

func (r *SQLitePlanRepo) getWhere(ctx context.Context, where string, arg any) (*domain.Plan, error) {
	query := `SELECT id, name, course, entry_year, created_at, updated_at FROM plans WHERE ` + where
	var p domain.Plan
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&p.ID, &p.Name, &p.Course, &p.EntryYear, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	rows, err := r.db.QueryContext(ctx,
		`SELECT uid FROM plan_modules WHERE plan_id = ? ORDER BY position, uid`, p.ID)
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

func (r *SQLitePlanRepo) List(ctx context.Context) ([]PlanSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.course, p.entry_year, COUNT(m.uid), p.updated_at
		 FROM plans p LEFT JOIN plan_modules m ON m.plan_id = p.id
		 GROUP BY p.id
		 ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var out []PlanSummary
	for rows.Next() {
		var s PlanSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Course, &s.EntryYear, &s.Modules, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return out, nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted plan: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("plan %q: %w", name, ErrNotFound)
	}
	return nil
}
