package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillPositions(db); err != nil {
		return fmt.Errorf("backfilling plan module positions: %w", err)
	}
	return nil
}

// migrateBackfillPositions numbers the modules of plans saved before the
// position column existed, in uid order.
func migrateBackfillPositions(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx,
		`SELECT plan_id FROM plan_modules
		 GROUP BY plan_id
		 HAVING COUNT(*) > 1 AND MAX(position) = 0`)
	if err != nil {
		return fmt.Errorf("finding plans to backfill: %w", err)
	}
	var planIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning plan id: %w", err)
		}
		planIDs = append(planIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating plan ids: %w", err)
	}

	for _, planID := range planIDs {
		if err := backfillPlanPositions(ctx, db, planID); err != nil {
			return err
		}
	}
	return nil
}

func backfillPlanPositions(ctx context.Context, db *sql.DB, planID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting backfill transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT uid FROM plan_modules WHERE plan_id = ? ORDER BY uid`, planID)
	if err != nil {
		return fmt.Errorf("loading plan modules: %w", err)
	}
	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			rows.Close()
			return fmt.Errorf("scanning uid: %w", err)
		}
		uids = append(uids, uid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating uids: %w", err)
	}

	for i, uid := range uids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE plan_modules SET position = ? WHERE plan_id = ? AND uid = ?`, i, planID, uid); err != nil {
			return fmt.Errorf("updating position for %s: %w", uid, err)
		}
	}
	return tx.Commit()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		entry_year INTEGER NOT NULL CHECK(entry_year BETWEEN 1900 AND 2999),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_plans_name ON plans(name)`,

	`CREATE TABLE IF NOT EXISTS plan_modules (
		plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		uid     TEXT NOT NULL,
		PRIMARY KEY (plan_id, uid)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_modules_plan ON plan_modules(plan_id)`,

	// Added after the first release.
	`ALTER TABLE plans ADD COLUMN course TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE plan_modules ADD COLUMN position INTEGER NOT NULL DEFAULT 0`,
}
