package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/CBirkbeck/modulechoices/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanStore(t *testing.T) (*db.SQLiteUnitOfWork, func(name string) int) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	countModules := func(name string) int {
		var n int
		err := database.QueryRow(
			`SELECT COUNT(*) FROM plan_modules m JOIN plans p ON p.id = m.plan_id WHERE p.name = ?`, name).Scan(&n)
		require.NoError(t, err)
		return n
	}
	return db.NewSQLiteUnitOfWork(database), countModules
}

func insertPlan(ctx context.Context, tx db.DBTX, id, name string, uids ...string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO plans (id, name, entry_year, created_at, updated_at) VALUES (?, ?, 2025, 'now', 'now')`,
		id, name); err != nil {
		return err
	}
	for i, uid := range uids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plan_modules (plan_id, uid, position) VALUES (?, ?, ?)`, id, uid, i); err != nil {
			return err
		}
	}
	return nil
}

func TestWithinTx_CommitsPlanWithModules(t *testing.T) {
	uow, countModules := newPlanStore(t)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return insertPlan(ctx, tx, "p1", "main", "BASE@Y1", "ADV@Y2")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countModules("main"))
}

func TestWithinTx_DuplicateModuleRollsBackPlan(t *testing.T) {
	uow, countModules := newPlanStore(t)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return insertPlan(ctx, tx, "p1", "main", "BASE@Y1", "BASE@Y1")
	})
	require.Error(t, err)

	assert.Zero(t, countModules("main"))
	err = uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return insertPlan(ctx, tx, "p1", "main")
	})
	assert.NoError(t, err, "the plan row was rolled back with its modules")
}

func TestWithinTx_ReturnsCallbackError(t *testing.T) {
	uow, countModules := newPlanStore(t)
	sentinel := errors.New("selection changed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertPlan(ctx, tx, "p1", "main", "BASE@Y1"); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Zero(t, countModules("main"))
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	uow, countModules := newPlanStore(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertPlan(ctx, tx, "p1", "main", "BASE@Y1")
			panic("boom")
		})
	})
	assert.Zero(t, countModules("main"))
}
