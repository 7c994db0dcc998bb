package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/db"
)

// FailingUoW runs work in a real SQLite transaction but returns Err from
// the first ExecContext whose statement starts with Prefix (compared after
// trimming and upper-casing). Reads pass through. Statements before the
// failing one have already run inside the transaction, so callers can
// assert that the plan store rolled them back.
type FailingUoW struct {
	DB     *sql.DB
	Prefix string
	Err    error
}

// FailOn returns a FailingUoW over database.
func FailOn(database *sql.DB, prefix string, err error) *FailingUoW {
	return &FailingUoW{DB: database, Prefix: prefix, Err: err}
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, prefix: normaliseSQL(u.Prefix), err: u.Err})
	})
}

type failingTx struct {
	db.DBTX
	prefix string
	err    error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.HasPrefix(normaliseSQL(query), f.prefix) {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

func normaliseSQL(q string) string {
	return strings.ToUpper(strings.Join(strings.Fields(q), " "))
}
