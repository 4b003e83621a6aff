package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/dealflow/internal/db"
)

// ErrInjected is returned by FailingUoW when Err is nil.
var ErrInjected = errors.New("injected write failure")

// FailingUoW runs the callback in a real transaction but fails the FailOn-th
// write (1-based) with Err, so tests can check that a use case rolls back and
// leaves both the store and the caller's aggregate unchanged. Reads pass through.
type FailingUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error

	writes int
}

// Writes reports how many writes the last transaction attempted.
func (u *FailingUoW) Writes() int { return u.writes }

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	u.writes = 0

	if err := fn(ctx, &failingTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingTx struct {
	db.DBTX
	uow *FailingUoW
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.uow.writes++
	if f.uow.writes == f.uow.FailOn {
		if f.uow.Err != nil {
			return nil, f.uow.Err
		}
		return nil, ErrInjected
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
