package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/dealflow/internal/db"
)

func newUoW(t *testing.T) *db.SQLUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLUnitOfWork(database)
}

func insertDeal(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO deals (id, company_name, current_stage, version, payload, created_at, updated_at)
		VALUES (?, 'Acme', 'screening', 1, '{}', 't', 't')`, id)
	return err
}

func dealExists(t *testing.T, uow *db.SQLUnitOfWork, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM deals WHERE id = ?`, id).Scan(&n)
	}))
	return n == 1
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertDeal(ctx, tx, "D1")
	})
	require.NoError(t, err)
	assert.True(t, dealExists(t, uow, "D1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := newUoW(t)
	errBoom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertDeal(ctx, tx, "D2"); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, dealExists(t, uow, "D2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertDeal(ctx, tx, "D3")
			panic("boom")
		})
	})
	assert.False(t, dealExists(t, uow, "D3"))
}

func TestWithinTx_CancelledContext(t *testing.T) {
	uow := newUoW(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return insertDeal(ctx, tx, "D4")
	})
	assert.Error(t, err)
}
