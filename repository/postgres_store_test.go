package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ledger/model"
)

func TestPostgresStore_WithinTx_LocksInIDOrder(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	lockQuery := regexp.QuoteMeta(`FROM accounts WHERE id = $1 FOR UPDATE`)
	now := time.Now()

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(lockQuery).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(1, 1, "Checking", 100, now))
	dbMock.ExpectQuery(lockQuery).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(3, 2, "Checking", 50, now))
	dbMock.ExpectCommit()

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx LedgerTx) error {
		locked, err := tx.LockAccounts(ctx, 3, 1, 3)
		require.NoError(t, err)
		assert.Len(t, locked, 2)
		assert.Equal(t, int64(100), locked[1].Balance)
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresStore_WithinTx_RollsBackOnError(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	boom := errors.New("boom")

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx LedgerTx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresStore_WithinTx_CommitFailure(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	dbMock.ExpectBegin()
	dbMock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx LedgerTx) error {
		return nil
	})

	assert.ErrorContains(t, err, "could not commit transaction")
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresStore_OpenAccount(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	openedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO accounts (user_id, name) VALUES ($1, $2)`)).
		WithArgs(int64(1), "Checking").
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "created_at"}).AddRow(10, 0, openedAt))
	dbMock.ExpectQuery(regexp.QuoteMeta(`UPDATE accounts SET balance = balance + $1`)).
		WithArgs(int64(150000), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(150000))
	dbMock.ExpectQuery(`INSERT INTO ledger_entries`).
		WithArgs(nil, int64(10), int64(150000), "opening balance", openedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	dbMock.ExpectCommit()

	account := &model.Account{UserID: 1, Name: "Checking", Balance: 150000}
	require.NoError(t, store.OpenAccount(context.Background(), account, openedAt))

	assert.Equal(t, int64(10), account.ID)
	assert.Equal(t, int64(150000), account.Balance)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
