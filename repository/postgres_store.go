package repository

import (
	"context"
	"database/sql"
	"fmt"
	"go-ledger/model"
	"slices"
	"time"
)

// PostgresStore implements Store, UserDirectory, Provisioner and SessionStore
// on one *sql.DB. Row locks taken with SELECT ... FOR UPDATE isolate transfers that
// share an account.
type PostgresStore struct {
	db       *sql.DB
	accounts *AccountRepository
	ledger   *LedgerRepository
	*UserRepository
	*SessionRepository
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:                db,
		accounts:          NewAccountRepository(db),
		ledger:            NewLedgerRepository(db),
		UserRepository:    NewUserRepository(db),
		SessionRepository: NewSessionRepository(db),
	}
}

func (s *PostgresStore) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	return s.accounts.GetAccountByID(ctx, id)
}

func (s *PostgresStore) GetAccountByOwnerAndName(ctx context.Context, ownerID int64, name string) (*model.Account, error) {
	return s.accounts.GetAccountByOwnerAndName(ctx, ownerID, name)
}

func (s *PostgresStore) GetAccountsByUserID(ctx context.Context, userID int64) ([]*model.Account, error) {
	return s.accounts.GetAccountsByUserID(ctx, userID)
}

func (s *PostgresStore) RecentForAccounts(ctx context.Context, accountIDs []int64, limit int) ([]*model.LedgerEntry, error) {
	return s.ledger.RecentForAccounts(ctx, accountIDs, limit)
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error {
	return s.withinTx(ctx, func(ptx *postgresTx) error {
		return fn(ctx, ptx)
	})
}

func (s *PostgresStore) withinTx(ctx context.Context, fn func(ptx *postgresTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&postgresTx{tx: tx, accounts: s.accounts, ledger: s.ledger}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) OpenAccount(ctx context.Context, account *model.Account, openedAt time.Time) error {
	opening := account.Balance
	return s.withinTx(ctx, func(ptx *postgresTx) error {
		if err := s.accounts.CreateAccount(ctx, ptx.tx, account); err != nil {
			return err
		}
		if opening <= 0 {
			return nil
		}
		balance, err := ptx.ApplyBalanceDelta(ctx, account.ID, opening)
		if err != nil {
			return err
		}
		account.Balance = balance
		return ptx.AppendEntry(ctx, &model.LedgerEntry{
			ToAccountID: &account.ID,
			Amount:      opening,
			Memo:        "opening balance",
			CreatedAt:   openedAt,
		}, nil)
	})
}

type postgresTx struct {
	tx       *sql.Tx
	accounts *AccountRepository
	ledger   *LedgerRepository
}

func (t *postgresTx) LockAccounts(ctx context.Context, ids ...int64) (map[int64]*model.Account, error) {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	locked := make(map[int64]*model.Account, len(ordered))
	for _, id := range ordered {
		acc, err := t.accounts.GetAccountForUpdate(ctx, t.tx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = acc
	}
	return locked, nil
}

func (t *postgresTx) ApplyBalanceDelta(ctx context.Context, accountID, delta int64) (int64, error) {
	return t.accounts.ApplyBalanceDelta(ctx, t.tx, accountID, delta)
}

func (t *postgresTx) AppendEntry(ctx context.Context, entry *model.LedgerEntry, stamp func() time.Time) error {
	return t.ledger.Append(ctx, t.tx, entry, stamp)
}

var (
	_ Store         = (*PostgresStore)(nil)
	_ UserDirectory = (*PostgresStore)(nil)
	_ Provisioner   = (*PostgresStore)(nil)
	_ SessionStore  = (*PostgresStore)(nil)
)
