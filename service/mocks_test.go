package service

import (
	"context"
	"go-ledger/model"
	"go-ledger/repository"
	"time"

	"github.com/stretchr/testify/mock"
)

// mockStore is a mock for repository.Store. WithinTx runs fn against tx when
// one is set and then returns the configured error.
type mockStore struct {
	mock.Mock
	tx repository.LedgerTx
}

func (m *mockStore) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockStore) GetAccountByOwnerAndName(ctx context.Context, ownerID int64, name string) (*model.Account, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockStore) GetAccountsByUserID(ctx context.Context, userID int64) ([]*model.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Account), args.Error(1)
}

func (m *mockStore) RecentForAccounts(ctx context.Context, accountIDs []int64, limit int) ([]*model.LedgerEntry, error) {
	args := m.Called(ctx, accountIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LedgerEntry), args.Error(1)
}

func (m *mockStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.LedgerTx) error) error {
	args := m.Called(ctx)
	if m.tx != nil {
		if err := fn(ctx, m.tx); err != nil {
			return err
		}
	}
	return args.Error(0)
}

// mockLedgerTx is a mock for repository.LedgerTx.
type mockLedgerTx struct{ mock.Mock }

func (m *mockLedgerTx) LockAccounts(ctx context.Context, ids ...int64) (map[int64]*model.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*model.Account), args.Error(1)
}

func (m *mockLedgerTx) ApplyBalanceDelta(ctx context.Context, accountID, delta int64) (int64, error) {
	args := m.Called(ctx, accountID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedgerTx) AppendEntry(ctx context.Context, entry *model.LedgerEntry, stamp func() time.Time) error {
	args := m.Called(ctx, entry)
	if args.Error(0) == nil {
		entry.ID = 42
		if stamp != nil {
			entry.CreatedAt = stamp()
		}
	}
	return args.Error(0)
}

// mockUserDirectory is a mock for repository.UserDirectory.
type mockUserDirectory struct{ mock.Mock }

func (m *mockUserDirectory) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserDirectory) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// mockSessionStore is a mock for repository.SessionStore.
type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) CreateSession(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionStore) DeleteSessionsByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var (
	_ repository.Store         = (*mockStore)(nil)
	_ repository.LedgerTx      = (*mockLedgerTx)(nil)
	_ repository.UserDirectory = (*mockUserDirectory)(nil)
	_ repository.SessionStore  = (*mockSessionStore)(nil)
)
