package repository

import (
	"context"
	"go-ledger/model"
	"time"
)

// AccountReader is the read side of the account store.
type AccountReader interface {
	GetAccountByID(ctx context.Context, id int64) (*model.Account, error)
	GetAccountByOwnerAndName(ctx context.Context, ownerID int64, name string) (*model.Account, error)
	GetAccountsByUserID(ctx context.Context, userID int64) ([]*model.Account, error)
}

// LedgerReader is the read side of the ledger entry log.
type LedgerReader interface {
	// RecentForAccounts returns entries touching any of accountIDs, newest first.
	RecentForAccounts(ctx context.Context, accountIDs []int64, limit int) ([]*model.LedgerEntry, error)
}

// UserDirectory resolves users by name or id.
type UserDirectory interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// LedgerTx is the atomic unit handed to Store.WithinTx. Balance mutation and
// ledger appends are only reachable through it.
type LedgerTx interface {
	// LockAccounts locks the accounts in ascending id order and returns their
	// current state keyed by id. Locks are held until the unit ends.
	LockAccounts(ctx context.Context, ids ...int64) (map[int64]*model.Account, error)
	// ApplyBalanceDelta adds delta to the balance and returns the new balance.
	ApplyBalanceDelta(ctx context.Context, accountID, delta int64) (int64, error)
	// AppendEntry persists entry and sets entry.ID. A non-nil stamp is called
	// while the id is assigned and becomes entry.CreatedAt, so entry ids and
	// timestamps increase together.
	AppendEntry(ctx context.Context, entry *model.LedgerEntry, stamp func() time.Time) error
}

// Store is the durable ledger: accounts plus the entry log.
type Store interface {
	AccountReader
	LedgerReader
	// WithinTx runs fn as one all-or-nothing unit. An error from fn, or a
	// cancelled ctx, rolls back every mutation made through tx.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// SessionStore records issued bearer tokens so they can be revoked before
// they expire.
type SessionStore interface {
	CreateSession(ctx context.Context, session *model.Session) error
	// GetSession returns ErrNotFound once the session has been revoked.
	GetSession(ctx context.Context, id string) (*model.Session, error)
	// DeleteSessionsByUserID revokes every session of the user.
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

// Provisioner creates users and accounts. It is used for account opening
// and demo seeding, never by the transfer engine.
type Provisioner interface {
	CreateUser(ctx context.Context, user *model.User) error
	// OpenAccount inserts account and records account.Balance as an external
	// credit entry dated openedAt in the same unit.
	OpenAccount(ctx context.Context, account *model.Account, openedAt time.Time) error
}
