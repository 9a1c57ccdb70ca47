package repository

import (
	"cmp"
	"context"
	"fmt"
	"go-ledger/model"
	"slices"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

type ownerName struct {
	ownerID int64
	name    string
}

// MemoryStore is an in-process Store, UserDirectory and Provisioner. Each
// account has its own lock, so transfers on disjoint accounts run in parallel
// while transfers sharing an account are serialized. Writes made inside a
// unit are buffered and applied at commit.
type MemoryStore struct {
	mu          sync.RWMutex // guards the maps and entries below
	users       map[int64]*model.User
	usernames   map[string]int64
	accounts    map[int64]*model.Account
	byOwnerName map[ownerName]int64
	entries     []*model.LedgerEntry
	sessions    map[string]*model.Session

	nextUserID    atomic.Int64
	nextAccountID atomic.Int64
	nextEntryID   atomic.Int64
	entrySeqMu    sync.Mutex // pairs entry id assignment with its stamp

	locksMu sync.Mutex
	locks   map[int64]chan struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]*model.User),
		usernames:   make(map[string]int64),
		accounts:    make(map[int64]*model.Account),
		byOwnerName: make(map[ownerName]int64),
		sessions:    make(map[string]*model.Session),
		locks:       make(map[int64]chan struct{}),
	}
}

// accountLock returns the lock for accountID, creating it on first use.
func (m *MemoryStore) accountLock(accountID int64) chan struct{} {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()

	l, ok := m.locks[accountID]
	if !ok {
		l = make(chan struct{}, 1)
		m.locks[accountID] = l
	}
	return l
}

func (m *MemoryStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.usernames[user.Username]; exists {
		return ErrDuplicate
	}
	user.ID = m.nextUserID.Add(1)
	user.CreatedAt = time.Now().UTC()
	stored := *user
	m.users[user.ID] = &stored
	m.usernames[user.Username] = user.ID
	return nil
}

func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usernames[username]
	if !ok {
		return nil, ErrNotFound
	}
	u := *m.users[id]
	return &u, nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) OpenAccount(_ context.Context, account *model.Account, openedAt time.Time) error {
	if account.Balance < 0 {
		return ErrNegativeBalance
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[account.UserID]; !ok {
		return ErrNotFound
	}
	key := ownerName{ownerID: account.UserID, name: account.Name}
	if _, exists := m.byOwnerName[key]; exists {
		return ErrDuplicate
	}

	account.ID = m.nextAccountID.Add(1)
	account.CreatedAt = openedAt
	stored := *account
	m.accounts[account.ID] = &stored
	m.byOwnerName[key] = account.ID

	if account.Balance > 0 {
		to := account.ID
		m.entries = append(m.entries, &model.LedgerEntry{
			ID:          m.nextEntryID.Add(1),
			ToAccountID: &to,
			Amount:      account.Balance,
			Memo:        "opening balance",
			CreatedAt:   openedAt,
		})
	}
	return nil
}

func (m *MemoryStore) CreateSession(_ context.Context, session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[session.UserID]; !ok {
		return ErrNotFound
	}
	if _, exists := m.sessions[session.ID]; exists {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, id)
		}
	}
	session.CreatedAt = now
	stored := *session
	m.sessions[session.ID] = &stored
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) DeleteSessionsByUserID(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *MemoryStore) GetAccountByID(_ context.Context, id int64) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (m *MemoryStore) GetAccountByOwnerAndName(_ context.Context, ownerID int64, name string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byOwnerName[ownerName{ownerID: ownerID, name: name}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m.accounts[id]
	return &cp, nil
}

func (m *MemoryStore) GetAccountsByUserID(_ context.Context, userID int64) ([]*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	accounts := []*model.Account{}
	for _, acc := range m.accounts {
		if acc.UserID == userID {
			cp := *acc
			accounts = append(accounts, &cp)
		}
	}
	slices.SortFunc(accounts, func(a, b *model.Account) int { return cmp.Compare(a.ID, b.ID) })
	return accounts, nil
}

func (m *MemoryStore) RecentForAccounts(_ context.Context, accountIDs []int64, limit int) ([]*model.LedgerEntry, error) {
	result := []*model.LedgerEntry{}
	if len(accountIDs) == 0 || limit <= 0 {
		return result, nil
	}

	m.mu.RLock()
	for _, e := range m.entries {
		for _, id := range accountIDs {
			if e.Involves(id) {
				cp := *e
				result = append(result, &cp)
				break
			}
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(result, func(a, b *model.LedgerEntry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error {
	tx := &memoryTx{store: m, working: make(map[int64]*model.Account)}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	tx.commit()
	return nil
}

// Balances returns the sum of all account balances. Tests use it to check
// conservation.
func (m *MemoryStore) Balances() (total int64, byAccount map[int64]int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byAccount = make(map[int64]int64, len(m.accounts))
	for id, acc := range m.accounts {
		byAccount[id] = acc.Balance
		total += acc.Balance
	}
	return total, byAccount
}

// EntryCount returns the number of committed ledger entries.
func (m *MemoryStore) EntryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// memoryTx holds account locks and buffers writes until commit.
type memoryTx struct {
	store   *MemoryStore
	held    []chan struct{}
	working map[int64]*model.Account
	entries []*model.LedgerEntry
}

func (t *memoryTx) LockAccounts(ctx context.Context, ids ...int64) (map[int64]*model.Account, error) {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	locked := make(map[int64]*model.Account, len(ordered))
	for _, id := range ordered {
		if acc, ok := t.working[id]; ok {
			cp := *acc
			locked[id] = &cp
			continue
		}

		l := t.store.accountLock(id)
		select {
		case l <- struct{}{}:
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for account %d lock: %w", id, ctx.Err())
		}
		t.held = append(t.held, l)

		acc, err := t.store.GetAccountByID(ctx, id)
		if err != nil {
			return nil, err
		}
		t.working[id] = acc
		cp := *acc
		locked[id] = &cp
	}
	return locked, nil
}

func (t *memoryTx) ApplyBalanceDelta(_ context.Context, accountID, delta int64) (int64, error) {
	acc, ok := t.working[accountID]
	if !ok {
		return 0, ErrNotLocked
	}
	if acc.Balance+delta < 0 {
		return 0, ErrNegativeBalance
	}
	acc.Balance += delta
	return acc.Balance, nil
}

func (t *memoryTx) AppendEntry(_ context.Context, entry *model.LedgerEntry, stamp func() time.Time) error {
	if entry.Amount <= 0 {
		return fmt.Errorf("ledger entry amount must be positive, got %d", entry.Amount)
	}
	if utf8.RuneCountInString(entry.Memo) > model.MaxMemoLength {
		return fmt.Errorf("ledger entry memo exceeds %d characters", model.MaxMemoLength)
	}
	t.store.entrySeqMu.Lock()
	entry.ID = t.store.nextEntryID.Add(1)
	if stamp != nil {
		entry.CreatedAt = stamp()
	}
	t.store.entrySeqMu.Unlock()

	cp := *entry
	t.entries = append(t.entries, &cp)
	return nil
}

func (t *memoryTx) commit() {
	m := t.store
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, acc := range t.working {
		m.accounts[id].Balance = acc.Balance
	}
	m.entries = append(m.entries, t.entries...)
}

func (t *memoryTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		<-t.held[i]
	}
	t.held = nil
}

var (
	_ Store         = (*MemoryStore)(nil)
	_ UserDirectory = (*MemoryStore)(nil)
	_ Provisioner   = (*MemoryStore)(nil)
	_ SessionStore  = (*MemoryStore)(nil)
)
