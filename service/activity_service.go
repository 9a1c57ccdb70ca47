package service

import (
	"context"
	"go-ledger/model"
	"go-ledger/repository"
	"strconv"
)

// MaxActivityLimit caps RecentActivity page size.
const MaxActivityLimit = 100

// ActivityService is the read path over the ledger log used by the display layer.
type ActivityService struct {
	accounts     repository.AccountReader
	ledger       repository.LedgerReader
	cache        *Cache
	defaultLimit int
}

func NewActivityService(accounts repository.AccountReader, ledger repository.LedgerReader, cache *Cache, defaultLimit int) *ActivityService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &ActivityService{
		accounts:     accounts,
		ledger:       ledger,
		cache:        cache,
		defaultLimit: min(defaultLimit, MaxActivityLimit),
	}
}

// RecentActivity returns the newest entries touching any account of userID.
// An entry is IN when its destination belongs to userID, OUT otherwise.
func (s *ActivityService) RecentActivity(ctx context.Context, userID int64, limit int) ([]model.ActivityItem, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	limit = min(limit, MaxActivityLimit)

	key, field := activityKey(userID), strconv.Itoa(limit)
	var items []model.ActivityItem
	if s.cache.hget(ctx, key, field, &items) {
		return items, nil
	}

	accounts, err := s.accounts.GetAccountsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[int64]bool, len(accounts))
	ids := make([]int64, 0, len(accounts))
	for _, acc := range accounts {
		owned[acc.ID] = true
		ids = append(ids, acc.ID)
	}

	entries, err := s.ledger.RecentForAccounts(ctx, ids, limit)
	if err != nil {
		return nil, err
	}

	items = make([]model.ActivityItem, 0, len(entries))
	for _, e := range entries {
		direction := model.DirectionOut
		if e.ToAccountID != nil && owned[*e.ToAccountID] {
			direction = model.DirectionIn
		}
		items = append(items, model.ActivityItem{
			EntryID:       e.ID,
			FromAccountID: e.FromAccountID,
			ToAccountID:   e.ToAccountID,
			Amount:        e.Amount,
			Memo:          e.Memo,
			CreatedAt:     e.CreatedAt,
			Direction:     direction,
		})
	}

	s.cache.hset(ctx, key, field, items)
	return items, nil
}
