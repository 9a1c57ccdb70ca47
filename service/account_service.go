// file: service/account_service.go

package service

import (
	"context"
	"go-ledger/model"
	"go-ledger/repository"
)

// AccountService serves the caller's account list through the cache.
type AccountService struct {
	repo  repository.AccountReader
	cache *Cache
}

func NewAccountService(repo repository.AccountReader, cache *Cache) *AccountService {
	return &AccountService{
		repo:  repo,
		cache: cache,
	}
}

// ListAccountsForUser lists accounts for a specific user, utilizing a cache-aside strategy.
func (s *AccountService) ListAccountsForUser(ctx context.Context, userID int64) ([]*model.Account, error) {
	key := accountsKey(userID)

	var accounts []*model.Account
	if s.cache.get(ctx, key, &accounts) {
		return accounts, nil
	}

	accounts, err := s.repo.GetAccountsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.set(ctx, key, accounts)
	return accounts, nil
}
