package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-ledger/model"
	"go-ledger/repository"
)

func TestSeedDemo(t *testing.T) {
	store := repository.NewMemoryStore()
	auth := NewAuthService(store, store, AuthConfig{SecretKey: "s", BcryptCost: bcrypt.MinCost})
	ctx := context.Background()

	require.NoError(t, SeedDemo(ctx, store, auth))

	alice, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	checking, err := store.GetAccountByOwnerAndName(ctx, alice.ID, "Checking")
	require.NoError(t, err)
	assert.Equal(t, int64(150000), checking.Balance)

	bob, err := store.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	bobAccounts, err := store.GetAccountsByUserID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobAccounts, 2)

	total, _ := store.Balances()
	assert.Equal(t, int64(260000), total)
	assert.Equal(t, 4, store.EntryCount())

	_, _, err = auth.Login(ctx, "bob", DemoPassword)
	assert.NoError(t, err)

	// Seeding again changes nothing.
	require.NoError(t, SeedDemo(ctx, store, auth))
	totalAgain, _ := store.Balances()
	assert.Equal(t, total, totalAgain)
	assert.Equal(t, 4, store.EntryCount())
}

func TestSeedDemo_CompletesPartiallySeededUser(t *testing.T) {
	store := repository.NewMemoryStore()
	auth := NewAuthService(store, store, AuthConfig{SecretKey: "s", BcryptCost: bcrypt.MinCost})
	ctx := context.Background()

	// A previous run created alice and only one of her accounts.
	hash, err := auth.HashPassword(DemoPassword)
	require.NoError(t, err)
	alice := &model.User{Username: "alice", PasswordHash: hash}
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NoError(t, store.OpenAccount(ctx, &model.Account{UserID: alice.ID, Name: "Checking", Balance: 150_000}, time.Now().UTC()))

	require.NoError(t, SeedDemo(ctx, store, auth))

	accounts, err := store.GetAccountsByUserID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	savings, err := store.GetAccountByOwnerAndName(ctx, alice.ID, "Savings")
	require.NoError(t, err)
	assert.Equal(t, int64(20_000), savings.Balance)

	total, _ := store.Balances()
	assert.Equal(t, int64(260000), total)
	assert.Equal(t, 4, store.EntryCount())
}
