package service

import (
	"context"
	"errors"
	"go-ledger/logger"
	"go-ledger/model"
	"go-ledger/repository"
	"time"

	"github.com/sirupsen/logrus"
)

// DemoPassword is the password of every seeded demo user.
const DemoPassword = "password"

type demoAccount struct {
	name    string
	balance int64
}

var demoUsers = []struct {
	username string
	accounts []demoAccount
}{
	{"alice", []demoAccount{{"Checking", 150_000}, {"Savings", 20_000}}},
	{"bob", []demoAccount{{"Checking", 80_000}, {"Savings", 10_000}}},
}

// seedStore provisions demo data and finds users that already exist.
type seedStore interface {
	repository.Provisioner
	repository.UserDirectory
}

// SeedDemo creates the demo users and their opening balances. It can be rerun:
// existing accounts are kept as they are, and an existing user whose accounts
// are missing, for example after an interrupted run, gets them opened.
func SeedDemo(ctx context.Context, store seedStore, auth *AuthService) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	for _, du := range demoUsers {
		log := logger.Log.WithField("username", du.username)

		user := &model.User{Username: du.username, PasswordHash: hash}
		if err := store.CreateUser(ctx, user); err != nil {
			if !errors.Is(err, repository.ErrDuplicate) {
				return err
			}
			existing, err := store.GetUserByUsername(ctx, du.username)
			if err != nil {
				return err
			}
			user = existing
			log.Debug("Demo user already present")
		}

		opened := 0
		for _, da := range du.accounts {
			acc := &model.Account{UserID: user.ID, Name: da.name, Balance: da.balance}
			err := store.OpenAccount(ctx, acc, time.Now().UTC())
			switch {
			case err == nil:
				opened++
			case errors.Is(err, repository.ErrDuplicate):
			default:
				return err
			}
		}
		if opened > 0 {
			log.WithFields(logrus.Fields{"user_id": user.ID, "accounts": opened}).Info("Seeded demo user")
		}
	}
	return nil
}
