package repository

import (
	"context"
	"database/sql"
	"go-ledger/logger"
	"go-ledger/model"

	"github.com/sirupsen/logrus"
)

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = `id, user_id, name, balance, created_at`

func scanAccount(row interface{ Scan(...any) error }) (*model.Account, error) {
	acc := &model.Account{}
	if err := row.Scan(&acc.ID, &acc.UserID, &acc.Name, &acc.Balance, &acc.CreatedAt); err != nil {
		return nil, err
	}
	return acc, nil
}

// CreateAccount inserts an account with a zero balance inside tx.
func (r *AccountRepository) CreateAccount(ctx context.Context, tx *sql.Tx, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": account.UserID,
		"name":    account.Name,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (user_id, name) VALUES ($1, $2) RETURNING id, balance, created_at`
	err := tx.QueryRowContext(ctx, query, account.UserID, account.Name).Scan(&account.ID, &account.Balance, &account.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return translateError(err)
	}
	return nil
}

// GetAccountByID retrieves a single account.
func (r *AccountRepository) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	log := logger.Log.WithField("account_id", id)
	log.Debug("Executing query to get account by ID")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	acc, err := scanAccount(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get account by ID query")
		}
		return nil, translateError(err)
	}
	return acc, nil
}

// GetAccountByOwnerAndName resolves an account through the (user_id, name) index.
func (r *AccountRepository) GetAccountByOwnerAndName(ctx context.Context, ownerID int64, name string) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": ownerID,
		"name":    name,
	})
	log.Debug("Executing query to get account by owner and name")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND name = $2`
	acc, err := scanAccount(r.DB.QueryRowContext(ctx, query, ownerID, name))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get account by owner and name query")
		}
		return nil, translateError(err)
	}
	return acc, nil
}

// GetAccountsByUserID retrieves all accounts for a specific user.
func (r *AccountRepository) GetAccountsByUserID(ctx context.Context, userID int64) ([]*model.Account, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Debug("Executing query to get accounts by user ID")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for accounts by user ID")
		return nil, err
	}
	defer rows.Close()

	accounts := []*model.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// GetAccountForUpdate reads an account and takes its row lock until tx ends.
func (r *AccountRepository) GetAccountForUpdate(ctx context.Context, tx *sql.Tx, accountID int64) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Debug("Executing query to get account for update")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	acc, err := scanAccount(tx.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, translateError(err)
	}
	return acc, nil
}

// ApplyBalanceDelta adds delta to the stored balance and returns the result.
// The CHECK (balance >= 0) constraint surfaces as ErrNegativeBalance.
func (r *AccountRepository) ApplyBalanceDelta(ctx context.Context, tx *sql.Tx, accountID, delta int64) (int64, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"delta":      delta,
	})
	log.Debug("Executing query to apply balance delta")

	var balance int64
	query := `UPDATE accounts SET balance = balance + $1 WHERE id = $2 RETURNING balance`
	err := tx.QueryRowContext(ctx, query, delta, accountID).Scan(&balance)
	if err != nil {
		if isCheckViolation(err) {
			return 0, ErrNegativeBalance
		}
		log.WithError(err).Error("Failed to execute apply balance delta query")
		return 0, translateError(err)
	}
	return balance, nil
}
