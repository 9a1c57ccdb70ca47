package service

import (
	"context"
	"errors"
	"fmt"
	"go-ledger/config"
	"go-ledger/logger"
	"go-ledger/model"
	"go-ledger/repository"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// TransferCommand is a request to move Amount minor units out of an account
// owned by ActingUserID into DestinationAccountName of DestinationUsername.
type TransferCommand struct {
	ActingUserID           int64
	SourceAccountID        int64
	DestinationUsername    string
	DestinationAccountName string
	Amount                 int64
	Memo                   string
}

// TransferService is the transfer engine. It validates a command, then debits,
// credits and appends the ledger entry in one store unit.
type TransferService struct {
	store     repository.Store
	users     repository.UserDirectory
	cache     *Cache
	publisher EventPublisher
	clock     *monotonicClock
	cfg       config.LedgerConfig
}

func NewTransferService(store repository.Store, users repository.UserDirectory, cache *Cache, publisher EventPublisher, cfg config.LedgerConfig) *TransferService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &TransferService{
		store:     store,
		users:     users,
		cache:     cache,
		publisher: publisher,
		clock:     newMonotonicClock(),
		cfg:       cfg,
	}
}

func (s *TransferService) Transfer(ctx context.Context, cmd TransferCommand) (*model.TransferResult, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"acting_user_id":  cmd.ActingUserID,
		"from_account_id": cmd.SourceAccountID,
		"to_user":         cmd.DestinationUsername,
		"to_account":      cmd.DestinationAccountName,
		"amount":          cmd.Amount,
	})
	log.Info("Starting money transfer process")

	source, destination, err := s.resolve(ctx, cmd)
	if err != nil {
		log.WithField("reason", err.Error()).Warn("Transfer rejected")
		return nil, err
	}

	txCtx := ctx
	if s.cfg.TxTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, s.cfg.TxTimeout)
		defer cancel()
	}

	var result *model.TransferResult
	err = s.store.WithinTx(txCtx, func(ctx context.Context, tx repository.LedgerTx) error {
		var err error
		result, err = s.commit(ctx, tx, cmd, source.ID, destination.ID)
		return err
	})
	if err != nil {
		err = classifyCommitError(err)
		if errors.Is(err, ErrStorageUnavailable) {
			log.WithError(err).Error("Transfer could not be committed")
		} else {
			log.WithField("reason", err.Error()).Warn("Transfer rejected")
		}
		return nil, err
	}

	log.WithField("entry_id", result.EntryID).Info("Transaction completed successfully")

	s.cache.InvalidateUsers(ctx, source.UserID, destination.UserID)
	event := model.TransferCompleted{
		EntryID:       result.EntryID,
		FromAccountID: source.ID,
		ToAccountID:   destination.ID,
		FromUserID:    source.UserID,
		ToUserID:      destination.UserID,
		Amount:        cmd.Amount,
		Currency:      s.cfg.Currency,
		Memo:          cmd.Memo,
		CreatedAt:     result.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish transfer event")
	}
	return result, nil
}

// resolve runs every check that does not need the account locks, in order.
func (s *TransferService) resolve(ctx context.Context, cmd TransferCommand) (source, destination *model.Account, err error) {
	if cmd.Amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if utf8.RuneCountInString(cmd.Memo) > model.MaxMemoLength {
		return nil, nil, ErrMemoTooLong
	}

	source, err = s.store.GetAccountByID(ctx, cmd.SourceAccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrSourceAccountNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if source.UserID != cmd.ActingUserID {
		return nil, nil, ErrSourceNotOwnedByCaller
	}

	destUser, err := s.users.GetUserByUsername(ctx, cmd.DestinationUsername)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrDestinationUserNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	destination, err = s.store.GetAccountByOwnerAndName(ctx, destUser.ID, cmd.DestinationAccountName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrDestinationAccountNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if source.ID == destination.ID && !s.cfg.AllowSelfTransfer {
		return nil, nil, ErrSameAccountTransfer
	}
	return source, destination, nil
}

// commit is the locked part of a transfer: the balance check, both balance
// changes and the ledger append.
func (s *TransferService) commit(ctx context.Context, tx repository.LedgerTx, cmd TransferCommand, sourceID, destinationID int64) (*model.TransferResult, error) {
	locked, err := tx.LockAccounts(ctx, sourceID, destinationID)
	if err != nil {
		return nil, err
	}
	if locked[sourceID].Balance < cmd.Amount {
		return nil, ErrInsufficientFunds
	}

	sourceBalance, err := tx.ApplyBalanceDelta(ctx, sourceID, -cmd.Amount)
	if err != nil {
		return nil, fmt.Errorf("could not update sender balance: %w", err)
	}
	destinationBalance, err := tx.ApplyBalanceDelta(ctx, destinationID, cmd.Amount)
	if err != nil {
		return nil, fmt.Errorf("could not update receiver balance: %w", err)
	}
	if sourceID == destinationID {
		sourceBalance = destinationBalance
	}

	entry := &model.LedgerEntry{
		FromAccountID: &sourceID,
		ToAccountID:   &destinationID,
		Amount:        cmd.Amount,
		Memo:          cmd.Memo,
	}
	if err := tx.AppendEntry(ctx, entry, s.clock.Now); err != nil {
		return nil, fmt.Errorf("could not create ledger entry: %w", err)
	}

	return &model.TransferResult{
		EntryID:            entry.ID,
		SourceBalance:      sourceBalance,
		DestinationBalance: destinationBalance,
		CreatedAt:          entry.CreatedAt,
	}, nil
}

// classifyCommitError keeps domain rejections and folds every other failure of
// the unit into ErrStorageUnavailable.
func classifyCommitError(err error) error {
	switch {
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, repository.ErrNegativeBalance):
		return ErrInsufficientFunds
	case errors.Is(err, ErrStorageUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
}
