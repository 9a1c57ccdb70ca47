package service

import "errors"

var (
	ErrInvalidAmount              = errors.New("transfer amount must be greater than zero")
	ErrMemoTooLong                = errors.New("memo is too long")
	ErrSourceAccountNotFound      = errors.New("source account not found")
	ErrSourceNotOwnedByCaller     = errors.New("you can only transfer money from your own account")
	ErrDestinationUserNotFound    = errors.New("destination user not found")
	ErrDestinationAccountNotFound = errors.New("destination account not found")
	ErrSameAccountTransfer        = errors.New("cannot transfer money to the same account")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrStorageUnavailable         = errors.New("storage unavailable")
	ErrInvalidCredentials         = errors.New("invalid credentials")
	ErrSessionRevoked             = errors.New("session has been revoked")
)

// ErrorKind names an error for API clients.
type ErrorKind string

const (
	KindInvalidAmount              ErrorKind = "InvalidAmount"
	KindMemoTooLong                ErrorKind = "MemoTooLong"
	KindSourceAccountNotFound      ErrorKind = "SourceAccountNotFound"
	KindSourceNotOwnedByCaller     ErrorKind = "SourceNotOwnedByCaller"
	KindDestinationUserNotFound    ErrorKind = "DestinationUserNotFound"
	KindDestinationAccountNotFound ErrorKind = "DestinationAccountNotFound"
	KindSameAccountTransfer        ErrorKind = "SameAccountTransfer"
	KindInsufficientFunds          ErrorKind = "InsufficientFunds"
	KindStorageUnavailable         ErrorKind = "StorageUnavailable"
	KindInvalidCredentials         ErrorKind = "InvalidCredentials"
	KindInternal                   ErrorKind = "Internal"
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidAmount, KindInvalidAmount},
	{ErrMemoTooLong, KindMemoTooLong},
	{ErrSourceAccountNotFound, KindSourceAccountNotFound},
	{ErrSourceNotOwnedByCaller, KindSourceNotOwnedByCaller},
	{ErrDestinationUserNotFound, KindDestinationUserNotFound},
	{ErrDestinationAccountNotFound, KindDestinationAccountNotFound},
	{ErrSameAccountTransfer, KindSameAccountTransfer},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrStorageUnavailable, KindStorageUnavailable},
	{ErrInvalidCredentials, KindInvalidCredentials},
}

// KindOf returns the kind of err, or KindInternal for unknown errors.
func KindOf(err error) ErrorKind {
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return KindInternal
}
