package handler

import (
	"errors"
	"go-ledger/common"
	"go-ledger/service"
	"net/http"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// statusForKind maps engine error kinds to HTTP status codes.
var statusForKind = map[service.ErrorKind]int{
	service.KindInvalidAmount:              http.StatusBadRequest,
	service.KindMemoTooLong:                http.StatusBadRequest,
	service.KindSameAccountTransfer:        http.StatusBadRequest,
	service.KindInsufficientFunds:          http.StatusBadRequest,
	service.KindSourceNotOwnedByCaller:     http.StatusForbidden,
	service.KindSourceAccountNotFound:      http.StatusNotFound,
	service.KindDestinationUserNotFound:    http.StatusNotFound,
	service.KindDestinationAccountNotFound: http.StatusNotFound,
	service.KindInvalidCredentials:         http.StatusUnauthorized,
	service.KindStorageUnavailable:         http.StatusServiceUnavailable,
}

// serviceError converts a service error into the response body. Domain
// rejections carry their own message; anything else gets fallback.
func serviceError(err error, fallback string) *common.AppError {
	kind := service.KindOf(err)
	status, ok := statusForKind[kind]
	if !ok {
		return common.NewAppError(http.StatusInternalServerError, fallback, err).WithKind(string(service.KindInternal))
	}

	message := err.Error()
	if errors.Is(err, service.ErrStorageUnavailable) {
		message = "The ledger is temporarily unavailable, please retry"
	}
	return common.NewAppError(status, message, err).WithKind(string(kind))
}
