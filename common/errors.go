package common

import (
	"encoding/json"
	"go-ledger/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// AppError is the JSON error body returned by every endpoint.
type AppError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithKind sets the machine-readable error kind.
func (e *AppError) WithKind(kind string) *AppError {
	e.Kind = kind
	return e
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		fields := logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}
		if e.Kind != "" {
			fields["kind"] = e.Kind
		}
		entry := logger.Log.WithFields(fields)
		if e.Code >= http.StatusInternalServerError {
			entry.Error(e.Message)
		} else {
			entry.Warn(e.Message)
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
