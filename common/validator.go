package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ValidateAndDecode decodes the JSON body into payload and runs its
// validate tags.
func ValidateAndDecode(w http.ResponseWriter, r *http.Request, payload interface{}) *AppError {
	if err := Decode(w, r, payload); err != nil {
		return err
	}
	return Validate(payload)
}

// Decode reads a size-bounded JSON body into payload without validating it.
func Decode(w http.ResponseWriter, r *http.Request, payload interface{}) *AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return NewAppError(http.StatusBadRequest, "Invalid request body", err).WithKind("InvalidRequest")
	}
	return nil
}

// Validate runs the validate tags of payload.
func Validate(payload interface{}) *AppError {
	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewAppError(http.StatusBadRequest, validationErrors.Error(), nil).WithKind("InvalidRequest")
		}
		return NewAppError(http.StatusBadRequest, "Invalid request body", err).WithKind("InvalidRequest")
	}

	return nil
}
