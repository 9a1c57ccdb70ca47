package handler

import (
	"encoding/json"
	"errors"
	"go-ledger/common"
	"go-ledger/logger"
	"go-ledger/model"
	"go-ledger/service"
	"net/http"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges a username and password for a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Username and password"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Malformed request"
// @Failure      401  {object}  common.AppError "Invalid credentials"
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(w, r, &req); err != nil {
		return err
	}

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid username or password", nil).WithKind(string(service.KindInvalidCredentials))
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"access_token": token, "username": user.Username})
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes every session of the caller. Tokens issued earlier stop working.
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  common.AppError "Missing or invalid token"
// @Failure      503  {object}  common.AppError "Storage unavailable"
// @Router       /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFrom(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		return serviceError(err, "Could not log out")
	}

	logger.Log.WithField("user_id", userID).Info("User logged out")
	w.WriteHeader(http.StatusNoContent)
	return nil
}
