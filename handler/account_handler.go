package handler

import (
	"encoding/json"
	"go-ledger/common"
	"go-ledger/logger"
	"go-ledger/model"
	"go-ledger/money"
	"go-ledger/service"
	"net/http"
)

type AccountHandler struct {
	service  *service.AccountService
	currency string
}

func NewAccountHandler(service *service.AccountService, currency string) *AccountHandler {
	return &AccountHandler{service: service, currency: currency}
}

// ListAccounts godoc
// @Summary      List my accounts
// @Description  Lists the caller's accounts with balances in minor units and for display.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.AccountView
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFrom(r)
	if appErr != nil {
		return appErr
	}

	logger.Log.WithField("user_id", userID).Info("List accounts request received")

	accounts, err := h.service.ListAccountsForUser(r.Context(), userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve accounts", err)
	}

	views := make([]model.AccountView, 0, len(accounts))
	for _, acc := range accounts {
		views = append(views, model.AccountView{
			ID:             acc.ID,
			Name:           acc.Name,
			Balance:        acc.Balance,
			Currency:       h.currency,
			BalanceDisplay: money.FormatMinorUnits(acc.Balance),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(views)

	return nil
}
