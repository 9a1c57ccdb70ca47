package handler

import (
	"encoding/json"
	"go-ledger/common"
	"go-ledger/model"
	"go-ledger/money"
	"go-ledger/service"
	"net/http"
	"strconv"
	"strings"
)

// activityTimeLayout is how activity timestamps are shown (UTC).
const activityTimeLayout = "2006-01-02 15:04"

// TransactionHandler holds dependencies for transfer and activity handlers.
type TransactionHandler struct {
	transfers *service.TransferService
	activity  *service.ActivityService
	currency  string
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(transfers *service.TransferService, activity *service.ActivityService, currency string) *TransactionHandler {
	return &TransactionHandler{transfers: transfers, activity: activity, currency: currency}
}

// CreateTransfer godoc
// @Summary      Transfer money to another account
// @Description  Moves an amount from one of the caller's accounts to a named account of a named user. The amount is a decimal string with at most two fractional digits.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transfer body model.TransferRequest true "Details of the transfer"
// @Success      201  {object}  model.TransferResponse
// @Failure      400  {object}  common.AppError "InvalidAmount, MemoTooLong, SameAccountTransfer or InsufficientFunds"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      403  {object}  common.AppError "SourceNotOwnedByCaller"
// @Failure      404  {object}  common.AppError "SourceAccountNotFound, DestinationUserNotFound or DestinationAccountNotFound"
// @Failure      503  {object}  common.AppError "StorageUnavailable: nothing was applied, retry"
// @Router       /api/transfers [post]
func (h *TransactionHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if err := common.Decode(w, r, &req); err != nil {
		return err
	}

	userID, appErr := userIDFrom(r)
	if appErr != nil {
		return appErr
	}

	// The amount is checked before anything else in the request.
	amount, err := money.ParseMinorUnits(req.Amount)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Amount must be a decimal number with at most two fractional digits", nil).
			WithKind(string(service.KindInvalidAmount))
	}
	if err := common.Validate(&req); err != nil {
		return err
	}

	result, err := h.transfers.Transfer(r.Context(), service.TransferCommand{
		ActingUserID:           userID,
		SourceAccountID:        req.FromAccountID,
		DestinationUsername:    service.NormalizeUsername(req.ToUser),
		DestinationAccountName: strings.TrimSpace(req.ToAccount),
		Amount:                 amount,
		Memo:                   strings.TrimSpace(req.Memo),
	})
	if err != nil {
		return serviceError(err, "Could not process transfer")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(model.TransferResponse{
		OK:                        true,
		EntryID:                   result.EntryID,
		SourceBalance:             result.SourceBalance,
		DestinationBalance:        result.DestinationBalance,
		Currency:                  h.currency,
		SourceBalanceDisplay:      money.FormatMinorUnits(result.SourceBalance),
		DestinationBalanceDisplay: money.FormatMinorUnits(result.DestinationBalance),
	})
	return nil
}

// ListActivity godoc
// @Summary      Recent activity
// @Description  Lists the newest ledger entries touching any of the caller's accounts, tagged IN or OUT.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Maximum number of entries (default from config, at most 100)"
// @Success      200  {array}   model.ActivityView
// @Failure      400  {object}  common.AppError "Invalid limit"
// @Failure      401  {object}  common.AppError "Unauthorized: Invalid or missing token"
// @Failure      500  {object}  common.AppError "Internal server error while retrieving activity"
// @Router       /api/activity [get]
func (h *TransactionHandler) ListActivity(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := userIDFrom(r)
	if appErr != nil {
		return appErr
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return common.NewAppError(http.StatusBadRequest, "limit must be a positive integer", err).WithKind("InvalidRequest")
		}
		limit = n
	}

	items, err := h.activity.RecentActivity(r.Context(), userID, limit)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve activity", err)
	}

	views := make([]model.ActivityView, 0, len(items))
	for _, item := range items {
		views = append(views, model.ActivityView{
			ActivityItem:  item,
			When:          item.CreatedAt.UTC().Format(activityTimeLayout),
			AmountDisplay: money.FormatMinorUnits(item.Amount),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(views)
	return nil
}
