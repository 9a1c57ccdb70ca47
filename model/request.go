// file: model/request.go

package model

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

// TransferRequest is the wire form of a transfer. Amount is a decimal string
// ("12.34") converted to minor units before the engine sees it. Amount and
// Memo are checked by the engine so they report their own error kinds, and
// destination names of any length are left to the lookup.
type TransferRequest struct {
	FromAccountID int64  `json:"from_account_id" validate:"required,gt=0"`
	ToUser        string `json:"to_user" validate:"required"`
	ToAccount     string `json:"to_account" validate:"required"`
	Amount        string `json:"amount"`
	Memo          string `json:"memo"`
}

// TransferResponse is returned by POST /api/transfers.
type TransferResponse struct {
	OK                        bool   `json:"ok"`
	EntryID                   int64  `json:"entry_id"`
	SourceBalance             int64  `json:"source_balance"`
	DestinationBalance        int64  `json:"destination_balance"`
	Currency                  string `json:"currency"`
	SourceBalanceDisplay      string `json:"source_balance_display"`
	DestinationBalanceDisplay string `json:"destination_balance_display"`
}

// AccountView is an account as shown to its owner.
type AccountView struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Balance        int64  `json:"balance"`
	Currency       string `json:"currency"`
	BalanceDisplay string `json:"balance_display"`
}

// ActivityView is one activity row as shown to a user.
type ActivityView struct {
	ActivityItem
	When          string `json:"when"`
	AmountDisplay string `json:"amount_display"`
}
