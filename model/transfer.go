package model

import "time"

// TransferResult carries the post-commit balances for immediate display.
type TransferResult struct {
	EntryID            int64     `json:"entry_id"`
	SourceBalance      int64     `json:"source_balance"`
	DestinationBalance int64     `json:"destination_balance"`
	CreatedAt          time.Time `json:"created_at"`
}

// TransferCompleted is published after a transfer commits.
type TransferCompleted struct {
	EntryID       int64     `json:"entry_id"`
	FromAccountID int64     `json:"from_account_id"`
	ToAccountID   int64     `json:"to_account_id"`
	FromUserID    int64     `json:"from_user_id"`
	ToUserID      int64     `json:"to_user_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Memo          string    `json:"memo"`
	CreatedAt     time.Time `json:"created_at"`
}
