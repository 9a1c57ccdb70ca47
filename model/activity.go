package model

import "time"

type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// ActivityItem is a ledger entry seen from one user's side.
type ActivityItem struct {
	EntryID       int64     `json:"entry_id"`
	FromAccountID *int64    `json:"from_account_id"`
	ToAccountID   *int64    `json:"to_account_id"`
	Amount        int64     `json:"amount"`
	Memo          string    `json:"memo"`
	CreatedAt     time.Time `json:"created_at"`
	Direction     Direction `json:"direction"`
}
