package model

import "time"

// MaxMemoLength bounds LedgerEntry.Memo.
const MaxMemoLength = 140

// LedgerEntry is an immutable record of one completed movement of funds. A nil
// FromAccountID or ToAccountID marks an external credit or debit.
type LedgerEntry struct {
	ID            int64     `json:"id"`
	FromAccountID *int64    `json:"from_account_id"`
	ToAccountID   *int64    `json:"to_account_id"`
	Amount        int64     `json:"amount"`
	Memo          string    `json:"memo"`
	CreatedAt     time.Time `json:"created_at"`
}

// Involves reports whether accountID is the source or destination of e.
func (e *LedgerEntry) Involves(accountID int64) bool {
	return (e.FromAccountID != nil && *e.FromAccountID == accountID) ||
		(e.ToAccountID != nil && *e.ToAccountID == accountID)
}
