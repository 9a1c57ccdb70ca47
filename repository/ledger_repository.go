package repository

import (
	"context"
	"database/sql"
	"go-ledger/logger"
	"go-ledger/model"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// LedgerRepository persists the entry log. Entries are append-only: there is
// no update or delete statement for ledger_entries.
type LedgerRepository struct {
	DB *sql.DB

	seqMu sync.Mutex // pairs nextval with the entry stamp
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// Append inserts entry inside tx and sets entry.ID. With a non-nil stamp the
// id is drawn from the sequence and entry.CreatedAt stamped under one lock, so
// entries appended by this process never have ids and timestamps that disagree.
func (r *LedgerRepository) Append(ctx context.Context, tx *sql.Tx, entry *model.LedgerEntry, stamp func() time.Time) error {
	log := logger.Log.WithFields(logrus.Fields{
		"from_account_id": idField(entry.FromAccountID),
		"to_account_id":   idField(entry.ToAccountID),
		"amount":          entry.Amount,
	})
	log.Info("Executing query to append a ledger entry")

	if stamp == nil {
		query := `INSERT INTO ledger_entries (from_account_id, to_account_id, amount, memo, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
		err := tx.QueryRowContext(ctx, query,
			nullableID(entry.FromAccountID),
			nullableID(entry.ToAccountID),
			entry.Amount,
			entry.Memo,
			entry.CreatedAt,
		).Scan(&entry.ID)
		if err != nil {
			log.WithError(err).Error("Failed to execute append ledger entry query")
			return translateError(err)
		}
		return nil
	}

	if err := r.reserveID(ctx, tx, entry, stamp); err != nil {
		log.WithError(err).Error("Failed to reserve a ledger entry id")
		return translateError(err)
	}
	query := `INSERT INTO ledger_entries (id, from_account_id, to_account_id, amount, memo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := tx.ExecContext(ctx, query,
		entry.ID,
		nullableID(entry.FromAccountID),
		nullableID(entry.ToAccountID),
		entry.Amount,
		entry.Memo,
		entry.CreatedAt,
	)
	if err != nil {
		log.WithError(err).Error("Failed to execute append ledger entry query")
		return translateError(err)
	}
	return nil
}

func (r *LedgerRepository) reserveID(ctx context.Context, tx *sql.Tx, entry *model.LedgerEntry, stamp func() time.Time) error {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()

	query := `SELECT nextval(pg_get_serial_sequence('ledger_entries', 'id'))`
	if err := tx.QueryRowContext(ctx, query).Scan(&entry.ID); err != nil {
		return err
	}
	entry.CreatedAt = stamp()
	return nil
}

// RecentForAccounts returns up to limit entries in which any of accountIDs is
// the source or destination, most recent first.
func (r *LedgerRepository) RecentForAccounts(ctx context.Context, accountIDs []int64, limit int) ([]*model.LedgerEntry, error) {
	entries := []*model.LedgerEntry{}
	if len(accountIDs) == 0 || limit <= 0 {
		return entries, nil
	}

	log := logger.Log.WithFields(logrus.Fields{
		"account_ids": accountIDs,
		"limit":       limit,
	})
	log.Debug("Executing query to get recent ledger entries")

	query := `
		SELECT id, from_account_id, to_account_id, amount, memo, created_at
		FROM ledger_entries
		WHERE from_account_id = ANY($1) OR to_account_id = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(accountIDs), limit)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for recent ledger entries")
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e        model.LedgerEntry
			from, to sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &from, &to, &e.Amount, &e.Memo, &e.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan ledger entry row")
			return nil, err
		}
		e.FromAccountID = idPtr(from)
		e.ToAccountID = idPtr(to)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func idField(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
