package repository

import (
	"context"
	"database/sql"
	"go-ledger/logger"
	"go-ledger/model"

	"github.com/sirupsen/logrus"
)

// SessionRepository stores issued bearer tokens in postgres.
type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// CreateSession inserts a session record and sets session.CreatedAt.
func (r *SessionRepository) CreateSession(ctx context.Context, session *model.Session) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    session.UserID,
		"expires_at": session.ExpiresAt,
	})

	query := `INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3) RETURNING created_at`
	err := r.DB.QueryRowContext(ctx, query, session.ID, session.UserID, session.ExpiresAt).Scan(&session.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create session query")
		return translateError(err)
	}
	return nil
}

// GetSession returns ErrNotFound for unknown or revoked sessions.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (*model.Session, error) {
	session := &model.Session{}
	query := `SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		err = translateError(err)
		if err != ErrNotFound {
			logger.Log.WithError(err).Error("Failed to execute get session query")
		}
		return nil, err
	}
	return session, nil
}

// DeleteSessionsByUserID revokes every session of a user. Expired rows go
// with them.
func (r *SessionRepository) DeleteSessionsByUserID(ctx context.Context, userID int64) error {
	log := logger.Log.WithField("user_id", userID)

	query := `DELETE FROM sessions WHERE user_id = $1 OR expires_at < now()`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete sessions query")
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		log.WithField("deleted", n).Info("Sessions revoked")
	}
	return nil
}
