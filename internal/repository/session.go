package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/firstlabs/accounts/internal/model"
)

// SessionRepository is the active-token set for each user. Every mutation is
// a single statement, so two devices logging in concurrently both land, and
// a logout racing a login cannot drop the other's write.
type SessionRepository interface {
	// Attach records a session token. Re-attaching an existing token is a
	// no-op, not a duplicate.
	Attach(session *model.Session) error
	// Revoke removes exactly the matching token. Absent is a no-op.
	Revoke(token string) error
	// RevokeAll clears every session for the user. Idempotent.
	RevokeAll(userID string) error
	// Exists reports whether the token is currently active for the user.
	Exists(userID, token string) (bool, error)
	// ByUser returns the user's active sessions, oldest first.
	ByUser(userID string) ([]model.Session, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Attach(session *model.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	// Upsert on the unique token column makes re-attach a no-op
	query := `INSERT INTO sessions (id, user_id, token, created_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (token) DO NOTHING`

	_, err := r.db.Exec(query, session.ID, session.UserID, session.Token, session.CreatedAt)
	return err
}

func (r *sessionRepository) Revoke(token string) error {
	query := `DELETE FROM sessions WHERE token = $1`
	_, err := r.db.Exec(query, token)
	return err
}

func (r *sessionRepository) RevokeAll(userID string) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}

func (r *sessionRepository) Exists(userID, token string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM sessions WHERE user_id = $1 AND token = $2`

	err := r.db.Get(&count, query, userID, token)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *sessionRepository) ByUser(userID string) ([]model.Session, error) {
	sessions := []model.Session{}
	query := `SELECT * FROM sessions WHERE user_id = $1 ORDER BY created_at`

	err := r.db.Select(&sessions, query, userID)
	return sessions, err
}
