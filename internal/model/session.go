package model

import (
	"time"
)

// Session is one active device login. The row's existence is the single
// source of truth for whether the token is still valid.
type Session struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}
