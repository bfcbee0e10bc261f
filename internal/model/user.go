package model

import (
	"encoding/json"
	"time"
)

// User is the account record. PendingCode and PendingCodeToken form the
// current verification pair; they are always written together.
type User struct {
	ID               string    `db:"id"`
	Name             string    `db:"name"`
	Email            string    `db:"email"`
	PasswordHash     string    `db:"password_hash"`
	Valid            bool      `db:"valid"`
	PendingCode      *string   `db:"pending_code"`
	PendingCodeToken *string   `db:"pending_code_token"`
	AvatarURL        *string   `db:"avatar_url"`
	CreatedAt        time.Time `db:"created_at"`
}

// SetPendingPair replaces the verification pair. Both fields move together;
// there is no way to set one without the other.
func (u *User) SetPendingPair(code, token string) {
	u.PendingCode = &code
	u.PendingCodeToken = &token
}

func (u *User) HasPendingPair() bool {
	return u.PendingCode != nil && u.PendingCodeToken != nil
}

func (u *User) HasAvatar() bool {
	return u.AvatarURL != nil && *u.AvatarURL != ""
}

// MarshalJSON shapes the client-facing representation. The password hash,
// the pending verification pair, and session tokens never leave the server.
func (u *User) MarshalJSON() ([]byte, error) {
	avatar := ""
	if u.AvatarURL != nil {
		avatar = *u.AvatarURL
	}
	return json.Marshal(struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Valid     bool      `json:"valid"`
		Avatar    string    `json:"avatar,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Valid:     u.Valid,
		Avatar:    avatar,
		CreatedAt: u.CreatedAt,
	})
}
