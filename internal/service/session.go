package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/firstlabs/accounts/internal/model"
	"github.com/firstlabs/accounts/internal/repository"
	"github.com/firstlabs/accounts/internal/token"
)

const (
	sessionCookieName = "token"
	authFlagCookie    = "auth"

	// signedPrefix marks an HMAC-signed cookie value, matching the
	// cookie-parser wire format ("s:value.signature").
	signedPrefix = "s:"
)

// SessionService manages the active-token set per user and the cookie pair
// handed to browser clients: a signed http-only cookie carrying the session
// token and a client-readable flag so the frontend can detect logged-in
// state without decoding anything.
type SessionService struct {
	sessions     repository.SessionRepository
	issuer       *token.Issuer
	cookieSecret []byte
	cookieMaxAge time.Duration
	isProduction bool
}

func NewSessionService(sessions repository.SessionRepository, issuer *token.Issuer, cookieSecret string, cookieMaxAge time.Duration, isProduction bool) *SessionService {
	return &SessionService{
		sessions:     sessions,
		issuer:       issuer,
		cookieSecret: []byte(cookieSecret),
		cookieMaxAge: cookieMaxAge,
		isProduction: isProduction,
	}
}

// Issue signs a session token for the user and attaches it to the active
// set. Both steps must succeed for the login to count.
func (s *SessionService) Issue(user *model.User) (string, error) {
	signed, err := s.issuer.IssueSession(user.ID)
	if err != nil {
		return "", err
	}

	err = s.sessions.Attach(&model.Session{
		UserID: user.ID,
		Token:  signed,
	})
	if err != nil {
		return "", fmt.Errorf("failed to attach session: %w", err)
	}

	return signed, nil
}

// Revoke removes one device's session. An absent token is a no-op.
func (s *SessionService) Revoke(sessionToken string) error {
	return s.sessions.Revoke(sessionToken)
}

// RevokeAll logs the user out everywhere. Idempotent.
func (s *SessionService) RevokeAll(userID string) error {
	return s.sessions.RevokeAll(userID)
}

// IsActive reports whether the token is in the user's active set. Membership
// is the sole source of truth for session validity.
func (s *SessionService) IsActive(userID, sessionToken string) (bool, error) {
	return s.sessions.Exists(userID, sessionToken)
}

// SetCookies writes the cookie pair. The session token itself carries no
// expiry; the cookie max-age acts as a sliding window because the auth
// middleware refreshes both cookies on every authenticated request.
func (s *SessionService) SetCookies(w http.ResponseWriter, sessionToken string) {
	maxAge := int(s.cookieMaxAge.Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.signCookieValue(sessionToken),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	// Client-readable logged-in flag; carries no secret
	http.SetCookie(w, &http.Cookie{
		Name:     authFlagCookie,
		Value:    "true",
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookies expires both cookies.
func (s *SessionService) ClearCookies(w http.ResponseWriter) {
	for _, name := range []string{sessionCookieName, authFlagCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HttpOnly: name == sessionCookieName,
			Secure:   s.isProduction,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// TokenFromRequest extracts the presented session token: the Authorization
// header first (API clients), then the signed cookie (browsers). Returns ""
// when neither carries a verifiable value.
func (s *SessionService) TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}

	value, ok := s.parseSignedValue(cookie.Value)
	if !ok {
		return ""
	}
	return value
}

func (s *SessionService) signCookieValue(value string) string {
	return signedPrefix + value + "." + s.signature(value)
}

func (s *SessionService) parseSignedValue(raw string) (string, bool) {
	if !strings.HasPrefix(raw, signedPrefix) {
		return "", false
	}

	rest := strings.TrimPrefix(raw, signedPrefix)
	idx := strings.LastIndex(rest, ".")
	if idx < 0 {
		return "", false
	}

	value, sig := rest[:idx], rest[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(s.signature(value))) {
		return "", false
	}
	return value, true
}

func (s *SessionService) signature(value string) string {
	mac := hmac.New(sha256.New, s.cookieSecret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
