package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMalformed covers anything that fails to parse or carries a bad
	// signature. Callers treat this as a client error.
	ErrMalformed = errors.New("malformed token")
	// ErrExpired means the signature checked out but the expiry claim has
	// passed. Callers treat this differently from ErrMalformed.
	ErrExpired = errors.New("token expired")
)

// Issuer signs and verifies both token kinds with one configured secret:
// session tokens (no expiry claim, revoked via the session store) and
// verification tokens (short-lived, bound to a numeric code).
type Issuer struct {
	secret             []byte
	verificationExpiry time.Duration
}

func NewIssuer(secret string, verificationExpiry time.Duration) *Issuer {
	return &Issuer{
		secret:             []byte(secret),
		verificationExpiry: verificationExpiry,
	}
}

// IssueSession signs a session token for the given user. It carries no
// expiry claim; validity is controlled by the session store. The jti claim
// keeps tokens unique even when one user logs in twice within a second.
func (i *Issuer) IssueSession(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.New().String(),
		"iat":     time.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// IssueVerification signs a short-lived token binding the given numeric code.
func (i *Issuer) IssueVerification(code string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"code": code,
		"iat":  now.Unix(),
		"exp":  now.Add(i.verificationExpiry).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and returns the token's subject: the user id
// for session tokens, the numeric code for verification tokens. An expired
// token with a valid signature reports ErrExpired; everything else that is
// not verifiable reports ErrMalformed.
func (i *Issuer) Verify(tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrMalformed
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", ErrMalformed
	}

	if sub, ok := claims["user_id"].(string); ok && sub != "" {
		return sub, nil
	}
	if sub, ok := claims["code"].(string); ok && sub != "" {
		return sub, nil
	}
	return "", ErrMalformed
}
