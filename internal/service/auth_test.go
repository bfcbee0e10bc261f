package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/firstlabs/accounts/internal/notify"
	"github.com/firstlabs/accounts/internal/repository"
	"github.com/firstlabs/accounts/internal/token"
	"github.com/firstlabs/accounts/internal/verification"
)

type authFixture struct {
	users    *fakeUserRepo
	notifier *captureNotifier
	codes    *verification.Service
	svc      *AuthService
}

func newAuthFixture(t *testing.T, codeExpiry time.Duration) *authFixture {
	t.Helper()

	users := newFakeUserRepo()
	notifier := &captureNotifier{}
	codes := verification.NewService(token.NewIssuer("test-secret", codeExpiry))

	return &authFixture{
		users:    users,
		notifier: notifier,
		codes:    codes,
		svc:      NewAuthService(users, codes, notifier),
	}
}

func TestSignup(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	user, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Bob", user.Name)
	assert.Equal(t, "bob@x.com", user.Email)
	assert.False(t, user.Valid)
	assert.True(t, user.HasPendingPair())

	// Stored value is a bcrypt digest of the password, never the plaintext
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))

	msgs := f.notifier.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.KindVerifyAccount, msgs[0].Kind)
	assert.Equal(t, "bob@x.com", msgs[0].To)
	assert.Equal(t, *user.PendingCodeToken, msgs[0].CodeToken)
}

func TestSignupNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	user, err := f.svc.Signup("Bob", "  Bob@X.Com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", user.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	_, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)

	_, err = f.svc.Signup("Other Bob", "bob@x.com", "secret2")
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestSignupValidation(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "bob@x.com", "secret1"},
		{"bad email", "Bob", "not-an-email", "secret1"},
		{"short password", "Bob", "bob@x.com", "abc"},
		{"password contains password", "Bob", "bob@x.com", "Password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Signup(tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// Nothing was created and nothing was sent
	_, err := f.users.ByEmail("bob@x.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Empty(t, f.notifier.Messages())
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	created, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)

	user, err := f.svc.Login("bob@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestLoginFailuresCollapse(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	_, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)

	_, err = f.svc.Login("bob@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login("nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyAccount(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	user, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)
	codeToken := *user.PendingCodeToken

	err = f.svc.VerifyAccount("bob@x.com", codeToken)
	require.NoError(t, err)

	stored, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Valid)
	// The pair is consumed; the same token cannot verify twice
	assert.False(t, stored.HasPendingPair())

	err = f.svc.VerifyAccount("bob@x.com", codeToken)
	assert.ErrorIs(t, err, verification.ErrCodeMismatch)
}

func TestVerifyAccountExpiredToken(t *testing.T) {
	// Issuer with negative expiry: the stored pair is already expired
	f := newAuthFixture(t, -time.Minute)

	user, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)

	err = f.svc.VerifyAccount("bob@x.com", *user.PendingCodeToken)
	assert.ErrorIs(t, err, token.ErrExpired)

	stored, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Valid)
}

func TestVerifyAccountSupersededToken(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	user, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)
	oldToken := *user.PendingCodeToken

	// Resend replaces the pending pair; the old token is now superseded
	stored, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.ResendVerification(stored))

	err = f.svc.VerifyAccount("bob@x.com", oldToken)
	assert.ErrorIs(t, err, verification.ErrCodeMismatch)
}

func TestVerifyAccountUnknownEmail(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	err := f.svc.VerifyAccount("nobody@x.com", "whatever")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestResendVerification(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	user, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)
	firstToken := *user.PendingCodeToken

	stored, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.ResendVerification(stored))

	updated, err := f.users.ByID(user.ID)
	require.NoError(t, err)
	require.True(t, updated.HasPendingPair())
	assert.NotEqual(t, firstToken, *updated.PendingCodeToken)

	msgs := f.notifier.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, notify.KindVerifyAccount, msgs[1].Kind)
	assert.Equal(t, *updated.PendingCodeToken, msgs[1].CodeToken)
}

func TestRequestPasswordReset(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	_, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)

	err = f.svc.RequestPasswordReset("bob@x.com")
	require.NoError(t, err)

	msgs := f.notifier.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, notify.KindForgetPassword, msgs[1].Kind)

	err = f.svc.RequestPasswordReset("nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestResetPassword(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	user, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, f.svc.RequestPasswordReset("bob@x.com"))
	stored, err := f.users.ByID(user.ID)
	require.NoError(t, err)

	err = f.svc.ResetPassword("bob@x.com", *stored.PendingCodeToken, "newsecret")
	require.NoError(t, err)

	// Old password no longer works, new one does
	_, err = f.svc.Login("bob@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login("bob@x.com", "newsecret")
	assert.NoError(t, err)
}

func TestResetPasswordCodeMismatch(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	_, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, f.svc.RequestPasswordReset("bob@x.com"))

	// A token from a different pair decodes fine but matches nothing stored
	_, strayToken, err := f.codes.Generate()
	require.NoError(t, err)

	err = f.svc.ResetPassword("bob@x.com", strayToken, "newsecret")
	assert.ErrorIs(t, err, verification.ErrCodeMismatch)

	// Password unchanged
	_, err = f.svc.Login("bob@x.com", "secret1")
	assert.NoError(t, err)
}

func TestResetPasswordRejectsWeakPassword(t *testing.T) {
	f := newAuthFixture(t, 10*time.Minute)

	user, err := f.svc.Signup("Bob", "bob@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, f.svc.RequestPasswordReset("bob@x.com"))

	stored, err := f.users.ByID(user.ID)
	require.NoError(t, err)

	err = f.svc.ResetPassword("bob@x.com", *stored.PendingCodeToken, "abc")
	assert.ErrorIs(t, err, ErrValidation)
}
