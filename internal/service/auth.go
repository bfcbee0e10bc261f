package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/firstlabs/accounts/internal/model"
	"github.com/firstlabs/accounts/internal/notify"
	"github.com/firstlabs/accounts/internal/repository"
	"github.com/firstlabs/accounts/internal/validation"
	"github.com/firstlabs/accounts/internal/verification"
)

var (
	// ErrValidation marks a bad email, password or name at the boundary.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials collapses unknown email and wrong password into
	// one failure kind; how much detail to expose is the handler's call.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService owns the User entity: creation, credential checks, the
// verification-code protocol and password resets. All password writes go
// through setPassword — nothing re-hashes implicitly.
type AuthService struct {
	users    repository.UserRepository
	codes    *verification.Service
	notifier notify.Enqueuer
}

func NewAuthService(users repository.UserRepository, codes *verification.Service, notifier notify.Enqueuer) *AuthService {
	return &AuthService{
		users:    users,
		codes:    codes,
		notifier: notifier,
	}
}

// Signup creates an unverified account, stores a fresh verification pair on
// it and enqueues the verify-account notification.
func (s *AuthService) Signup(name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if err := validation.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}

	err := s.setPassword(user, password)
	if err != nil {
		return nil, err
	}

	code, codeToken, err := s.codes.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification pair: %w", err)
	}
	user.SetPendingPair(code, codeToken)

	err = s.users.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.notifier.Enqueue(notify.Message{
		Kind:      notify.KindVerifyAccount,
		To:        user.Email,
		Name:      user.Name,
		CodeToken: codeToken,
	})

	slog.Info("user signed up", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login resolves credentials to a user. Unknown email and wrong password
// report the same ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = normalizeEmail(email)

	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	user, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// VerifyAccount validates the presented code token against the pending pair
// and marks the account valid. There is no transition back to unverified.
func (s *AuthService) VerifyAccount(email, codeToken string) error {
	user, err := s.users.ByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}

	err = s.validatePending(user, codeToken)
	if err != nil {
		return err
	}

	user.Valid = true
	user.PendingCode = nil
	user.PendingCodeToken = nil

	err = s.users.Update(user)
	if err != nil {
		return fmt.Errorf("failed to mark account valid: %w", err)
	}

	slog.Info("account verified", "user_id", user.ID)
	return nil
}

// ResendVerification replaces the pending pair and re-sends the
// verify-account notification.
func (s *AuthService) ResendVerification(user *model.User) error {
	codeToken, err := s.regeneratePending(user)
	if err != nil {
		return err
	}

	s.notifier.Enqueue(notify.Message{
		Kind:      notify.KindVerifyAccount,
		To:        user.Email,
		Name:      user.Name,
		CodeToken: codeToken,
	})
	return nil
}

// RequestPasswordReset stores a fresh pair on the account and enqueues the
// forget-password notification. Password reset is permitted whether or not
// the account is verified.
func (s *AuthService) RequestPasswordReset(email string) error {
	email = normalizeEmail(email)

	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	user, err := s.users.ByEmail(email)
	if err != nil {
		return err
	}

	codeToken, err := s.regeneratePending(user)
	if err != nil {
		return err
	}

	s.notifier.Enqueue(notify.Message{
		Kind:      notify.KindForgetPassword,
		To:        user.Email,
		Name:      user.Name,
		CodeToken: codeToken,
	})
	return nil
}

// ResetPassword validates the presented code token and replaces the
// password. The pending pair is consumed on success.
func (s *AuthService) ResetPassword(email, codeToken, newPassword string) error {
	user, err := s.users.ByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}

	err = s.validatePending(user, codeToken)
	if err != nil {
		return err
	}

	err = s.setPassword(user, newPassword)
	if err != nil {
		return err
	}
	user.PendingCode = nil
	user.PendingCodeToken = nil

	err = s.users.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password reset", "user_id", user.ID)
	return nil
}

// setPassword is the single path that writes PasswordHash: policy check,
// then bcrypt. Updates that don't call it never touch the hash, so an
// already-hashed value can never be re-hashed by accident.
func (s *AuthService) setPassword(user *model.User, password string) error {
	err := validation.ValidatePassword(password)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashed)
	return nil
}

// regeneratePending replaces the pair on the record and persists it. The old
// pair is superseded atomically; its token fails the byte-equality check
// from then on.
func (s *AuthService) regeneratePending(user *model.User) (string, error) {
	code, codeToken, err := s.codes.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate verification pair: %w", err)
	}

	user.SetPendingPair(code, codeToken)
	err = s.users.Update(user)
	if err != nil {
		return "", fmt.Errorf("failed to store verification pair: %w", err)
	}
	return codeToken, nil
}

func (s *AuthService) validatePending(user *model.User, codeToken string) error {
	if !user.HasPendingPair() {
		return verification.ErrCodeMismatch
	}
	return s.codes.Validate(codeToken, *user.PendingCode, *user.PendingCodeToken)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
