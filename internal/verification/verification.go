package verification

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/firstlabs/accounts/internal/token"
)

// ErrCodeMismatch means the token verified and decoded but does not match
// the pending pair on the account.
var ErrCodeMismatch = errors.New("verification code mismatch")

const (
	codeMin = 100000
	codeMax = 999999
)

// Service generates and validates the short-lived code/token pairs used by
// both the email-verification and password-reset flows.
type Service struct {
	issuer *token.Issuer
}

func NewService(issuer *token.Issuer) *Service {
	return &Service{issuer: issuer}
}

// Generate returns a fresh pair: a uniformly random 6-digit code and the
// signed short-lived token that encodes it. The two must be stored together
// and replaced together.
func (s *Service) Generate() (string, string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate code: %w", err)
	}
	code := strconv.FormatInt(codeMin+n.Int64(), 10)

	signed, err := s.issuer.IssueVerification(code)
	if err != nil {
		return "", "", err
	}

	return code, signed, nil
}

// Validate checks a presented token against the pair stored on the account.
// The decoded code must equal the stored code AND the presented token must
// be byte-equal to the stored token: a structurally valid token from a
// superseded pair must not be replayable after regeneration.
func (s *Service) Validate(presented, storedCode, storedToken string) error {
	decoded, err := s.issuer.Verify(presented)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(decoded), []byte(storedCode)) != 1 {
		return ErrCodeMismatch
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(storedToken)) != 1 {
		return ErrCodeMismatch
	}

	return nil
}
