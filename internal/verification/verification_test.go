package verification

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firstlabs/accounts/internal/token"
)

func newTestService(t *testing.T, expiry time.Duration) *Service {
	t.Helper()
	return NewService(token.NewIssuer("test-secret", expiry))
}

func TestGenerateCodeRange(t *testing.T) {
	svc := newTestService(t, 10*time.Minute)

	for i := 0; i < 200; i++ {
		code, signed, err := svc.Generate()
		require.NoError(t, err)
		require.NotEmpty(t, signed)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestValidateFreshPair(t *testing.T) {
	svc := newTestService(t, 10*time.Minute)

	code, signed, err := svc.Generate()
	require.NoError(t, err)

	assert.NoError(t, svc.Validate(signed, code, signed))
}

func TestValidateExpired(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	code, signed, err := svc.Generate()
	require.NoError(t, err)

	err = svc.Validate(signed, code, signed)
	assert.ErrorIs(t, err, token.ErrExpired)
}

func TestValidateMalformed(t *testing.T) {
	svc := newTestService(t, 10*time.Minute)

	err := svc.Validate("garbage", "123456", "garbage")
	assert.ErrorIs(t, err, token.ErrMalformed)
}

func TestValidateCodeMismatch(t *testing.T) {
	svc := newTestService(t, 10*time.Minute)

	_, signed, err := svc.Generate()
	require.NoError(t, err)

	// Decodes fine, but the stored code belongs to a different pair
	err = svc.Validate(signed, "000000", signed)
	assert.ErrorIs(t, err, ErrCodeMismatch)
}

func TestValidateRejectsSupersededToken(t *testing.T) {
	svc := newTestService(t, 10*time.Minute)

	// First pair is replaced by a second; an attacker replaying the old
	// token presents something structurally valid that must still fail
	_, oldToken, err := svc.Generate()
	require.NoError(t, err)

	newCode, newToken, err := svc.Generate()
	require.NoError(t, err)

	err = svc.Validate(oldToken, newCode, newToken)
	assert.ErrorIs(t, err, ErrCodeMismatch)
}
