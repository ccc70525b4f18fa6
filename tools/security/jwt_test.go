package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/tools/errs"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	opts := DefaultOptions([]byte("unit-secret"))
	token, exp, err := Generate(opts, "user-123")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	sub, err := Verify(opts, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions([]byte("secret-a")), "user-123")
	require.NoError(t, err)

	_, err = Verify(DefaultOptions([]byte("secret-b")), token)
	assert.ErrorIs(t, err, errs.ErrAuth)
}

func TestVerifyExpiredToken(t *testing.T) {
	opts := DefaultOptions([]byte("unit-secret"))
	opts.TTL = -time.Minute
	token, _, err := Generate(opts, "user-123")
	require.NoError(t, err)

	_, err = Verify(opts, token)
	assert.ErrorIs(t, err, errs.ErrAuth)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := Verify(DefaultOptions([]byte("unit-secret")), "not.a.jwt")
	assert.ErrorIs(t, err, errs.ErrAuth)
}

func TestAlternateHMACAlgs(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		opts := DefaultOptions([]byte("unit-secret"))
		opts.Alg = alg
		token, _, err := Generate(opts, "user-123")
		require.NoError(t, err, alg)
		sub, err := Verify(opts, token)
		require.NoError(t, err, alg)
		assert.Equal(t, "user-123", sub)
	}
}

func TestUnsupportedAlgRejected(t *testing.T) {
	opts := DefaultOptions([]byte("unit-secret"))
	opts.Alg = "RS256"
	_, _, err := Generate(opts, "user-123")
	assert.Error(t, err)
}
