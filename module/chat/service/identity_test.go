package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/tools/errs"
	"skillswap/tools/security"
)

func TestResolveValidToken(t *testing.T) {
	st := newFakeStore()
	user := st.addUser("alice")
	opts := security.DefaultOptions([]byte("test-secret"))
	id := NewIdentity(opts, st)

	token, _, err := security.Generate(opts, user.String())
	require.NoError(t, err)

	got, err := id.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestResolveRejections(t *testing.T) {
	st := newFakeStore()
	opts := security.DefaultOptions([]byte("test-secret"))
	id := NewIdentity(opts, st)
	ctx := context.Background()

	_, err := id.Resolve(ctx, "")
	assert.ErrorIs(t, err, errs.ErrAuth)

	_, err = id.Resolve(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, errs.ErrAuth)

	// Well-formed token whose subject is not a known user.
	token, _, err := security.Generate(opts, uuid.NewString())
	require.NoError(t, err)
	_, err = id.Resolve(ctx, token)
	assert.ErrorIs(t, err, errs.ErrAuth)

	// Signed with a different secret.
	otherOpts := security.DefaultOptions([]byte("other-secret"))
	user := st.addUser("alice")
	token, _, err = security.Generate(otherOpts, user.String())
	require.NoError(t, err)
	_, err = id.Resolve(ctx, token)
	assert.ErrorIs(t, err, errs.ErrAuth)
}
