package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/tools/errs"
)

func setupConversation(t *testing.T) (*fakeStore, *Messages, *recordingPusher, convFixture) {
	t.Helper()
	st := newFakeStore()
	alice := st.addUser("alice")
	bob := st.addUser("bob")
	d := NewDirectory(st, st, st)
	view, err := d.GetOrCreate(context.Background(), alice, bob)
	require.NoError(t, err)

	push := newRecordingPusher()
	msgs := NewMessages(st, st, push)
	msgs.now = stepClock()
	return st, msgs, push, convFixture{conv: view.ID, alice: alice, bob: bob}
}

type convFixture struct {
	conv, alice, bob uuid.UUID
}

func TestSendPushesRecipientOnly(t *testing.T) {
	_, msgs, push, fx := setupConversation(t)

	sent, err := msgs.Send(context.Background(), fx.conv, fx.alice, "hi bob")
	require.NoError(t, err)
	assert.Equal(t, "hi bob", sent.Body)
	assert.False(t, sent.IsRead)

	require.Len(t, push.forUser(fx.bob), 1)
	assert.Equal(t, EventMessageNew, push.forUser(fx.bob)[0].Type)
	assert.Empty(t, push.forUser(fx.alice))
}

func TestSendRejectsEmptyAndOutsider(t *testing.T) {
	st, msgs, _, fx := setupConversation(t)

	_, err := msgs.Send(context.Background(), fx.conv, fx.alice, "   ")
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	mallory := st.addUser("mallory")
	_, err = msgs.Send(context.Background(), fx.conv, mallory, "let me in")
	assert.ErrorIs(t, err, errs.ErrForbidden)

	page, err := msgs.Page(context.Background(), fx.conv, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestPageNewestFirstWithClamp(t *testing.T) {
	_, msgs, _, fx := setupConversation(t)

	for _, text := range []string{"one", "two", "three"} {
		_, err := msgs.Send(context.Background(), fx.conv, fx.alice, text)
		require.NoError(t, err)
	}

	page, err := msgs.Page(context.Background(), fx.conv, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "three", page[0].Body)
	assert.Equal(t, "two", page[1].Body)

	second, err := msgs.Page(context.Background(), fx.conv, 1, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "one", second[0].Body)

	// Oversized page size collapses to the cap rather than erroring.
	all, err := msgs.Page(context.Background(), fx.conv, 0, 500)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// The unread lifecycle: B accumulates unread from A, markRead zeroes
// it exactly once, and A's own view never counts A's messages.
func TestUnreadAndMarkReadLifecycle(t *testing.T) {
	_, msgs, _, fx := setupConversation(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := msgs.Send(ctx, fx.conv, fx.alice, "ping")
		require.NoError(t, err)
	}

	n, err := msgs.UnreadCount(ctx, fx.conv, fx.bob)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = msgs.UnreadCount(ctx, fx.conv, fx.alice)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	require.NoError(t, msgs.MarkRead(ctx, fx.conv, fx.bob))
	n, err = msgs.UnreadCount(ctx, fx.conv, fx.bob)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	// Idempotent.
	require.NoError(t, msgs.MarkRead(ctx, fx.conv, fx.bob))
	n, err = msgs.UnreadCount(ctx, fx.conv, fx.bob)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	page, err := msgs.Page(ctx, fx.conv, 0, 10)
	require.NoError(t, err)
	for _, m := range page {
		assert.True(t, m.IsRead)
		assert.NotNil(t, m.ReadAt)
	}
}

func TestMarkReadOutsiderForbidden(t *testing.T) {
	st, msgs, _, fx := setupConversation(t)
	mallory := st.addUser("mallory")
	err := msgs.MarkRead(context.Background(), fx.conv, mallory)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}
