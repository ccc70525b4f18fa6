package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/module/chat/model"
	"skillswap/tools/errs"
)

func TestPairKeyCommutative(t *testing.T) {
	a := uuidMust("11111111-1111-1111-1111-111111111111")
	b := uuidMust("22222222-2222-2222-2222-222222222222")
	assert.Equal(t, model.PairKey(a, b), model.PairKey(b, a))
	assert.Equal(t, a.String()+"#"+b.String(), model.PairKey(a, b))
}

func TestGetOrCreateReturnsSameConversationFromBothSides(t *testing.T) {
	st := newFakeStore()
	alice := st.addUser("alice")
	bob := st.addUser("bob")
	d := NewDirectory(st, st, st)

	v1, err := d.GetOrCreate(context.Background(), alice, bob)
	require.NoError(t, err)
	v2, err := d.GetOrCreate(context.Background(), bob, alice)
	require.NoError(t, err)

	assert.Equal(t, v1.ID, v2.ID)
	assert.Equal(t, bob, v1.OtherUserID)
	assert.Equal(t, alice, v2.OtherUserID)
	assert.Equal(t, "bob", v1.OtherUserName)
}

func TestGetOrCreateUnknownUser(t *testing.T) {
	st := newFakeStore()
	alice := st.addUser("alice")
	d := NewDirectory(st, st, st)

	_, err := d.GetOrCreate(context.Background(), alice, uuidMust("99999999-9999-9999-9999-999999999999"))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestListForUserOrdersByRecency(t *testing.T) {
	st := newFakeStore()
	alice := st.addUser("alice")
	bob := st.addUser("bob")
	carol := st.addUser("carol")
	d := NewDirectory(st, st, st)
	msgs := NewMessages(st, st, NopPusher{})
	msgs.now = stepClock()

	withBob, err := d.GetOrCreate(context.Background(), alice, bob)
	require.NoError(t, err)
	withCarol, err := d.GetOrCreate(context.Background(), alice, carol)
	require.NoError(t, err)

	_, err = msgs.Send(context.Background(), withBob.ID, bob, "first")
	require.NoError(t, err)
	_, err = msgs.Send(context.Background(), withCarol.ID, carol, "second")
	require.NoError(t, err)

	list, err := d.ListForUser(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, withCarol.ID, list[0].ID)
	assert.Equal(t, withBob.ID, list[1].ID)
	assert.EqualValues(t, 1, list[0].UnreadCount)
}
