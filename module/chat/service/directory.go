package service

import (
	"context"

	"github.com/google/uuid"

	"skillswap/module/chat/model"
)

// Directory owns the 1:1 mapping between an unordered user pair and
// its single conversation.
type Directory struct {
	users UserStore
	convs ConversationStore
	msgs  MessageStore
}

func NewDirectory(users UserStore, convs ConversationStore, msgs MessageStore) *Directory {
	return &Directory{users: users, convs: convs, msgs: msgs}
}

// ConversationView is the listing shape: the conversation seen from
// one participant's side, with the other participant resolved and the
// viewer's unread count attached.
type ConversationView struct {
	ID               uuid.UUID `json:"id"`
	OtherUserID      uuid.UUID `json:"otherUserId"`
	OtherUserName    string    `json:"otherUserName"`
	OtherUserPicture string    `json:"otherUserPicture,omitempty"`
	LastMessageTime  *string   `json:"lastMessageTime,omitempty"`
	UnreadCount      int64     `json:"unreadCount"`
}

// GetOrCreate returns the conversation for {me, other}, creating it on
// first contact. Both user ids must resolve. Safe under concurrent
// first contact from both sides: the pair-key unique constraint is the
// source of truth and the store falls back to a read after a lost
// insert.
func (d *Directory) GetOrCreate(ctx context.Context, me, other uuid.UUID) (*ConversationView, error) {
	if _, err := d.users.GetUser(ctx, me); err != nil {
		return nil, err
	}
	if _, err := d.users.GetUser(ctx, other); err != nil {
		return nil, err
	}

	conv, err := d.convs.GetOrCreateConversation(ctx, me, other, model.PairKey(me, other))
	if err != nil {
		return nil, err
	}
	return d.view(ctx, conv, me)
}

// ListForUser returns the viewer's conversations, most recently
// active first.
func (d *Directory) ListForUser(ctx context.Context, me uuid.UUID) ([]ConversationView, error) {
	list, err := d.convs.ListConversations(ctx, me)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationView, 0, len(list))
	for i := range list {
		v, err := d.view(ctx, &list[i], me)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (d *Directory) view(ctx context.Context, conv *model.Conversation, me uuid.UUID) (*ConversationView, error) {
	otherID, _ := conv.Other(me)
	other, err := d.users.GetUser(ctx, otherID)
	if err != nil {
		return nil, err
	}
	unread, err := d.msgs.CountUnread(ctx, conv.ID, me)
	if err != nil {
		return nil, err
	}
	v := &ConversationView{
		ID:               conv.ID,
		OtherUserID:      other.ID,
		OtherUserName:    other.Name,
		OtherUserPicture: other.ProfilePictureURL,
		UnreadCount:      unread,
	}
	if conv.LastMessageTime != nil {
		ts := conv.LastMessageTime.Format("2006-01-02T15:04:05")
		v.LastMessageTime = &ts
	}
	return v, nil
}
