package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillswap/logger"
	"skillswap/module/chat/model"
	"skillswap/tools/errs"
)

// MaxPageSize caps message pages to bound response size.
const MaxPageSize = 50

const EventMessageNew = "message.new"

// Messages is the direct-message store: durable append with recency
// update, reverse-chronological paging, read receipts and unread
// counts.
type Messages struct {
	convs  ConversationStore
	msgs   MessageStore
	pusher Pusher
	now    clock
}

func NewMessages(convs ConversationStore, msgs MessageStore, pusher Pusher) *Messages {
	return &Messages{convs: convs, msgs: msgs, pusher: pusher, now: time.Now}
}

// Send appends a message and bumps conversation recency in one durable
// operation, then makes exactly one best-effort push attempt to the
// recipient. A failed push is logged and swallowed; the recipient
// observes the message on the next page load regardless.
func (m *Messages) Send(ctx context.Context, convID, senderID uuid.UUID, text string) (*model.DirectMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.ErrInvalidArgument.WithDetail("message cannot be empty")
	}

	conv, err := m.convs.GetConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, errs.ErrForbidden.WithDetail("sender is not part of conversation")
	}

	msg := &model.DirectMessage{
		ID:             uuid.New(),
		ConversationID: convID,
		SenderID:       senderID,
		Body:           text,
		CreatedAt:      m.now().UTC(),
	}
	if err := m.msgs.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	recipient, _ := conv.Other(senderID)
	m.pusher.PushUser(recipient, Event{Type: EventMessageNew, Data: msg})
	logger.Debug("direct message sent")
	return msg, nil
}

// Page returns one page of messages, newest first. size is clamped to
// MaxPageSize; page is zero-based.
func (m *Messages) Page(ctx context.Context, convID uuid.UUID, page, size int) ([]model.DirectMessage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}
	if _, err := m.convs.GetConversation(ctx, convID); err != nil {
		return nil, err
	}
	return m.msgs.PageMessages(ctx, convID, page*size, size)
}

// MarkRead flips every unread message from the other participant to
// read, stamping the current time. Idempotent: a second call finds
// nothing unread and is a no-op.
func (m *Messages) MarkRead(ctx context.Context, convID, readerID uuid.UUID) error {
	conv, err := m.convs.GetConversation(ctx, convID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(readerID) {
		return errs.ErrForbidden.WithDetail("reader is not part of conversation")
	}
	_, err = m.msgs.MarkMessagesRead(ctx, convID, readerID, m.now().UTC())
	return err
}

// UnreadCount counts messages from the other participant the reader
// has not read. Served straight from the store so a preceding MarkRead
// is always visible.
func (m *Messages) UnreadCount(ctx context.Context, convID, readerID uuid.UUID) (int64, error) {
	if _, err := m.convs.GetConversation(ctx, convID); err != nil {
		return 0, err
	}
	return m.msgs.CountUnread(ctx, convID, readerID)
}
