// Package service implements the messaging core: conversation
// directory, message store, group membership registry and messaging,
// and notification fan-out. Services depend on narrow store
// interfaces (implemented by module/chat/store on pgx, and by fakes in
// tests) and push realtime events through the Pusher after every
// successful durable write.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skillswap/module/chat/model"
)

type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type ConversationStore interface {
	GetOrCreateConversation(ctx context.Context, a, b uuid.UUID, pairKey string) (*model.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*model.Conversation, error)
	ListConversations(ctx context.Context, user uuid.UUID) ([]model.Conversation, error)
}

type MessageStore interface {
	AppendMessage(ctx context.Context, m *model.DirectMessage) error
	PageMessages(ctx context.Context, conv uuid.UUID, offset, limit int) ([]model.DirectMessage, error)
	MarkMessagesRead(ctx context.Context, conv, reader uuid.UUID, at time.Time) (int64, error)
	CountUnread(ctx context.Context, conv, reader uuid.UUID) (int64, error)
}

type GroupStore interface {
	CreateGroup(ctx context.Context, g *model.Group, admin *model.GroupMembership) error
	GetGroup(ctx context.Context, id uuid.UUID) (*model.Group, error)
	ListGroups(ctx context.Context, skill string, offset, limit int) ([]model.Group, error)
	JoinGroup(ctx context.Context, m *model.GroupMembership) error
	LeaveGroup(ctx context.Context, group, user uuid.UUID) error
	DeleteGroup(ctx context.Context, id uuid.UUID) error
	IsMember(ctx context.Context, group, user uuid.UUID) (bool, error)
	IsAdmin(ctx context.Context, group, user uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, group uuid.UUID) ([]model.GroupMembership, error)
	AppendGroupMessage(ctx context.Context, m *model.GroupMessage) error
	RecentGroupMessages(ctx context.Context, group uuid.UUID, limit int) ([]model.GroupMessage, error)
}

type NotificationStore interface {
	InsertNotification(ctx context.Context, n *model.Notification) error
	GetNotification(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	ListNotifications(ctx context.Context, user uuid.UUID) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) error
	DeleteNotification(ctx context.Context, id uuid.UUID) error
}

// Event is one realtime payload: Type names the business event
// (message.new, group.message, notification, typing), Data is the
// JSON-marshaled body.
type Event struct {
	Type string `json:"event"`
	Data any    `json:"data"`
}

// Pusher delivers events to live subscribers. Implementations are
// best-effort: a push never fails the durable operation that produced
// it, so the interface returns nothing.
type Pusher interface {
	PushUser(user uuid.UUID, ev Event)
	PushGroup(group uuid.UUID, ev Event)
}

// NopPusher is used when no gateway is wired (tests, batch tools).
type NopPusher struct{}

func (NopPusher) PushUser(uuid.UUID, Event)  {}
func (NopPusher) PushGroup(uuid.UUID, Event) {}

// clock is injectable for ordering-sensitive tests.
type clock func() time.Time
