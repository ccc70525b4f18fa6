package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"skillswap/module/chat/model"
	"skillswap/tools/errs"
)

const EventNotification = "notification"

// Notifications persists per-user notification records for upstream
// business events and pushes them to the owner's private topic when a
// live connection exists.
type Notifications struct {
	store  NotificationStore
	users  UserStore
	pusher Pusher
	now    clock
}

func NewNotifications(store NotificationStore, users UserStore, pusher Pusher) *Notifications {
	return &Notifications{store: store, users: users, pusher: pusher, now: time.Now}
}

// Create persists the record, then attempts one best-effort push to
// the user's private topic.
func (n *Notifications) Create(ctx context.Context, userID uuid.UUID, message, typ string) (*model.Notification, error) {
	if _, err := n.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	rec := &model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		Type:      typ,
		CreatedAt: n.now().UTC(),
	}
	if err := n.store.InsertNotification(ctx, rec); err != nil {
		return nil, err
	}
	n.pusher.PushUser(userID, Event{Type: EventNotification, Data: rec})
	return rec, nil
}

func (n *Notifications) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	return n.store.ListNotifications(ctx, userID)
}

// MarkRead flips the read flag. Idempotent: marking a missing or
// already-read notification is a no-op. Marking someone else's
// notification is Forbidden.
func (n *Notifications) MarkRead(ctx context.Context, id, callerID uuid.UUID) error {
	rec, err := n.store.GetNotification(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.UserID != callerID {
		return errs.ErrForbidden.WithDetail("notification belongs to another user")
	}
	return n.store.MarkNotificationRead(ctx, id)
}

// Delete removes the notification. Same idempotency and ownership
// rules as MarkRead.
func (n *Notifications) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	rec, err := n.store.GetNotification(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.UserID != callerID {
		return errs.ErrForbidden.WithDetail("notification belongs to another user")
	}
	return n.store.DeleteNotification(ctx, id)
}
