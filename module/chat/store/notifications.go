package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skillswap/module/chat/model"
	"skillswap/tools/errs"
)

func (s *Store) InsertNotification(ctx context.Context, n *model.Notification) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, message, type, is_read, created_at)
		 VALUES ($1, $2, $3, $4, FALSE, $5)`,
		n.ID, n.UserID, n.Message, n.Type, n.CreatedAt)
	if err != nil {
		return errs.ErrTransient.WrapMsg("insert notification", err)
	}
	return nil
}

func (s *Store) GetNotification(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var n model.Notification
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, message, type, is_read, created_at FROM notifications WHERE id = $1`, id).
		Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound.WithDetail("notification " + id.String())
	}
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("get notification", err)
	}
	return &n, nil
}

func (s *Store) ListNotifications(ctx context.Context, user uuid.UUID) ([]model.Notification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, message, type, is_read, created_at
		 FROM notifications WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`, user)
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("list notifications", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, errs.ErrTransient.WrapMsg("scan notification", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ErrTransient.WrapMsg("iterate notifications", err)
	}
	return out, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return errs.ErrTransient.WrapMsg("mark notification read", err)
	}
	return nil
}

func (s *Store) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return errs.ErrTransient.WrapMsg("delete notification", err)
	}
	return nil
}
