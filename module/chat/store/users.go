package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skillswap/module/chat/model"
	"skillswap/tools/errs"
)

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, email, profile_picture_url, created_at FROM users WHERE id = $1`, id)

	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.ProfilePictureURL, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound.WithDetail("user " + id.String())
	}
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("get user", err)
	}
	return &u, nil
}
