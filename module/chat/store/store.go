// Package store is the pgx-backed durable storage for the messaging
// core. All invariants that need storage-level enforcement live here:
// the conversation pair-key uniqueness, the group capacity
// compare-and-swap, and the single-statement mark-read update.
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pkgerrors "github.com/pkg/errors"

	"skillswap/tools/errs"
)

type Store struct {
	pool *pgxpool.Pool
}

// Open connects a pgx pool and verifies connectivity.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("open pgx pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errs.ErrTransient.WrapMsg("ping database", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	profile_picture_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS conversations (
	id UUID PRIMARY KEY,
	user_a UUID NOT NULL REFERENCES users(id),
	user_b UUID NOT NULL REFERENCES users(id),
	pair_key TEXT NOT NULL UNIQUE,
	last_message_time TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id UUID PRIMARY KEY,
	conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	sender_id UUID NOT NULL REFERENCES users(id),
	body TEXT NOT NULL,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	read_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_conv_created
	ON messages (conversation_id, created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS groups (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	related_skill TEXT NOT NULL DEFAULT '',
	creator_id UUID NOT NULL REFERENCES users(id),
	max_members INT NOT NULL,
	member_count INT NOT NULL DEFAULT 0,
	is_private BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CHECK (member_count >= 0 AND member_count <= max_members)
);

CREATE TABLE IF NOT EXISTS group_members (
	id UUID PRIMARY KEY,
	group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id),
	role TEXT NOT NULL,
	joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (group_id, user_id)
);

CREATE TABLE IF NOT EXISTS group_messages (
	id UUID PRIMARY KEY,
	group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	sender_id UUID NOT NULL REFERENCES users(id),
	body TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_group_messages_group_created
	ON group_messages (group_id, created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS notifications (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	message TEXT NOT NULL,
	type TEXT NOT NULL,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_notifications_user_created
	ON notifications (user_id, created_at DESC);
`

// EnsureSchema creates the tables this core owns.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return errs.ErrTransient.WrapMsg("ensure schema", pkgerrors.Wrap(err, "exec ddl"))
	}
	return nil
}
