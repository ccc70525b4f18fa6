package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skillswap/module/chat/model"
	"skillswap/tools/errs"
)

const conversationCols = `id, user_a, user_b, pair_key, last_message_time, created_at`

func scanConversation(row pgx.Row) (*model.Conversation, error) {
	var c model.Conversation
	err := row.Scan(&c.ID, &c.UserA, &c.UserB, &c.PairKey, &c.LastMessageTime, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateConversation resolves the unordered pair to its single
// conversation row. The insert is ON CONFLICT DO NOTHING on the
// pair_key unique constraint; the read after it settles the race, so
// two concurrent first contacts both end up on the surviving row.
func (s *Store) GetOrCreateConversation(ctx context.Context, a, b uuid.UUID, pairKey string) (*model.Conversation, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversations (id, user_a, user_b, pair_key)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (pair_key) DO NOTHING`,
		uuid.New(), a, b, pairKey)
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("insert conversation", err)
	}

	c, err := scanConversation(s.pool.QueryRow(ctx,
		`SELECT `+conversationCols+` FROM conversations WHERE pair_key = $1`, pairKey))
	if errors.Is(err, pgx.ErrNoRows) {
		// Insert raced with a delete; callers treat it as retryable.
		return nil, errs.ErrTransient.WithDetail("conversation vanished after insert")
	}
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("get conversation by pair key", err)
	}
	return c, nil
}

func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (*model.Conversation, error) {
	c, err := scanConversation(s.pool.QueryRow(ctx,
		`SELECT `+conversationCols+` FROM conversations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound.WithDetail("conversation " + id.String())
	}
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("get conversation", err)
	}
	return c, nil
}

// ListConversations returns every conversation user participates in,
// most recently active first.
func (s *Store) ListConversations(ctx context.Context, user uuid.UUID) ([]model.Conversation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+conversationCols+` FROM conversations
		 WHERE user_a = $1 OR user_b = $1
		 ORDER BY last_message_time DESC NULLS LAST, created_at DESC`, user)
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("list conversations", err)
	}
	defer rows.Close()

	var out []model.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, errs.ErrTransient.WrapMsg("scan conversation", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ErrTransient.WrapMsg("iterate conversations", err)
	}
	return out, nil
}
