package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skillswap/module/chat/model"
	"skillswap/tools/errs"
)

// AppendMessage inserts the message and bumps the conversation's
// last_message_time in one transaction. A message without the recency
// bump (or vice versa) would corrupt conversation ordering, so the two
// writes share a commit.
func (s *Store) AppendMessage(ctx context.Context, m *model.DirectMessage) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errs.ErrTransient.WrapMsg("begin append message", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, body, is_read, created_at)
		 VALUES ($1, $2, $3, $4, FALSE, $5)`,
		m.ID, m.ConversationID, m.SenderID, m.Body, m.CreatedAt)
	if err != nil {
		return errs.ErrTransient.WrapMsg("insert message", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE conversations SET last_message_time = $2 WHERE id = $1`,
		m.ConversationID, m.CreatedAt)
	if err != nil {
		return errs.ErrTransient.WrapMsg("bump conversation recency", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.ErrTransient.WrapMsg("commit append message", err)
	}
	return nil
}

// PageMessages returns one page, newest first. Ordering is
// (created_at DESC, id DESC) so page boundaries are deterministic
// under timestamp ties.
func (s *Store) PageMessages(ctx context.Context, conv uuid.UUID, offset, limit int) ([]model.DirectMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_id, sender_id, body, is_read, read_at, created_at
		 FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`, conv, limit, offset)
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("page messages", err)
	}
	defer rows.Close()

	var out []model.DirectMessage
	for rows.Next() {
		var m model.DirectMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.IsRead, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, errs.ErrTransient.WrapMsg("scan message", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ErrTransient.WrapMsg("iterate messages", err)
	}
	return out, nil
}

// MarkMessagesRead flips every unread message authored by the other
// participant in a single UPDATE. One statement means two concurrent
// readers cannot interleave a read-then-write; re-running it is a
// no-op.
func (s *Store) MarkMessagesRead(ctx context.Context, conv, reader uuid.UUID, at time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE messages SET is_read = TRUE, read_at = $3
		 WHERE conversation_id = $1 AND sender_id <> $2 AND NOT is_read`,
		conv, reader, at)
	if err != nil {
		return 0, errs.ErrTransient.WrapMsg("mark messages read", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) CountUnread(ctx context.Context, conv, reader uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM messages
		 WHERE conversation_id = $1 AND sender_id <> $2 AND NOT is_read`,
		conv, reader).Scan(&n)
	if err != nil {
		return 0, errs.ErrTransient.WrapMsg("count unread", err)
	}
	return n, nil
}
