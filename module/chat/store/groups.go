package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skillswap/module/chat/model"
	"skillswap/tools/errs"
)

const groupCols = `id, name, description, related_skill, creator_id, max_members, member_count, is_private, created_at`

func scanGroup(row pgx.Row) (*model.Group, error) {
	var g model.Group
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.RelatedSkill, &g.CreatorID,
		&g.MaxMembers, &g.MemberCount, &g.IsPrivate, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGroup inserts the group with member_count=1 and the creator's
// ADMIN membership in one transaction.
func (s *Store) CreateGroup(ctx context.Context, g *model.Group, admin *model.GroupMembership) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errs.ErrTransient.WrapMsg("begin create group", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO groups (id, name, description, related_skill, creator_id, max_members, member_count, is_private, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)`,
		g.ID, g.Name, g.Description, g.RelatedSkill, g.CreatorID, g.MaxMembers, g.IsPrivate, g.CreatedAt)
	if err != nil {
		return errs.ErrTransient.WrapMsg("insert group", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO group_members (id, group_id, user_id, role, joined_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		admin.ID, admin.GroupID, admin.UserID, admin.Role, admin.JoinedAt)
	if err != nil {
		return errs.ErrTransient.WrapMsg("insert creator membership", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.ErrTransient.WrapMsg("commit create group", err)
	}
	return nil
}

func (s *Store) GetGroup(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	g, err := scanGroup(s.pool.QueryRow(ctx,
		`SELECT `+groupCols+` FROM groups WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound.WithDetail("group " + id.String())
	}
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("get group", err)
	}
	return g, nil
}

func (s *Store) ListGroups(ctx context.Context, skill string, offset, limit int) ([]model.Group, error) {
	query := `SELECT ` + groupCols + ` FROM groups`
	args := []any{limit, offset}
	if skill != "" {
		query += ` WHERE related_skill ILIKE '%' || $3 || '%'`
		args = append(args, skill)
	}
	query += ` ORDER BY member_count DESC, created_at DESC LIMIT $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("list groups", err)
	}
	defer rows.Close()

	var out []model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, errs.ErrTransient.WrapMsg("scan group", err)
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ErrTransient.WrapMsg("iterate groups", err)
	}
	return out, nil
}

// JoinGroup adds a membership guarding the capacity invariant with a
// compare-and-swap on the denormalized counter: the increment only
// lands while member_count < max_members, and the membership insert
// shares its transaction, so the counter and the rows cannot diverge
// under concurrent joins. Already-member is a no-op.
func (s *Store) JoinGroup(ctx context.Context, m *model.GroupMembership) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errs.ErrTransient.WrapMsg("begin join group", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		m.GroupID, m.UserID).Scan(&exists)
	if err != nil {
		return errs.ErrTransient.WrapMsg("check membership", err)
	}
	if exists {
		return nil
	}

	tag, err := tx.Exec(ctx,
		`UPDATE groups SET member_count = member_count + 1
		 WHERE id = $1 AND member_count < max_members`, m.GroupID)
	if err != nil {
		return errs.ErrTransient.WrapMsg("increment member count", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the group is full or it does not exist; look once to
		// tell the two apart.
		var n int
		err = tx.QueryRow(ctx, `SELECT 1 FROM groups WHERE id = $1`, m.GroupID).Scan(&n)
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound.WithDetail("group " + m.GroupID.String())
		}
		if err != nil {
			return errs.ErrTransient.WrapMsg("recheck group", err)
		}
		return errs.ErrCapacityExceeded.WithDetail("group " + m.GroupID.String() + " is full")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO group_members (id, group_id, user_id, role, joined_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.GroupID, m.UserID, m.Role, m.JoinedAt)
	if err != nil {
		return errs.ErrTransient.WrapMsg("insert membership", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.ErrTransient.WrapMsg("commit join group", err)
	}
	return nil
}

// LeaveGroup removes the membership and decrements the counter in the
// same transaction; leaving a group one is not in is a no-op.
func (s *Store) LeaveGroup(ctx context.Context, group, user uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errs.ErrTransient.WrapMsg("begin leave group", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, group, user)
	if err != nil {
		return errs.ErrTransient.WrapMsg("delete membership", err)
	}
	if tag.RowsAffected() == 0 {
		return nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE groups SET member_count = GREATEST(member_count - 1, 0) WHERE id = $1`, group)
	if err != nil {
		return errs.ErrTransient.WrapMsg("decrement member count", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.ErrTransient.WrapMsg("commit leave group", err)
	}
	return nil
}

// DeleteGroup removes the group; memberships and messages cascade.
func (s *Store) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return errs.ErrTransient.WrapMsg("delete group", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound.WithDetail("group " + id.String())
	}
	return nil
}

func (s *Store) IsMember(ctx context.Context, group, user uuid.UUID) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		group, user).Scan(&ok)
	if err != nil {
		return false, errs.ErrTransient.WrapMsg("check member", err)
	}
	return ok, nil
}

func (s *Store) IsAdmin(ctx context.Context, group, user uuid.UUID) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2 AND role = $3)`,
		group, user, model.RoleAdmin).Scan(&ok)
	if err != nil {
		return false, errs.ErrTransient.WrapMsg("check admin", err)
	}
	return ok, nil
}

func (s *Store) ListMembers(ctx context.Context, group uuid.UUID) ([]model.GroupMembership, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT gm.id, gm.group_id, gm.user_id, gm.role, gm.joined_at, u.name
		 FROM group_members gm JOIN users u ON u.id = gm.user_id
		 WHERE gm.group_id = $1
		 ORDER BY gm.joined_at ASC`, group)
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("list members", err)
	}
	defer rows.Close()

	var out []model.GroupMembership
	for rows.Next() {
		var m model.GroupMembership
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Role, &m.JoinedAt, &m.UserName); err != nil {
			return nil, errs.ErrTransient.WrapMsg("scan member", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ErrTransient.WrapMsg("iterate members", err)
	}
	return out, nil
}

func (s *Store) AppendGroupMessage(ctx context.Context, m *model.GroupMessage) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO group_messages (id, group_id, sender_id, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.GroupID, m.SenderID, m.Body, m.CreatedAt)
	if err != nil {
		return errs.ErrTransient.WrapMsg("insert group message", err)
	}
	return nil
}

func (s *Store) RecentGroupMessages(ctx context.Context, group uuid.UUID, limit int) ([]model.GroupMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT gm.id, gm.group_id, gm.sender_id, gm.body, gm.created_at, u.name
		 FROM group_messages gm JOIN users u ON u.id = gm.sender_id
		 WHERE gm.group_id = $1
		 ORDER BY gm.created_at DESC, gm.id DESC
		 LIMIT $2`, group, limit)
	if err != nil {
		return nil, errs.ErrTransient.WrapMsg("recent group messages", err)
	}
	defer rows.Close()

	var out []model.GroupMessage
	for rows.Next() {
		var m model.GroupMessage
		if err := rows.Scan(&m.ID, &m.GroupID, &m.SenderID, &m.Body, &m.CreatedAt, &m.SenderName); err != nil {
			return nil, errs.ErrTransient.WrapMsg("scan group message", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ErrTransient.WrapMsg("iterate group messages", err)
	}
	return out, nil
}
