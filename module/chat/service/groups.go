package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillswap/module/chat/model"
	"skillswap/tools/errs"
)

// RecentGroupMessages caps the group history listing.
const RecentGroupMessages = 50

const EventGroupMessage = "group.message"

// Groups is the membership registry plus group messaging: it owns the
// capacity invariant and gates posting and subscription authorization
// through IsMember.
type Groups struct {
	groups GroupStore
	users  UserStore
	pusher Pusher
	now    clock
}

func NewGroups(groups GroupStore, users UserStore, pusher Pusher) *Groups {
	return &Groups{groups: groups, users: users, pusher: pusher, now: time.Now}
}

// Create makes a group with the creator auto-enrolled as ADMIN and
// member count 1.
func (g *Groups) Create(ctx context.Context, creatorID uuid.UUID, name, description, relatedSkill string, maxMembers int, isPrivate bool) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.ErrInvalidArgument.WithDetail("group name cannot be empty")
	}
	if maxMembers < 1 {
		return nil, errs.ErrInvalidArgument.WithDetail("maxMembers must be at least 1")
	}
	if _, err := g.users.GetUser(ctx, creatorID); err != nil {
		return nil, err
	}

	now := g.now().UTC()
	grp := &model.Group{
		ID:           uuid.New(),
		Name:         name,
		Description:  description,
		RelatedSkill: relatedSkill,
		CreatorID:    creatorID,
		MaxMembers:   maxMembers,
		MemberCount:  1,
		IsPrivate:    isPrivate,
		CreatedAt:    now,
	}
	admin := &model.GroupMembership{
		ID:       uuid.New(),
		GroupID:  grp.ID,
		UserID:   creatorID,
		Role:     model.RoleAdmin,
		JoinedAt: now,
	}
	if err := g.groups.CreateGroup(ctx, grp, admin); err != nil {
		return nil, err
	}
	return grp, nil
}

func (g *Groups) Get(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	return g.groups.GetGroup(ctx, id)
}

// List browses groups by member count, optionally filtered by skill.
func (g *Groups) List(ctx context.Context, skill string, page, size int) ([]model.Group, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}
	return g.groups.ListGroups(ctx, strings.TrimSpace(skill), page*size, size)
}

// Join enrolls user as MEMBER. Idempotent for existing members;
// CapacityExceeded when the group is full, with the counter left
// untouched (the store's compare-and-swap guarantees this under
// concurrent joins).
func (g *Groups) Join(ctx context.Context, groupID, userID uuid.UUID) error {
	if _, err := g.users.GetUser(ctx, userID); err != nil {
		return err
	}
	return g.groups.JoinGroup(ctx, &model.GroupMembership{
		ID:       uuid.New(),
		GroupID:  groupID,
		UserID:   userID,
		Role:     model.RoleMember,
		JoinedAt: g.now().UTC(),
	})
}

// Leave removes the membership; no-op for non-members.
func (g *Groups) Leave(ctx context.Context, groupID, userID uuid.UUID) error {
	return g.groups.LeaveGroup(ctx, groupID, userID)
}

// Delete removes the group. Only an ADMIN of that group may delete it.
func (g *Groups) Delete(ctx context.Context, groupID, requesterID uuid.UUID) error {
	if _, err := g.groups.GetGroup(ctx, groupID); err != nil {
		return err
	}
	ok, err := g.groups.IsAdmin(ctx, groupID, requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrForbidden.WithDetail("only admins can delete the group")
	}
	return g.groups.DeleteGroup(ctx, groupID)
}

// IsMember is the authorization gate used by message delivery and by
// the gateway's subscription checks.
func (g *Groups) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return g.groups.IsMember(ctx, groupID, userID)
}

func (g *Groups) ListMembers(ctx context.Context, groupID uuid.UUID) ([]model.GroupMembership, error) {
	if _, err := g.groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return g.groups.ListMembers(ctx, groupID)
}

// Post appends a group message and broadcasts it to the group topic.
// Membership is checked at send time; the push is best-effort and the
// message stays queryable via Recent regardless of delivery.
func (g *Groups) Post(ctx context.Context, groupID, senderID uuid.UUID, text string) (*model.GroupMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.ErrInvalidArgument.WithDetail("message cannot be empty")
	}
	if _, err := g.groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	ok, err := g.groups.IsMember(ctx, groupID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.ErrForbidden.WithDetail("sender is not a group member")
	}

	sender, err := g.users.GetUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	msg := &model.GroupMessage{
		ID:         uuid.New(),
		GroupID:    groupID,
		SenderID:   senderID,
		Body:       text,
		CreatedAt:  g.now().UTC(),
		SenderName: sender.Name,
	}
	if err := g.groups.AppendGroupMessage(ctx, msg); err != nil {
		return nil, err
	}

	g.pusher.PushGroup(groupID, Event{Type: EventGroupMessage, Data: msg})
	return msg, nil
}

// Recent returns the latest group messages, newest first, capped at
// RecentGroupMessages.
func (g *Groups) Recent(ctx context.Context, groupID uuid.UUID) ([]model.GroupMessage, error) {
	if _, err := g.groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return g.groups.RecentGroupMessages(ctx, groupID, RecentGroupMessages)
}
