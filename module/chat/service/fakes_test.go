package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"skillswap/module/chat/model"
	"skillswap/tools/errs"
)

// fakeStore is an in-memory implementation of every store interface,
// mirroring the relational semantics the pgx store provides (unique
// pair key, capacity compare-and-swap, single-statement mark-read).
type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*model.User
	convs         map[uuid.UUID]*model.Conversation
	convsByPair   map[string]uuid.UUID
	messages      []model.DirectMessage
	groups        map[uuid.UUID]*model.Group
	memberships   []model.GroupMembership
	groupMessages []model.GroupMessage
	notifications map[uuid.UUID]*model.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         map[uuid.UUID]*model.User{},
		convs:         map[uuid.UUID]*model.Conversation{},
		convsByPair:   map[string]uuid.UUID{},
		groups:        map[uuid.UUID]*model.Group{},
		notifications: map[uuid.UUID]*model.Notification{},
	}
}

func (f *fakeStore) addUser(name string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &model.User{ID: uuid.New(), Name: name, Email: name + "@example.com", CreatedAt: time.Now()}
	f.users[u.ID] = u
	return u.ID
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, errs.ErrNotFound.WithDetail("user")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetOrCreateConversation(_ context.Context, a, b uuid.UUID, pairKey string) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.convsByPair[pairKey]; ok {
		cp := *f.convs[id]
		return &cp, nil
	}
	c := &model.Conversation{ID: uuid.New(), UserA: a, UserB: b, PairKey: pairKey, CreatedAt: time.Now()}
	f.convs[c.ID] = c
	f.convsByPair[pairKey] = c.ID
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetConversation(_ context.Context, id uuid.UUID) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[id]
	if !ok {
		return nil, errs.ErrNotFound.WithDetail("conversation")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListConversations(_ context.Context, user uuid.UUID) ([]model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Conversation
	for _, c := range f.convs {
		if c.HasParticipant(user) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].LastMessageTime, out[j].LastMessageTime
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})
	return out, nil
}

func (f *fakeStore) AppendMessage(_ context.Context, m *model.DirectMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[m.ConversationID]
	if !ok {
		return errs.ErrNotFound.WithDetail("conversation")
	}
	f.messages = append(f.messages, *m)
	t := m.CreatedAt
	c.LastMessageTime = &t
	return nil
}

func (f *fakeStore) PageMessages(_ context.Context, conv uuid.UUID, offset, limit int) ([]model.DirectMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []model.DirectMessage
	for _, m := range f.messages {
		if m.ConversationID == conv {
			all = append(all, m)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeStore) MarkMessagesRead(_ context.Context, conv, reader uuid.UUID, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.messages {
		m := &f.messages[i]
		if m.ConversationID == conv && m.SenderID != reader && !m.IsRead {
			m.IsRead = true
			t := at
			m.ReadAt = &t
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountUnread(_ context.Context, conv, reader uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.messages {
		if m.ConversationID == conv && m.SenderID != reader && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateGroup(_ context.Context, g *model.Group, admin *model.GroupMembership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *g
	f.groups[g.ID] = &cp
	f.memberships = append(f.memberships, *admin)
	return nil
}

func (f *fakeStore) GetGroup(_ context.Context, id uuid.UUID) (*model.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[id]
	if !ok {
		return nil, errs.ErrNotFound.WithDetail("group")
	}
	cp := *g
	return &cp, nil
}

func (f *fakeStore) ListGroups(_ context.Context, skill string, offset, limit int) ([]model.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Group
	for _, g := range f.groups {
		if skill == "" || g.RelatedSkill == skill {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberCount > out[j].MemberCount })
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeStore) JoinGroup(_ context.Context, m *model.GroupMembership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[m.GroupID]
	if !ok {
		return errs.ErrNotFound.WithDetail("group")
	}
	for _, x := range f.memberships {
		if x.GroupID == m.GroupID && x.UserID == m.UserID {
			return nil
		}
	}
	if g.MemberCount >= g.MaxMembers {
		return errs.ErrCapacityExceeded.WithDetail("group is full")
	}
	g.MemberCount++
	f.memberships = append(f.memberships, *m)
	return nil
}

func (f *fakeStore) LeaveGroup(_ context.Context, group, user uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, x := range f.memberships {
		if x.GroupID == group && x.UserID == user {
			f.memberships = append(f.memberships[:i], f.memberships[i+1:]...)
			if g, ok := f.groups[group]; ok && g.MemberCount > 0 {
				g.MemberCount--
			}
			return nil
		}
	}
	return nil
}

func (f *fakeStore) DeleteGroup(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.groups, id)
	kept := f.memberships[:0]
	for _, x := range f.memberships {
		if x.GroupID != id {
			kept = append(kept, x)
		}
	}
	f.memberships = kept
	msgs := f.groupMessages[:0]
	for _, m := range f.groupMessages {
		if m.GroupID != id {
			msgs = append(msgs, m)
		}
	}
	f.groupMessages = msgs
	return nil
}

func (f *fakeStore) IsMember(_ context.Context, group, user uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.memberships {
		if x.GroupID == group && x.UserID == user {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) IsAdmin(_ context.Context, group, user uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.memberships {
		if x.GroupID == group && x.UserID == user && x.Role == model.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListMembers(_ context.Context, group uuid.UUID) ([]model.GroupMembership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.GroupMembership
	for _, x := range f.memberships {
		if x.GroupID == group {
			m := x
			if u, ok := f.users[x.UserID]; ok {
				m.UserName = u.Name
			}
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (f *fakeStore) AppendGroupMessage(_ context.Context, m *model.GroupMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupMessages = append(f.groupMessages, *m)
	return nil
}

func (f *fakeStore) RecentGroupMessages(_ context.Context, group uuid.UUID, limit int) ([]model.GroupMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.GroupMessage
	for _, m := range f.groupMessages {
		if m.GroupID == group {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) InsertNotification(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	f.notifications[n.ID] = &cp
	return nil
}

func (f *fakeStore) GetNotification(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return nil, errs.ErrNotFound.WithDetail("notification")
	}
	cp := *n
	return &cp, nil
}

func (f *fakeStore) ListNotifications(_ context.Context, user uuid.UUID) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Notification
	for _, n := range f.notifications {
		if n.UserID == user {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) MarkNotificationRead(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (f *fakeStore) DeleteNotification(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.notifications, id)
	return nil
}

func uuidMust(s string) uuid.UUID {
	return uuid.MustParse(s)
}

// stepClock returns a clock that advances one second per call, so
// ordering assertions never depend on wall-clock resolution.
func stepClock() clock {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

// recordingPusher captures pushes for assertions.
type recordingPusher struct {
	mu         sync.Mutex
	userPushes map[uuid.UUID][]Event
	grpPushes  map[uuid.UUID][]Event
}

func newRecordingPusher() *recordingPusher {
	return &recordingPusher{
		userPushes: map[uuid.UUID][]Event{},
		grpPushes:  map[uuid.UUID][]Event{},
	}
}

func (p *recordingPusher) PushUser(user uuid.UUID, ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userPushes[user] = append(p.userPushes[user], ev)
}

func (p *recordingPusher) PushGroup(group uuid.UUID, ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grpPushes[group] = append(p.grpPushes[group], ev)
}

func (p *recordingPusher) forUser(user uuid.UUID) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.userPushes[user]...)
}

func (p *recordingPusher) forGroup(group uuid.UUID) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.grpPushes[group]...)
}
