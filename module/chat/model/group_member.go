package model

import (
	"time"

	"github.com/google/uuid"
)

type GroupRole string

const (
	RoleAdmin  GroupRole = "ADMIN"
	RoleMember GroupRole = "MEMBER"
)

// GroupMembership links one user to one group. A (group, user) pair
// has at most one active row. The first member of a new group is the
// creator and is always ADMIN.
type GroupMembership struct {
	ID       uuid.UUID `json:"id"`
	GroupID  uuid.UUID `json:"groupId"`
	UserID   uuid.UUID `json:"userId"`
	Role     GroupRole `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`

	// UserName is denormalized from the users table for member
	// listings; empty outside read paths.
	UserName string `json:"userName,omitempty"`
}
