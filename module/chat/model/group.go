package model

import (
	"time"

	"github.com/google/uuid"
)

// Group is a study group. MemberCount is a denormalized counter and
// must always equal the number of membership rows; it is updated in
// the same transaction as any membership change and never recomputed
// on the hot path.
type Group struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	RelatedSkill string    `json:"relatedSkill,omitempty"`
	CreatorID    uuid.UUID `json:"creatorId"`
	MaxMembers   int       `json:"maxMembers"`
	MemberCount  int       `json:"memberCount"`
	IsPrivate    bool      `json:"isPrivate"`
	CreatedAt    time.Time `json:"createdAt"`
}
