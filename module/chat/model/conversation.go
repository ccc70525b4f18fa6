package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Conversation is the single record for an unordered pair of users.
// PairKey is the canonical form of the pair and carries the UNIQUE
// constraint that makes first-contact races safe: both sides may try
// to insert, at most one row survives.
type Conversation struct {
	ID              uuid.UUID  `json:"id"`
	UserA           uuid.UUID  `json:"userA"`
	UserB           uuid.UUID  `json:"userB"`
	PairKey         string     `json:"-"`
	LastMessageTime *time.Time `json:"lastMessageTime,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// PairKey derives the canonical key for an unordered user pair:
// lexicographically smaller id first, joined with "#". Commutative by
// construction.
func PairKey(a, b uuid.UUID) string {
	s1, s2 := a.String(), b.String()
	if strings.Compare(s1, s2) < 0 {
		return s1 + "#" + s2
	}
	return s2 + "#" + s1
}

// Other returns the participant that is not me, and whether me is a
// participant at all.
func (c *Conversation) Other(me uuid.UUID) (uuid.UUID, bool) {
	switch me {
	case c.UserA:
		return c.UserB, true
	case c.UserB:
		return c.UserA, true
	}
	return uuid.Nil, false
}

// HasParticipant reports whether u is one of the two participants.
func (c *Conversation) HasParticipant(u uuid.UUID) bool {
	return u == c.UserA || u == c.UserB
}
