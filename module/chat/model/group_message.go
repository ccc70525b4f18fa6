package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupMessage is an append-only broadcast message inside a group,
// ordered by creation timestamp (ties broken by id).
type GroupMessage struct {
	ID        uuid.UUID `json:"id"`
	GroupID   uuid.UUID `json:"groupId"`
	SenderID  uuid.UUID `json:"senderId"`
	Body      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`

	// SenderName is denormalized for message listings.
	SenderName string `json:"senderName,omitempty"`
}
