package model

import (
	"time"

	"github.com/google/uuid"
)

// DirectMessage is an append-only message inside a conversation.
// Only the read flag and read timestamp ever change after insert, and
// the read timestamp is set exactly once, by the non-sender
// participant.
type DirectMessage struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversationId"`
	SenderID       uuid.UUID  `json:"senderId"`
	Body           string     `json:"text"`
	IsRead         bool       `json:"isRead"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
