package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a per-user notification record. The type tag is an
// opaque string owned by upstream business callers (session-request,
// session-reminder, ...); this core stores and routes it without
// interpreting it.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
