package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal identity row the rest of the core resolves
// against. Credential storage and profile management live outside
// this service.
type User struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}
