package models

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a shareable session scope. Code is unique and never changes.
type Invite struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
}
