package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession groups messages for one user conversation. UserKey and
// SessionKey are the client-provided identifiers; Id is internal.
type ChatSession struct {
	Id         uuid.UUID
	UserKey    string
	SessionKey string
	Title      string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
