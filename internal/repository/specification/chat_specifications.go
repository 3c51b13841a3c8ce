package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// BySessionKey filters by the client-provided session identifier.
type BySessionKey struct {
	SessionKey string
}

func (s BySessionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_key = ?", s.SessionKey)
}

// ByUserKey filters by the client-provided user identifier.
type ByUserKey struct {
	UserKey string
}

func (s ByUserKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_key = ?", s.UserKey)
}
