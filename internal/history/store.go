package history

import (
	"context"

	"ai-docchat-be/pkg/llm"
)

// Store persists conversation turns per user session.
type Store interface {
	EnsureSession(ctx context.Context, userID, sessionID string) error
	AppendMessage(ctx context.Context, userID, sessionID, role, content string) error
	RecentMessages(ctx context.Context, userID, sessionID string, max int) ([]llm.Message, error)
}
