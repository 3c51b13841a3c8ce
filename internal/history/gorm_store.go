package history

import (
	"context"
	"fmt"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/llm"
)

// GormStore keeps sessions and messages in Postgres through the
// repository layer.
type GormStore struct {
	factory unitofwork.RepositoryFactory
}

func NewGormStore(factory unitofwork.RepositoryFactory) *GormStore {
	return &GormStore{factory: factory}
}

func (s *GormStore) findSession(ctx context.Context, uow unitofwork.UnitOfWork, userID, sessionID string) (*entity.ChatSession, error) {
	return uow.ChatSessionRepository().FindOne(ctx,
		specification.ByUserKey{UserKey: userID},
		specification.BySessionKey{SessionKey: sessionID},
	)
}

func (s *GormStore) EnsureSession(ctx context.Context, userID, sessionID string) error {
	uow := s.factory.NewUnitOfWork(ctx)
	session, err := s.findSession(ctx, uow, userID, sessionID)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}
	if session != nil {
		return nil
	}
	return uow.ChatSessionRepository().Create(ctx, &entity.ChatSession{
		UserKey:    userID,
		SessionKey: sessionID,
	})
}

func (s *GormStore) AppendMessage(ctx context.Context, userID, sessionID, role, content string) error {
	uow := s.factory.NewUnitOfWork(ctx)
	session, err := s.findSession(ctx, uow, userID, sessionID)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		session = &entity.ChatSession{UserKey: userID, SessionKey: sessionID}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
	}
	return uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          role,
		Content:       content,
	})
}

func (s *GormStore) RecentMessages(ctx context.Context, userID, sessionID string, max int) ([]llm.Message, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	session, err := s.findSession(ctx, uow, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	entities, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}

	messages := make([]llm.Message, 0, len(entities))
	for _, m := range entities {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	if max > 0 && len(messages) > max {
		messages = messages[len(messages)-max:]
	}
	return messages, nil
}
