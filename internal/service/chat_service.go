package service

import (
	"context"
	"fmt"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/history"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/pkg/agent"
	"ai-docchat-be/pkg/store"
)

const historyLoadWindow = 20

// IChatService defines the chat service interface
type IChatService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResult, error)
	GetHistory(ctx context.Context, userID, sessionID string) ([]*dto.ChatHistoryResponse, error)
	ListDocuments(ctx context.Context, userID, sessionID string) ([]*dto.CachedDocumentResponse, error)
}

type chatService struct {
	agent   *agent.Agent
	history history.Store
	cache   contract.DocumentCacheRepository
	log     logger.ILogger
}

func NewChatService(
	chatAgent *agent.Agent,
	historyStore history.Store,
	cache contract.DocumentCacheRepository,
	log logger.ILogger,
) IChatService {
	return &chatService{
		agent:   chatAgent,
		history: historyStore,
		cache:   cache,
		log:     log,
	}
}

// Chat runs one turn: load history, hand the turn to the agent, persist
// both sides of the exchange.
func (cs *chatService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResult, error) {
	userID := request.User
	if userID == "" {
		userID = "default_user"
	}
	sessionID := request.Session
	if sessionID == "" {
		sessionID = "default"
	}

	if err := cs.history.EnsureSession(ctx, userID, sessionID); err != nil {
		return nil, fmt.Errorf("ensure session: %w", err)
	}

	hist, err := cs.history.RecentMessages(ctx, userID, sessionID, historyLoadWindow)
	if err != nil {
		cs.log.Warn("chat", "failed to load history, continuing without it", map[string]interface{}{
			"user":    userID,
			"session": sessionID,
			"error":   err.Error(),
		})
		hist = nil
	}

	in := agent.Input{
		UserID:    userID,
		SessionID: sessionID,
		Query:     request.Query,
		History:   hist,
		Stream:    request.Stream,
	}

	if len(request.FileData) > 0 {
		in.FileText = string(request.FileData)
		in.FileName = request.FileName
		in.FileHash = store.HashBytes(request.FileData)

		if _, err := cs.cache.CopyUpload(userID, sessionID, request.FileName, request.FileData); err != nil {
			cs.log.Warn("chat", "failed to archive upload", map[string]interface{}{
				"file":  request.FileName,
				"error": err.Error(),
			})
		}
	}

	resp, err := cs.agent.Run(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := cs.history.AppendMessage(ctx, userID, sessionID, "user", request.Query); err != nil {
		cs.log.Warn("chat", "failed to persist user message", map[string]interface{}{
			"session": sessionID,
			"error":   err.Error(),
		})
	}

	result := &dto.ChatResult{
		Task:     string(resp.Task),
		IsPrompt: resp.IsPrompt,
	}

	if resp.Stream != nil {
		result.Stream = cs.persistingStream(userID, sessionID, resp.Stream)
	} else {
		result.Answer = resp.Answer
		cs.appendAssistant(context.Background(), userID, sessionID, resp.Answer)
	}

	return result, nil
}

// persistingStream relays the agent stream and writes the assembled
// answer to history once the stream drains.
func (cs *chatService) persistingStream(userID, sessionID string, src <-chan string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		var full string
		for piece := range src {
			full += piece
			out <- piece
		}
		// Request context may be gone by the time the stream drains.
		cs.appendAssistant(context.Background(), userID, sessionID, full)
	}()
	return out
}

func (cs *chatService) appendAssistant(ctx context.Context, userID, sessionID, content string) {
	if content == "" {
		return
	}
	if err := cs.history.AppendMessage(ctx, userID, sessionID, "assistant", content); err != nil {
		cs.log.Warn("chat", "failed to persist assistant message", map[string]interface{}{
			"session": sessionID,
			"error":   err.Error(),
		})
	}
}

func (cs *chatService) GetHistory(ctx context.Context, userID, sessionID string) ([]*dto.ChatHistoryResponse, error) {
	messages, err := cs.history.RecentMessages(ctx, userID, sessionID, 0)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ChatHistoryResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, &dto.ChatHistoryResponse{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return response, nil
}

func (cs *chatService) ListDocuments(ctx context.Context, userID, sessionID string) ([]*dto.CachedDocumentResponse, error) {
	docs, err := cs.cache.ListAll(userID, sessionID)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.CachedDocumentResponse, 0, len(docs))
	for _, d := range docs {
		response = append(response, &dto.CachedDocumentResponse{
			Key:  d.Key,
			Name: d.Name,
			Size: d.Size(),
		})
	}
	return response, nil
}
