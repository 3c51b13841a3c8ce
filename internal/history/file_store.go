package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/llm"
)

const historyFile = "chat_history.jsonl"

type historyLine struct {
	Timestamp string `json:"ts"`
	Role      string `json:"role"`
	Content   string `json:"content"`
}

// FileStore appends conversation turns to a per-session JSONL file.
type FileStore struct {
	baseDir string
	log     logger.ILogger
}

func NewFileStore(baseDir string, log logger.ILogger) *FileStore {
	return &FileStore{baseDir: baseDir, log: log}
}

func (s *FileStore) sessionDir(userID, sessionID string) string {
	return filepath.Join(s.baseDir, "users", userID, "sessions", sessionID)
}

func (s *FileStore) EnsureSession(ctx context.Context, userID, sessionID string) error {
	return os.MkdirAll(s.sessionDir(userID, sessionID), 0o755)
}

func (s *FileStore) AppendMessage(ctx context.Context, userID, sessionID, role, content string) error {
	dir := s.sessionDir(userID, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	line, err := json.Marshal(historyLine{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Role:      role,
		Content:   content,
	})
	if err != nil {
		return fmt.Errorf("marshal history line: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, historyFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write history line: %w", err)
	}
	return nil
}

func (s *FileStore) RecentMessages(ctx context.Context, userID, sessionID string, max int) ([]llm.Message, error) {
	path := filepath.Join(s.sessionDir(userID, sessionID), historyFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	var messages []llm.Message
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var line historyLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			// Corrupt lines are skipped so one bad write never loses the session.
			s.log.Warn("history", "skipping corrupt history line", map[string]interface{}{
				"user":    userID,
				"session": sessionID,
			})
			continue
		}
		messages = append(messages, llm.Message{Role: line.Role, Content: line.Content})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	if max > 0 && len(messages) > max {
		messages = messages[len(messages)-max:]
	}
	return messages, nil
}
