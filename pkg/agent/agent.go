// Package agent routes document-chat queries to task pipelines: it detects
// intent, resolves which documents a task should run on (current upload,
// cached session documents, or a user selection), chunks and caches
// content, retrieves context, and drives the LLM.
package agent

import (
	"context"

	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/retrieval"
	"ai-docchat-be/pkg/store"
)

// DocumentCache is the session-scoped cache the agent reads and writes.
type DocumentCache interface {
	PutChunks(userID, sessionID, key, displayName string, chunks []string) error
	GetChunks(userID, sessionID, key string) ([]string, string, bool)
	PutIndex(userID, sessionID, key string, arts retrieval.Artifacts) error
	GetIndex(userID, sessionID, key string) (retrieval.Artifacts, bool)
	ListAll(userID, sessionID string) ([]store.CachedDocument, error)
	SetLastKey(userID, sessionID, key string) error
	GetLastKey(userID, sessionID string) (string, bool)
}

// SelectionStore parks pending document selections between turns.
type SelectionStore interface {
	Save(sel *store.PendingSelection)
	Get(sessionID string) (*store.PendingSelection, bool)
	Delete(sessionID string)
}

type Logger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

// Input is one user turn.
type Input struct {
	UserID    string
	SessionID string
	Query     string
	FileText  string // extracted text of the upload, "" when no file
	FileName  string
	FileHash  string // 16-hex content hash of the upload bytes
	History   []llm.Message
	Stream    bool
}

// Response is the agent's answer for one turn. Exactly one of Answer or
// Stream is populated, matching Input.Stream. IsPrompt marks messages that
// ask the user something (document selection) rather than answer them.
type Response struct {
	Task     store.Task
	Answer   string
	Stream   <-chan string
	IsPrompt bool
}

type Agent struct {
	llm              llm.LLMProvider
	cache            DocumentCache
	selections       SelectionStore
	log              Logger
	maxContextTokens int
}

func New(provider llm.LLMProvider, cache DocumentCache, selections SelectionStore, log Logger, maxContextTokens int) *Agent {
	return &Agent{
		llm:              provider,
		cache:            cache,
		selections:       selections,
		log:              log,
		maxContextTokens: maxContextTokens,
	}
}

// respondText wraps a pre-built message (selection prompts, invalid
// selection notices) in the shape the caller asked for.
func (a *Agent) respondText(in Input, task store.Task, text string, isPrompt bool) *Response {
	resp := &Response{Task: task, IsPrompt: isPrompt}
	if in.Stream {
		resp.Stream = staticStream(text)
	} else {
		resp.Answer = text
	}
	return resp
}

func staticStream(text string) <-chan string {
	ch := make(chan string, 1)
	ch <- text
	close(ch)
	return ch
}

// appendStream relays src and emits suffix after it drains.
func appendStream(src <-chan string, suffix string) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for s := range src {
			out <- s
		}
		if suffix != "" {
			out <- suffix
		}
	}()
	return out
}

// finish runs the assembled conversation against the model, in the
// streaming or blocking shape the turn asked for. suffix, when set, is
// appended after the model output.
func (a *Agent) finish(ctx context.Context, in Input, task store.Task, messages []llm.Message, suffix string) (*Response, error) {
	if in.Stream {
		ch, err := a.llm.ChatStream(ctx, messages)
		if err != nil {
			return nil, err
		}
		if suffix != "" {
			ch = appendStream(ch, suffix)
		}
		return &Response{Task: task, Stream: ch}, nil
	}

	answer, err := a.llm.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}
	return &Response{Task: task, Answer: answer + suffix}, nil
}
