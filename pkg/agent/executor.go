package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-docchat-be/pkg/agent/intent"
	"ai-docchat-be/pkg/chunker"
	"ai-docchat-be/pkg/retrieval"
	"ai-docchat-be/pkg/store"
)

// ragTopK is how many chunks retrieval contributes from the current upload.
const ragTopK = 3

// chunksFor returns cached chunks for the key, chunking and caching on a
// miss. Cache write failures degrade to a warning; the chunks still serve
// the current turn.
func (a *Agent) chunksFor(in Input, key, text string, mode store.ChunkMode, cfg chunker.Config) []string {
	if chunks, _, ok := a.cache.GetChunks(in.UserID, in.SessionID, key); ok {
		a.log.Debug("agent", "chunk cache hit", map[string]interface{}{"key": key, "chunks": len(chunks)})
		return chunks
	}

	chunks := chunker.ChunkDocument(text, chunker.FileTypeOf(in.FileName), mode, cfg)
	name := in.FileName
	if name == "" {
		name = key
	}
	if err := a.cache.PutChunks(in.UserID, in.SessionID, key, name, chunks); err != nil {
		a.log.Warn("agent", "failed to cache chunks", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return chunks
}

// indexFor restores the retrieval index bound to these chunks, rebuilding
// when the stored artifacts are absent, corrupt, or fingerprinted against a
// different chunk list.
func (a *Agent) indexFor(in Input, key string, chunks []string) *retrieval.Index {
	if arts, ok := a.cache.GetIndex(in.UserID, in.SessionID, key); ok {
		idx, err := retrieval.Import(arts, chunks)
		if err == nil {
			return idx
		}
		reason := "corrupt"
		if errors.Is(err, retrieval.ErrChunkMismatch) {
			reason = "chunk mismatch"
		}
		a.log.Warn("agent", "stored index unusable, rebuilding", map[string]interface{}{
			"key": key, "reason": reason, "error": err.Error(),
		})
	}

	idx := retrieval.Build(chunks)
	if arts, err := idx.Export(); err != nil {
		a.log.Warn("agent", "failed to serialize index", map[string]interface{}{"key": key, "error": err.Error()})
	} else if err := a.cache.PutIndex(in.UserID, in.SessionID, key, arts); err != nil {
		a.log.Warn("agent", "failed to cache index", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return idx
}

func (a *Agent) runTranslate(ctx context.Context, in Input, docs, selected []store.CachedDocument) (*Response, error) {
	text, hash, prompt, err := a.resolveDocument(in, store.TaskTranslate, docs, selected)
	if prompt != nil {
		return prompt, nil
	}
	if err != nil {
		// Translation has two more sources before giving up: text carried
		// inline in the query, then the conversation itself.
		if inline := ExtractInlineText(in.Query); inline != "" {
			text = inline
		} else if conv := ConversationText(in.History); conv != "" {
			text = conv
		} else {
			return nil, err
		}
		hash = store.HashBytes([]byte(text))
	}

	cfg := chunker.ConfigForTask(store.TaskTranslate, a.maxContextTokens)
	key := store.CacheKey(hash, store.ModeTranslation)
	chunks := a.chunksFor(in, key, text, store.ModeTranslation, cfg)
	if len(chunks) == 0 {
		return nil, &MissingDocumentError{Task: store.TaskTranslate}
	}

	_, target := DetectTranslationDirection(in.Query, text)

	if in.Stream {
		// Streaming translates the document in one request.
		return a.finish(ctx, in, store.TaskTranslate, translateMessages(strings.Join(chunks, "\n\n"), target), "")
	}

	// Blocking mode translates chunk by chunk, preserving source order.
	translations := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := a.llm.Chat(ctx, translateMessages(chunk, target))
		if err != nil {
			return nil, fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
		}
		translations = append(translations, out)
	}
	return &Response{Task: store.TaskTranslate, Answer: strings.Join(translations, "\n")}, nil
}

func (a *Agent) runSingleDocTask(ctx context.Context, in Input, task store.Task, docs, selected []store.CachedDocument) (*Response, error) {
	text, hash, prompt, err := a.resolveDocument(in, task, docs, selected)
	if prompt != nil {
		return prompt, nil
	}
	if err != nil {
		return nil, err
	}

	mode := store.ChunkModeFor(task)
	cfg := chunker.ConfigForTask(task, a.maxContextTokens)
	key := store.CacheKey(hash, mode)
	chunks := a.chunksFor(in, key, text, mode, cfg)
	allText := strings.Join(chunks, "\n\n")

	switch task {
	case store.TaskSummarize:
		return a.finish(ctx, in, task, summarizeMessages(allText, DetectContentLanguage(allText)), "")
	case store.TaskExtract:
		return a.finish(ctx, in, task, extractMessages(allText, in.Query), "")
	default: // analyze
		return a.finish(ctx, in, task, analyzeMessages(a.analysisContext(allText, key, docs)), "")
	}
}

// analysisContext widens an analysis with the other documents cached in the
// session, current file first.
func (a *Agent) analysisContext(current, currentKey string, docs []store.CachedDocument) string {
	parts := []string{"**Current File Analysis:**\n" + current}
	for _, doc := range docs {
		if doc.Key == currentKey {
			continue
		}
		parts = append(parts, fmt.Sprintf("**Additional Context from %s:**\n%s", doc.Name, strings.Join(doc.Chunks, "\n\n")))
	}
	if len(parts) == 1 {
		return current
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// runCompare gathers every document in play: the explicit selection if one
// resolved, otherwise the current upload plus all cached documents. Compare
// never prompts for a selection.
func (a *Agent) runCompare(ctx context.Context, in Input, docs, selected []store.CachedDocument) (*Response, error) {
	var texts []string
	if len(selected) > 0 {
		for _, d := range selected {
			texts = append(texts, strings.Join(d.Chunks, "\n\n"))
		}
	} else {
		if in.FileText != "" {
			texts = append(texts, in.FileText)
		}
		for _, d := range docs {
			texts = append(texts, strings.Join(d.Chunks, "\n\n"))
		}
	}

	if len(texts) == 0 {
		return nil, &MissingDocumentError{Task: store.TaskCompare}
	}
	if len(texts) == 1 {
		a.log.Info("agent", "single document comparison, proceeding anyway", nil)
	}
	return a.finish(ctx, in, store.TaskCompare, compareMessages(texts, in.Query), "")
}

func (a *Agent) runQA(ctx context.Context, in Input, docs []store.CachedDocument) (*Response, error) {
	language := DetectContentLanguage(in.Query)

	var contextDocs []string
	currentKey := ""
	if in.FileText != "" {
		currentKey = store.CacheKey(in.FileHash, store.ModeRAG)
		cfg := chunker.DefaultConfig(store.ModeRAG)
		chunks := a.chunksFor(in, currentKey, in.FileText, store.ModeRAG, cfg)
		if err := a.cache.SetLastKey(in.UserID, in.SessionID, currentKey); err != nil {
			a.log.Warn("agent", "failed to record last document key", map[string]interface{}{"error": err.Error()})
		}

		idx := a.indexFor(in, currentKey, chunks)
		for _, hit := range idx.Query(in.Query, ragTopK) {
			if hit.ChunkIndex >= len(chunks) {
				return nil, retrieval.ErrChunkMismatch
			}
			contextDocs = append(contextDocs, chunks[hit.ChunkIndex])
		}
	}

	// Current upload context stays ahead of merged session context.
	contextDocs = append(contextDocs, mergeSessionContext(docs, currentKey)...)

	if len(contextDocs) == 0 {
		if intent.IsAskingAboutFileContent(in.Query) && len(docs) > 0 {
			contextDocs = fullSessionContext(docs)
		} else {
			// Nothing to ground on: answer from general knowledge and say so.
			return a.finish(ctx, in, store.TaskQA, qaMessages(in.Query, nil, in.History, language), GuidanceNote)
		}
	}

	return a.finish(ctx, in, store.TaskQA, qaMessages(in.Query, contextDocs, in.History, language), "")
}
