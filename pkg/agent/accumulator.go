package agent

import (
	"strings"

	"ai-docchat-be/pkg/chunker"
	"ai-docchat-be/pkg/store"
)

// chunksPerSessionDoc caps how much each previously cached document
// contributes to a QA context.
const chunksPerSessionDoc = 2

// ragChunksOf returns retrieval-sized chunks for a cached document. Chunks
// cached under rag mode are used as stored; anything cached under another
// mode is re-chunked for retrieval.
func ragChunksOf(doc store.CachedDocument) []string {
	if strings.HasSuffix(doc.Key, "_"+string(store.ModeRAG)) {
		return doc.Chunks
	}
	text := strings.Join(doc.Chunks, "\n\n")
	return chunker.ChunkDocument(text, "txt", store.ModeRAG, chunker.DefaultConfig(store.ModeRAG))
}

// mergeSessionContext accumulates context from every cached document except
// excludeKey, at most chunksPerSessionDoc chunks each, in the stable order
// the cache enumerates them.
func mergeSessionContext(docs []store.CachedDocument, excludeKey string) []string {
	var merged []string
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if doc.Key == excludeKey {
			continue
		}
		if _, dup := seen[doc.Key]; dup {
			continue
		}
		seen[doc.Key] = struct{}{}

		chunks := ragChunksOf(doc)
		if len(chunks) > chunksPerSessionDoc {
			chunks = chunks[:chunksPerSessionDoc]
		}
		merged = append(merged, chunks...)
	}
	return merged
}

// fullSessionContext returns every retrieval chunk of every cached
// document, for queries that explicitly ask about file content with no
// upload attached.
func fullSessionContext(docs []store.CachedDocument) []string {
	var all []string
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if _, dup := seen[doc.Key]; dup {
			continue
		}
		seen[doc.Key] = struct{}{}
		all = append(all, ragChunksOf(doc)...)
	}
	return all
}
