package contract

import (
	"ai-docchat-be/pkg/retrieval"
	"ai-docchat-be/pkg/store"
)

// DocumentCacheRepository persists processed documents per chat session:
// the chunk lists keyed by content hash and mode, the serialized retrieval
// indexes bound to those chunks, and the marker for the most recent upload.
type DocumentCacheRepository interface {
	PutChunks(userID, sessionID, key, displayName string, chunks []string) error
	GetChunks(userID, sessionID, key string) ([]string, string, bool)
	PutIndex(userID, sessionID, key string, arts retrieval.Artifacts) error
	GetIndex(userID, sessionID, key string) (retrieval.Artifacts, bool)
	ListAll(userID, sessionID string) ([]store.CachedDocument, error)
	SetLastKey(userID, sessionID, key string) error
	GetLastKey(userID, sessionID string) (string, bool)
	CopyUpload(userID, sessionID, filename string, data []byte) (string, error)
}
