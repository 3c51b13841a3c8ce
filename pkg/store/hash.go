package store

import (
	"crypto/sha256"
	"fmt"
)

// HashBytes returns the cache hash for document content: the first 16 hex
// characters of its SHA-256.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)[:16]
}

// CacheKey combines a content hash with a chunking mode. The same bytes
// chunked differently are different cache entries.
func CacheKey(hash string, mode ChunkMode) string {
	return hash + "_" + string(mode)
}
