package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashBytes(t *testing.T) {
	h := HashBytes([]byte("hello"))
	assert.Len(t, h, 16)
	assert.Equal(t, h, HashBytes([]byte("hello")))
	assert.NotEqual(t, h, HashBytes([]byte("hello!")))
}

func TestCacheKey(t *testing.T) {
	h := HashBytes([]byte("hello"))
	assert.Equal(t, h+"_translation", CacheKey(h, ModeTranslation))
	assert.NotEqual(t, CacheKey(h, ModeRAG), CacheKey(h, ModeAnalysis))
}
