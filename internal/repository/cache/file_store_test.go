package cache

import (
	"os"
	"path/filepath"
	"testing"

	"ai-docchat-be/pkg/retrieval"
	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir(), nopLogger{})
}

func TestChunksRoundTrip(t *testing.T) {
	s := newTestStore(t)
	chunks := []string{"first chunk", "second chunk"}
	key := store.CacheKey(store.HashBytes([]byte("content")), store.ModeRAG)

	require.NoError(t, s.PutChunks("u1", "s1", key, "report.pdf", chunks))

	got, name, ok := s.GetChunks("u1", "s1", key)
	require.True(t, ok)
	assert.Equal(t, chunks, got)
	assert.Equal(t, "report.pdf", name)
}

func TestGetChunksMiss(t *testing.T) {
	s := newTestStore(t)
	_, _, ok := s.GetChunks("u1", "s1", "nope_rag")
	assert.False(t, ok)
}

func TestCorruptChunksIsMiss(t *testing.T) {
	s := newTestStore(t)
	key := "deadbeefdeadbeef_rag"
	require.NoError(t, s.PutChunks("u1", "s1", key, "x.txt", []string{"a"}))

	path := filepath.Join(s.cacheDir("u1", "s1", key), chunksFile)
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	_, _, ok := s.GetChunks("u1", "s1", key)
	assert.False(t, ok)
}

func TestIndexRoundTripAndPartialMiss(t *testing.T) {
	s := newTestStore(t)
	key := "cafebabecafebabe_rag"
	chunks := []string{"alpha beta", "gamma delta"}
	arts, err := retrieval.Build(chunks).Export()
	require.NoError(t, err)

	require.NoError(t, s.PutIndex("u1", "s1", key, arts))

	got, ok := s.GetIndex("u1", "s1", key)
	require.True(t, ok)
	assert.Equal(t, arts, got)

	// Delete one artifact: the remaining pair must not be served.
	require.NoError(t, os.Remove(filepath.Join(s.cacheDir("u1", "s1", key), vectorsFile)))
	_, ok = s.GetIndex("u1", "s1", key)
	assert.False(t, ok)
}

func TestLastKey(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.GetLastKey("u1", "s1")
	assert.False(t, ok)

	require.NoError(t, s.SetLastKey("u1", "s1", "abc_rag"))
	key, ok := s.GetLastKey("u1", "s1")
	require.True(t, ok)
	assert.Equal(t, "abc_rag", key)
}

func TestListAllSortedByKey(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutChunks("u1", "s1", "bbb_rag", "second.txt", []string{"b"}))
	require.NoError(t, s.PutChunks("u1", "s1", "aaa_analysis", "first.txt", []string{"a1", "a2"}))

	docs, err := s.ListAll("u1", "s1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "aaa_analysis", docs[0].Key)
	assert.Equal(t, "first.txt", docs[0].Name)
	assert.Equal(t, 4, docs[0].Size())
	assert.Equal(t, "bbb_rag", docs[1].Key)

	// Sessions are isolated.
	other, err := s.ListAll("u1", "s2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestHashFileMatchesHashBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("same content"), 0o644))

	fromFile, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, store.HashBytes([]byte("same content")), fromFile)
}

func TestCopyUpload(t *testing.T) {
	s := newTestStore(t)
	dst, err := s.CopyUpload("u1", "s1", "../evil/notes.txt", []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", filepath.Base(dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}
