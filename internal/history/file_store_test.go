package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func TestFileStoreAppendAndRead(t *testing.T) {
	store := NewFileStore(t.TempDir(), nopLogger{})
	ctx := context.Background()

	require.NoError(t, store.AppendMessage(ctx, "u1", "s1", "user", "hello"))
	require.NoError(t, store.AppendMessage(ctx, "u1", "s1", "assistant", "hi there"))
	require.NoError(t, store.AppendMessage(ctx, "u1", "s1", "user", "what is TF-IDF?"))

	messages, err := store.RecentMessages(ctx, "u1", "s1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, "what is TF-IDF?", messages[2].Content)
}

func TestFileStoreRecentMessagesWindow(t *testing.T) {
	store := NewFileStore(t.TempDir(), nopLogger{})
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three", "four"} {
		require.NoError(t, store.AppendMessage(ctx, "u1", "s1", "user", content))
	}

	messages, err := store.RecentMessages(ctx, "u1", "s1", 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "three", messages[0].Content)
	assert.Equal(t, "four", messages[1].Content)
}

func TestFileStoreMissingSessionIsEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir(), nopLogger{})

	messages, err := store.RecentMessages(context.Background(), "u1", "nope", 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFileStoreSkipsCorruptLines(t *testing.T) {
	base := t.TempDir()
	store := NewFileStore(base, nopLogger{})
	ctx := context.Background()

	require.NoError(t, store.AppendMessage(ctx, "u1", "s1", "user", "first"))

	path := filepath.Join(base, "users", "u1", "sessions", "s1", historyFile)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not valid json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, store.AppendMessage(ctx, "u1", "s1", "assistant", "second"))

	messages, err := store.RecentMessages(ctx, "u1", "s1", 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
}

func TestFileStoreSessionsIsolated(t *testing.T) {
	store := NewFileStore(t.TempDir(), nopLogger{})
	ctx := context.Background()

	require.NoError(t, store.AppendMessage(ctx, "u1", "s1", "user", "in s1"))
	require.NoError(t, store.AppendMessage(ctx, "u1", "s2", "user", "in s2"))

	messages, err := store.RecentMessages(ctx, "u1", "s2", 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "in s2", messages[0].Content)
}
