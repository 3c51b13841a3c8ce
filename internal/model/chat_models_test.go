package model

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Session keys are client-chosen and only unique per user: two users may
// both name their session "default" without colliding.
func TestChatSessionKeyUniquePerUserOnly(t *testing.T) {
	typ := reflect.TypeOf(ChatSession{})

	userKey, ok := typ.FieldByName("UserKey")
	require.True(t, ok)
	sessionKey, ok := typ.FieldByName("SessionKey")
	require.True(t, ok)

	const composite = "uniqueIndex:idx_chat_sessions_user_session"
	assert.Contains(t, userKey.Tag.Get("gorm"), composite)
	assert.Contains(t, sessionKey.Tag.Get("gorm"), composite)
	assert.Equal(t, 1, strings.Count(sessionKey.Tag.Get("gorm"), "uniqueIndex"),
		"session_key must not carry a standalone unique index")
}
