package agent

import (
	"testing"

	"ai-docchat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestDetectContentLanguage(t *testing.T) {
	assert.Equal(t, "Chinese", DetectContentLanguage("超声波探头的维护说明"))
	assert.Equal(t, "English", DetectContentLanguage("Routine maintenance instructions for probes."))
	assert.Equal(t, "Unknown", DetectContentLanguage(""))
	assert.Equal(t, "Unknown", DetectContentLanguage("12345 !!!"))
}

func TestDetectTranslationDirection(t *testing.T) {
	src, dst := DetectTranslationDirection("translate this file", "超声波探头使用手册，包含维护说明")
	assert.Equal(t, "Chinese", src)
	assert.Equal(t, "English", dst)

	src, dst = DetectTranslationDirection("translate this file", "An ordinary English maintenance manual.")
	assert.Equal(t, "English", src)
	assert.Equal(t, "Chinese", dst)

	// Explicit target wins over content heuristics.
	_, dst = DetectTranslationDirection("translate this to japanese", "An ordinary English manual.")
	assert.Equal(t, "Japanese", dst)
}

func TestExtractInlineText(t *testing.T) {
	assert.Equal(t, "Hello world", ExtractInlineText("translate: Hello world"))
	assert.Equal(t, "How are you?", ExtractInlineText(`translate "How are you?" to Chinese`))
	assert.Equal(t, "", ExtractInlineText("summarize the report"))
}

func TestConversationText(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
		{Role: "user", Content: ""},
	}
	got := ConversationText(history)
	assert.Equal(t, "User: hello\n\nAssistant: hi there", got)
}
