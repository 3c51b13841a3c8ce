package agent

import (
	"regexp"
	"strings"
	"unicode"

	"ai-docchat-be/pkg/llm"
)

// DetectContentLanguage guesses the dominant language of a text from its
// character makeup. More than 30% CJK letters reads as Chinese; more than
// 70% ASCII letters reads as English; everything else falls back to common
// function words.
func DetectContentLanguage(text string) string {
	if text == "" {
		return "Unknown"
	}

	var chinese, english, total int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		switch {
		case r >= 0x4e00 && r <= 0x9fff:
			chinese++
		case r < 128:
			english++
		}
	}
	if total == 0 {
		return "Unknown"
	}

	switch {
	case float64(chinese)/float64(total) > 0.3:
		return "Chinese"
	case float64(english)/float64(total) > 0.7:
		return "English"
	}

	lower := strings.ToLower(text)
	for _, w := range []string{"what", "is", "the", "and", "of", "in", "to"} {
		if strings.Contains(lower, w) {
			return "English"
		}
	}
	for _, w := range []string{"什么", "是", "的", "和", "在", "到"} {
		if strings.Contains(text, w) {
			return "Chinese"
		}
	}
	return "Unknown"
}

var targetLanguagePatterns = []struct {
	language string
	patterns []string
}{
	{"English", []string{"to english", "into english", "translate to english", "english", "en"}},
	{"Chinese", []string{"to chinese", "into chinese", "translate to chinese", "chinese", "zh", "中文"}},
	{"Japanese", []string{"to japanese", "into japanese", "translate to japanese", "japanese", "ja", "日语"}},
	{"Korean", []string{"to korean", "into korean", "translate to korean", "korean", "ko", "韩语"}},
	{"French", []string{"to french", "into french", "translate to french", "french", "fr"}},
	{"German", []string{"to german", "into german", "translate to german", "german", "de"}},
	{"Spanish", []string{"to spanish", "into spanish", "translate to spanish", "spanish", "es"}},
	{"Russian", []string{"to russian", "into russian", "translate to russian", "russian", "ru"}},
}

// ExtractTargetLanguage pulls an explicit target language out of the query,
// or "" when none is named.
func ExtractTargetLanguage(query string) string {
	q := strings.ToLower(query)
	for _, entry := range targetLanguagePatterns {
		for _, p := range entry.patterns {
			if strings.Contains(q, p) {
				return entry.language
			}
		}
	}
	return ""
}

// DetectTranslationDirection picks source and target languages for a
// translation request. An explicit target in the query wins; otherwise
// Chinese content goes to English, English content to Chinese, and unknown
// content to English.
func DetectTranslationDirection(query, text string) (source, target string) {
	source = DetectContentLanguage(text)
	target = ExtractTargetLanguage(query)
	if target == "" {
		switch source {
		case "Chinese":
			target = "English"
		case "English":
			target = "Chinese"
		default:
			target = "English"
		}
	}
	return source, target
}

var inlineTranslatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)translate\s*:\s*(.+)`),
	regexp.MustCompile(`(?i)translate\s+this\s*:\s*(.+)`),
	regexp.MustCompile(`(?i)translate\s+"([^"]+)"`),
	regexp.MustCompile(`(?i)translate\s+([^:]+?)(?:\s+to\s+\w+)?$`),
}

// ExtractInlineText pulls text to translate out of the query itself, e.g.
// `translate: hello world` or `translate "hello" to chinese`.
func ExtractInlineText(query string) string {
	for _, p := range inlineTranslatePatterns {
		if m := p.FindStringSubmatch(query); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// ConversationText flattens chat history into translatable text, one
// "Role: content" line per message.
func ConversationText(history []llm.Message) string {
	var lines []string
	for _, msg := range history {
		if msg.Content == "" {
			continue
		}
		role := msg.Role
		if role != "" {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		lines = append(lines, role+": "+msg.Content)
	}
	return strings.Join(lines, "\n\n")
}
