package chunker

import (
	"strings"
	"testing"

	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkDocumentEmptyInput(t *testing.T) {
	for _, mode := range []store.ChunkMode{
		store.ModeTranslation, store.ModeRAG, store.ModeAnalysis,
		store.ModeSummarization, store.ModeExtraction, store.ModeComparison,
	} {
		chunks := ChunkDocument("", "txt", mode, DefaultConfig(mode))
		assert.Empty(t, chunks, "mode %s", mode)
	}
}

func TestChunkDocumentIdempotent(t *testing.T) {
	text := strings.Repeat("First sentence here. Second one follows! A third?\n\n", 200)
	cfg := DefaultConfig(store.ModeRAG)
	cfg.MaxChars = 500

	first := ChunkDocument(text, "txt", store.ModeRAG, cfg)
	second := ChunkDocument(text, "txt", store.ModeRAG, cfg)
	assert.Equal(t, first, second)
}

func TestParagraphPackingFlushesAtLimit(t *testing.T) {
	paragraphs := []string{
		strings.Repeat("a", 40),
		strings.Repeat("b", 40),
		strings.Repeat("c", 40),
	}
	text := strings.Join(paragraphs, "\n\n")

	cfg := DefaultConfig(store.ModeAnalysis)
	cfg.MaxChars = 90

	chunks := ChunkDocument(text, "txt", store.ModeAnalysis, cfg)
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0], paragraphs[0])
	assert.Contains(t, chunks[0], paragraphs[1])
	assert.Equal(t, paragraphs[2], chunks[1])
}

// Concatenating paragraph-mode chunks must reconstruct the paragraph
// sequence: nothing dropped, nothing reordered.
func TestParagraphCoverage(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 25; i++ {
		paragraphs = append(paragraphs, strings.Repeat(string(rune('a'+i%26)), 30+i))
	}
	text := strings.Join(paragraphs, "\n\n")

	for _, mode := range []store.ChunkMode{store.ModeTranslation, store.ModeAnalysis, store.ModeComparison, store.ModeSummarization} {
		cfg := DefaultConfig(mode)
		cfg.MaxChars = 120

		chunks := ChunkDocument(text, "txt", mode, cfg)
		joined := strings.Join(chunks, "\n\n")
		assert.Equal(t, text, joined, "mode %s", mode)
	}
}

func TestOversizedParagraphEmittedWhole(t *testing.T) {
	big := strings.Repeat("x", 5_000) // no sentence breaks, no blank lines
	cfg := DefaultConfig(store.ModeTranslation)
	cfg.MaxChars = 1_000

	chunks := ChunkDocument(big, "txt", store.ModeTranslation, cfg)
	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 5_000)
}

func TestRAGSplitsOversizedParagraphBySentence(t *testing.T) {
	sentence := "This is a fairly ordinary sentence about ultrasound probes. "
	paragraph := strings.TrimSpace(strings.Repeat(sentence, 50))

	cfg := DefaultConfig(store.ModeRAG)
	cfg.MaxChars = 300

	chunks := ChunkDocument(paragraph, "txt", store.ModeRAG, cfg)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 300+len(sentence))
	}
}

// 45k characters in 3 paragraphs of ~15k each with maxChars=20000: each
// paragraph fits, so rag mode must emit exactly 3 chunks.
func TestRAGThreeFittingParagraphs(t *testing.T) {
	p := strings.Repeat("word ", 3_000) // ~15000 chars, single paragraph
	text := strings.TrimSpace(p) + "\n\n" + strings.TrimSpace(p) + "\n\n" + strings.TrimSpace(p)

	cfg := DefaultConfig(store.ModeRAG)
	cfg.MaxChars = 20_000

	chunks := ChunkDocument(text, "txt", store.ModeRAG, cfg)
	assert.Len(t, chunks, 3)
}

func TestExtractionCapClamp(t *testing.T) {
	sentence := "Short factual sentence number one. "
	long := strings.TrimSpace(strings.Repeat(sentence, 400)) // ~14k chars
	parts := []string{long}
	for i := 0; i < 10; i++ {
		parts = append(parts, "A brief filler paragraph.") // keeps avg paragraph length low
	}
	text := strings.Join(parts, "\n\n")

	cfg := DefaultConfig(store.ModeExtraction)
	cfg.MaxChars = 50_000 // clamped to 5000 internally

	chunks := ChunkDocument(text, "txt", store.ModeExtraction, cfg)
	require.Greater(t, len(chunks), 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 5_000+len(sentence))
	}
}

func TestSummarizationUsesDoubledCap(t *testing.T) {
	paragraphs := make([]string, 6)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("s", 900)
	}
	text := strings.Join(paragraphs, "\n\n")

	cfg := DefaultConfig(store.ModeSummarization)
	cfg.MaxChars = 2_000 // effective cap 4000

	sumChunks := ChunkDocument(text, "txt", store.ModeSummarization, cfg)

	cfgA := DefaultConfig(store.ModeAnalysis)
	cfgA.MaxChars = 2_000
	anaChunks := ChunkDocument(text, "txt", store.ModeAnalysis, cfgA)

	assert.Less(t, len(sumChunks), len(anaChunks))
}

func TestPDFPageSplitting(t *testing.T) {
	text := "intro line\n Page 1 \nfirst page body here.\n Page 2 \nsecond page body here."
	cfg := DefaultConfig(store.ModeRAG)

	chunks := ChunkDocument(text, "pdf", store.ModeRAG, cfg)
	require.Len(t, chunks, 3)
	assert.Equal(t, "intro line", chunks[0])
}

func TestPresentationSlidesBecomeChunks(t *testing.T) {
	text := "deck title\n Slide 1 \nagenda items\n Slide 2 \nclosing remarks"
	chunks := ChunkDocument(text, "pptx", store.ModeAnalysis, DefaultConfig(store.ModeAnalysis))
	assert.Equal(t, []string{"deck title", "agenda items", "closing remarks"}, chunks)
}

func TestJSONArrayPacking(t *testing.T) {
	text := `[{"id":1,"name":"alpha"},{"id":2,"name":"beta"},{"id":3,"name":"gamma"}]`
	cfg := DefaultConfig(store.ModeRAG)
	cfg.MaxChars = 30

	chunks := ChunkDocument(text, "json", store.ModeRAG, cfg)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.Contains(t, c, "id")
	}
}

func TestMalformedJSONFallsBack(t *testing.T) {
	text := "this is { not json at all. But it has sentences! And paragraphs too."
	chunks := ChunkDocument(text, "json", store.ModeRAG, DefaultConfig(store.ModeRAG))
	assert.NotEmpty(t, chunks)
}

func TestAdaptiveLongUnstructuredUsesCharacterSlicing(t *testing.T) {
	// One 30k-char paragraph with no blank lines: adaptive path should
	// fall back to fixed-size slices with overlap.
	text := strings.Repeat("abcdefghij", 3_000)
	cfg := DefaultConfig(store.ModeAnalysis)
	cfg.MaxChars = 8_000
	cfg.Overlap = 200
	cfg.MinChunkSize = 1_000

	chunks := ChunkDocument(text, "txt", store.ModeAnalysis, cfg)
	require.Greater(t, len(chunks), 2)
	// overlap: end of chunk N reappears at the start of chunk N+1
	tail := chunks[0][len(chunks[0])-200:]
	assert.True(t, strings.HasPrefix(chunks[1], tail))
}

func TestFileTypeOf(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.pdf", "pdf"},
		{"deck.PPTX", "pptx"},
		{"deck.ppt", "pptx"},
		{"data.json", "json"},
		{"notes.md", "txt"},
		{"table.csv", "txt"},
		{"noextension", "txt"},
		{"", "txt"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, FileTypeOf(tt.filename))
		})
	}
}
