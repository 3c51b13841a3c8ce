package chunker

import (
	"regexp"
	"strings"

	"ai-docchat-be/pkg/store"
)

var paragraphSep = regexp.MustCompile(`\n\s*\n`)

// ChunkDocument splits text for the given mode and file type. It is pure
// and deterministic: the same inputs always yield the same chunks, and an
// empty input yields no chunks.
//
// pdf/pptx/json inputs go through structural splitting first; translation
// always takes the semantic path with a clamped cap; everything else uses
// the adaptive strategy.
func ChunkDocument(text, fileType string, mode store.ChunkMode, cfg Config) []string {
	if text == "" {
		return nil
	}
	cfg = cfg.withDefaults()
	cfg.Mode = mode

	switch strings.ToLower(fileType) {
	case "pdf", "pptx", "json":
		return chunkByFileType(text, strings.ToLower(fileType), cfg)
	}

	if mode == store.ModeTranslation {
		if cfg.MaxChars > translationCap {
			cfg.MaxChars = translationCap
		}
		return chunkSemantic(text, cfg)
	}
	return chunkAdaptive(text, cfg)
}

// chunkSemantic respects paragraph and sentence boundaries, with per-mode
// packing behavior.
func chunkSemantic(text string, cfg Config) []string {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	switch cfg.Mode {
	case store.ModeRAG:
		return packSentenceAware(paragraphs, cfg.MaxChars)
	case store.ModeExtraction:
		return packSentencesPerParagraph(paragraphs, minInt(cfg.MaxChars, extractionCap))
	case store.ModeSummarization:
		return packParagraphs(paragraphs, minInt(cfg.MaxChars*2, summarizationCap))
	default:
		// translation, analysis, comparison: whole paragraphs only
		return packParagraphs(paragraphs, cfg.MaxChars)
	}
}

// packParagraphs greedily accumulates whole paragraphs up to maxChars.
// A single paragraph larger than maxChars is emitted as one oversized
// chunk; paragraphs are never split here.
func packParagraphs(paragraphs []string, maxChars int) []string {
	var chunks []string
	var current strings.Builder

	for _, p := range paragraphs {
		if current.Len() > 0 && current.Len()+len(p) > maxChars {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// packSentenceAware emits fitting paragraphs whole and splits oversized
// ones into greedily packed sentences.
func packSentenceAware(paragraphs []string, maxChars int) []string {
	var chunks []string
	for _, p := range paragraphs {
		if len(p) <= maxChars {
			chunks = append(chunks, p)
			continue
		}
		chunks = append(chunks, packSentences(splitSentences(p), maxChars)...)
	}
	return chunks
}

// packSentencesPerParagraph splits every paragraph into sentences and packs
// them, flushing at each paragraph boundary. Small chunks, high precision.
func packSentencesPerParagraph(paragraphs []string, maxChars int) []string {
	var chunks []string
	for _, p := range paragraphs {
		chunks = append(chunks, packSentences(splitSentences(p), maxChars)...)
	}
	return chunks
}

func packSentences(sentences []string, maxChars int) []string {
	var chunks []string
	var current strings.Builder

	for _, s := range sentences {
		if current.Len() > 0 && current.Len()+len(s) > maxChars {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(s)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// chunkCharacters is the fixed-size fallback for unstructured text: rune
// slices of MaxChars with Overlap carried between consecutive chunks.
// Chunks below MinChunkSize are dropped (trailing fragments of no use to
// the model).
func chunkCharacters(text string, cfg Config) []string {
	runes := []rune(text)
	total := len(runes)
	if total == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < total {
		end := start + cfg.MaxChars
		if end > total {
			end = total
		}
		chunk := string(runes[start:end])
		if len(chunk) >= cfg.MinChunkSize {
			chunks = append(chunks, chunk)
		}
		if end == total {
			break
		}
		start = end - cfg.Overlap
		if start < 0 {
			start = 0
		}
	}
	return chunks
}

// chunkAdaptive inspects the text shape and picks a strategy: very long
// unstructured paragraphs get plain fixed-size slicing, typical prose gets
// the semantic splitter.
func chunkAdaptive(text string, cfg Config) []string {
	stats := analyzeText(text)
	if stats.avgParagraphLen > 5_000 {
		return chunkCharacters(text, cfg)
	}
	return chunkSemantic(text, cfg)
}

type textStats struct {
	totalLen        int
	paragraphCount  int
	sentenceCount   int
	avgParagraphLen float64
}

func analyzeText(text string) textStats {
	paragraphs := paragraphSep.Split(text, -1)
	sentences := splitSentences(text)
	s := textStats{
		totalLen:       len(text),
		paragraphCount: len(paragraphs),
		sentenceCount:  len(sentences),
	}
	s.avgParagraphLen = float64(len(text)) / float64(maxInt(len(paragraphs), 1))
	return s
}

func splitParagraphs(text string) []string {
	parts := paragraphSep.Split(text, -1)
	out := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitSentences breaks on '.', '!' or '?' followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes)-1; i++ {
		switch runes[i] {
		case '.', '!', '?':
			if isSpace(runes[i+1]) {
				if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
					sentences = append(sentences, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
