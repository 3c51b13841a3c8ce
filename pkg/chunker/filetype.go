package chunker

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	pdfPageSep   = regexp.MustCompile(`\n\s*Page \d+\s*\n`)
	pptxSlideSep = regexp.MustCompile(`\n\s*Slide \d+\s*\n`)
)

// FileTypeOf buckets a filename into one of the chunking file types.
// Unknown extensions are treated as plain text.
func FileTypeOf(filename string) string {
	if filename == "" {
		return "txt"
	}
	ext := "txt"
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		ext = strings.ToLower(filename[i+1:])
	}
	switch ext {
	case "pdf":
		return "pdf"
	case "pptx", "ppt":
		return "pptx"
	case "json":
		return "json"
	default:
		// md, rst, csv, xml and everything else chunk as text
		return "txt"
	}
}

// chunkByFileType tries structural markers first (page breaks, slide
// breaks, JSON array elements) and falls back to semantic chunking when
// the structure isn't there.
func chunkByFileType(text, fileType string, cfg Config) []string {
	switch fileType {
	case "pdf":
		return chunkPDF(text, cfg)
	case "pptx":
		return chunkPresentation(text, cfg)
	case "json":
		return chunkJSON(text, cfg)
	default:
		return chunkSemantic(text, cfg)
	}
}

// chunkPDF splits on page markers; each page is then chunked semantically
// on its own so no chunk spans a page boundary.
func chunkPDF(text string, cfg Config) []string {
	pages := pdfPageSep.Split(text, -1)
	if len(pages) == 1 {
		return chunkSemantic(text, cfg)
	}
	var chunks []string
	for _, page := range pages {
		if page = strings.TrimSpace(page); page != "" {
			chunks = append(chunks, chunkSemantic(page, cfg)...)
		}
	}
	return chunks
}

// chunkPresentation treats each slide as one chunk.
func chunkPresentation(text string, cfg Config) []string {
	slides := pptxSlideSep.Split(text, -1)
	if len(slides) == 1 {
		return chunkSemantic(text, cfg)
	}
	var chunks []string
	for _, slide := range slides {
		if slide = strings.TrimSpace(slide); slide != "" {
			chunks = append(chunks, slide)
		}
	}
	return chunks
}

// chunkJSON packs top-level array elements up to MaxChars. Non-array
// documents and malformed JSON fall back to semantic chunking rather than
// failing.
func chunkJSON(text string, cfg Config) []string {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return chunkSemantic(text, cfg)
	}

	var chunks []string
	var current strings.Builder
	for _, item := range items {
		s := string(item)
		if current.Len() > 0 && current.Len()+len(s) > cfg.MaxChars {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(s)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}
