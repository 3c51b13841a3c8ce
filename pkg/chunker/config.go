package chunker

import "ai-docchat-be/pkg/store"

// Config controls chunk sizing. Character counts approximate token budgets
// (no tokenizer is involved; 4 chars/token is assumed upstream).
type Config struct {
	Mode              store.ChunkMode
	MaxChars          int
	Overlap           int
	RespectSentences  bool
	RespectParagraphs bool
	MinChunkSize      int
	MaxChunkSize      int
}

const (
	defaultMaxChars     = 20_000
	defaultOverlap      = 200
	defaultMinChunkSize = 1_000
	defaultMaxChunkSize = 100_000

	// Mode-specific caps applied on top of MaxChars.
	summarizationCap = 50_000
	extractionCap    = 5_000
	translationCap   = 100_000
)

// DefaultConfig returns the baseline config for a mode.
func DefaultConfig(mode store.ChunkMode) Config {
	return Config{
		Mode:              mode,
		MaxChars:          defaultMaxChars,
		Overlap:           defaultOverlap,
		RespectSentences:  true,
		RespectParagraphs: true,
		MinChunkSize:      defaultMinChunkSize,
		MaxChunkSize:      defaultMaxChunkSize,
	}
}

// ConfigForTask returns the per-task tuning the agent uses. maxContextTokens
// only influences translation, which wants chunks as large as the model
// window allows.
func ConfigForTask(task store.Task, maxContextTokens int) Config {
	cfg := DefaultConfig(store.ChunkModeFor(task))
	switch task {
	case store.TaskTranslate:
		cfg.MaxChars = maxContextTokens * 4
	case store.TaskSummarize:
		cfg.MaxChars = 30_000
	case store.TaskAnalyze:
		cfg.MaxChars = 25_000
	case store.TaskExtract:
		cfg.MaxChars = 15_000
		cfg.Overlap = 100
	}
	return cfg
}

func (c Config) withDefaults() Config {
	if c.MaxChars <= 0 {
		c.MaxChars = defaultMaxChars
	}
	if c.MinChunkSize < 0 {
		c.MinChunkSize = 0
	}
	if c.Overlap < 0 {
		c.Overlap = 0
	}
	return c
}
