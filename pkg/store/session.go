package store

// ChunkMode selects how a document is split for a given task. Chunking and
// caching behavior branch on this value exactly once, at the top of the
// pipeline.
type ChunkMode string

const (
	ModeTranslation   ChunkMode = "translation"
	ModeRAG           ChunkMode = "rag"
	ModeAnalysis      ChunkMode = "analysis"
	ModeSummarization ChunkMode = "summarization"
	ModeExtraction    ChunkMode = "extraction"
	ModeComparison    ChunkMode = "comparison"
)

// Task is the user-facing intent detected from a query.
type Task string

const (
	TaskTranslate Task = "translate"
	TaskSummarize Task = "summarize"
	TaskAnalyze   Task = "analyze"
	TaskExtract   Task = "extract"
	TaskCompare   Task = "compare"
	TaskQA        Task = "qa"
)

// ChunkModeFor maps a task to the chunking mode its pipeline requests.
func ChunkModeFor(task Task) ChunkMode {
	switch task {
	case TaskTranslate:
		return ModeTranslation
	case TaskSummarize:
		return ModeSummarization
	case TaskAnalyze:
		return ModeAnalysis
	case TaskExtract:
		return ModeExtraction
	case TaskCompare:
		return ModeComparison
	default:
		return ModeRAG
	}
}

// CachedDocument is one document's chunk set for one mode, as enumerated
// from the session cache.
type CachedDocument struct {
	Key    string   `json:"key"` // "<16-hex-hash>_<mode>"
	Name   string   `json:"name"`
	Chunks []string `json:"chunks"`
}

// Size returns the total character count across chunks. Shown to the user
// in disambiguation prompts.
func (d CachedDocument) Size() int {
	n := 0
	for _, c := range d.Chunks {
		n += len(c)
	}
	return n
}

// PendingSelection parks a disambiguation between the prompt turn and the
// reply turn. It is session-scoped and expires; it must never live on the
// agent instance (two sessions would cross-contaminate).
type PendingSelection struct {
	SessionID     string `json:"session_id"`
	Task          Task   `json:"task"`
	OriginalQuery string `json:"original_query"`
}
