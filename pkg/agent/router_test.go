package agent

import (
	"context"
	"sort"
	"strings"
	"testing"

	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/retrieval"
	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	calls [][]llm.Message
	reply string
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.calls = append(f.calls, history)
	return f.reply, nil
}

func (f *fakeLLM) ChatStream(_ context.Context, history []llm.Message, _ ...llm.Option) (<-chan string, error) {
	f.calls = append(f.calls, history)
	return staticStream(f.reply), nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (f *fakeLLM) lastUserContent(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.calls)
	last := f.calls[len(f.calls)-1]
	require.NotEmpty(t, last)
	return last[len(last)-1].Content
}

type fakeCache struct {
	chunks  map[string][]string
	names   map[string]string
	indexes map[string]retrieval.Artifacts
	lastKey string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		chunks:  make(map[string][]string),
		names:   make(map[string]string),
		indexes: make(map[string]retrieval.Artifacts),
	}
}

func (c *fakeCache) PutChunks(_, _, key, name string, chunks []string) error {
	c.chunks[key] = chunks
	c.names[key] = name
	return nil
}

func (c *fakeCache) GetChunks(_, _, key string) ([]string, string, bool) {
	chunks, ok := c.chunks[key]
	return chunks, c.names[key], ok
}

func (c *fakeCache) PutIndex(_, _, key string, arts retrieval.Artifacts) error {
	c.indexes[key] = arts
	return nil
}

func (c *fakeCache) GetIndex(_, _, key string) (retrieval.Artifacts, bool) {
	arts, ok := c.indexes[key]
	return arts, ok
}

func (c *fakeCache) ListAll(_, _ string) ([]store.CachedDocument, error) {
	var docs []store.CachedDocument
	for key, chunks := range c.chunks {
		docs = append(docs, store.CachedDocument{Key: key, Name: c.names[key], Chunks: chunks})
	}
	sort.Slice(docs, func(a, b int) bool { return docs[a].Key < docs[b].Key })
	return docs, nil
}

func (c *fakeCache) SetLastKey(_, _, key string) error { c.lastKey = key; return nil }

func (c *fakeCache) GetLastKey(_, _ string) (string, bool) { return c.lastKey, c.lastKey != "" }

type fakeSelections struct {
	byID map[string]*store.PendingSelection
}

func newFakeSelections() *fakeSelections {
	return &fakeSelections{byID: make(map[string]*store.PendingSelection)}
}

func (s *fakeSelections) Save(sel *store.PendingSelection) { s.byID[sel.SessionID] = sel }

func (s *fakeSelections) Get(id string) (*store.PendingSelection, bool) {
	sel, ok := s.byID[id]
	return sel, ok
}

func (s *fakeSelections) Delete(id string) { delete(s.byID, id) }

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}

type agentFixture struct {
	agent      *Agent
	llm        *fakeLLM
	cache      *fakeCache
	selections *fakeSelections
}

func newFixture() *agentFixture {
	f := &agentFixture{
		llm:        &fakeLLM{reply: "model answer"},
		cache:      newFakeCache(),
		selections: newFakeSelections(),
	}
	f.agent = New(f.llm, f.cache, f.selections, nopLogger{}, 16384)
	return f
}

func (f *agentFixture) seedDoc(key, name string, chunks ...string) {
	f.cache.chunks[key] = chunks
	f.cache.names[key] = name
}

func run(t *testing.T, f *agentFixture, in Input) *Response {
	t.Helper()
	in.UserID = "u1"
	if in.SessionID == "" {
		in.SessionID = "s1"
	}
	resp, err := f.agent.Run(context.Background(), in)
	require.NoError(t, err)
	return resp
}

func TestSummarizeWithMultipleCachedDocsPrompts(t *testing.T) {
	f := newFixture()
	f.seedDoc("aaa_rag", "handbook.pdf", "handbook body")
	f.seedDoc("bbb_analysis", "contract.txt", "contract body")

	resp := run(t, f, Input{Query: "summarize the document"})
	require.True(t, resp.IsPrompt)
	assert.Contains(t, resp.Answer, "1. handbook.pdf (13 characters)")
	assert.Contains(t, resp.Answer, "2. contract.txt")
	assert.Contains(t, resp.Answer, "'latest'")
	assert.Empty(t, f.llm.calls, "no model call before the user picks")

	pending, ok := f.selections.Get("s1")
	require.True(t, ok)
	assert.Equal(t, store.TaskSummarize, pending.Task)
	assert.Equal(t, "summarize the document", pending.OriginalQuery)
}

func TestSelectionReplyResumesOriginalTask(t *testing.T) {
	f := newFixture()
	f.seedDoc("aaa_rag", "handbook.pdf", "handbook body text")
	f.seedDoc("bbb_analysis", "contract.txt", "contract body text")
	f.selections.Save(&store.PendingSelection{
		SessionID:     "s1",
		Task:          store.TaskSummarize,
		OriginalQuery: "summarize the document",
	})

	resp := run(t, f, Input{Query: "2"})
	require.False(t, resp.IsPrompt)
	assert.Equal(t, store.TaskSummarize, resp.Task)
	assert.Equal(t, "model answer", resp.Answer)
	assert.Contains(t, f.llm.lastUserContent(t), "contract body text")
	assert.NotContains(t, f.llm.lastUserContent(t), "handbook body text")

	_, stillPending := f.selections.Get("s1")
	assert.False(t, stillPending, "pending selection consumed")
}

func TestInvalidSelectionReplyKeepsPending(t *testing.T) {
	f := newFixture()
	f.seedDoc("aaa_rag", "handbook.pdf", "handbook body")
	f.seedDoc("bbb_analysis", "contract.txt", "contract body")
	f.selections.Save(&store.PendingSelection{
		SessionID:     "s1",
		Task:          store.TaskSummarize,
		OriginalQuery: "summarize the document",
	})

	resp := run(t, f, Input{Query: "9"})
	require.True(t, resp.IsPrompt)
	assert.Contains(t, resp.Answer, "Invalid file selection '9'")

	_, stillPending := f.selections.Get("s1")
	assert.True(t, stillPending, "user can answer again")
}

func TestNonSelectionTurnClearsPendingSelection(t *testing.T) {
	f := newFixture()
	f.seedDoc("aaa_rag", "handbook.pdf", "handbook body")
	f.seedDoc("bbb_analysis", "contract.txt", "contract body")

	resp := run(t, f, Input{Query: "summarize the document"})
	require.True(t, resp.IsPrompt)

	resp = run(t, f, Input{Query: "how many moons does mars have?"})
	require.False(t, resp.IsPrompt)
	assert.Equal(t, store.TaskQA, resp.Task)

	_, stillPending := f.selections.Get("s1")
	assert.False(t, stillPending, "unanswered prompt cleared on the next turn")

	// A bare number later on must not resume the abandoned summarize task.
	resp = run(t, f, Input{Query: "2"})
	assert.NotEqual(t, store.TaskSummarize, resp.Task)
	assert.Equal(t, store.TaskCompare, resp.Task)
}

func TestSelectionFallbackUsesPriorQuestionAsFocus(t *testing.T) {
	f := newFixture()
	f.seedDoc("aaa_rag", "v1.txt", "first version body")
	f.seedDoc("bbb_rag", "v2.txt", "second version body")

	resp := run(t, f, Input{
		Query: "1,2",
		History: []llm.Message{
			{Role: "user", Content: "what changed between the versions?"},
			{Role: "assistant", Content: "Which documents should I compare?"},
		},
	})
	require.False(t, resp.IsPrompt)
	assert.Equal(t, store.TaskCompare, resp.Task)

	content := f.llm.lastUserContent(t)
	assert.Contains(t, content, "what changed between the versions?")
	assert.NotContains(t, content, "focusing on: 1,2")
}

func TestCompareAutoSelectsAllCachedDocs(t *testing.T) {
	f := newFixture()
	f.seedDoc("aaa_rag", "v1.txt", "first version body")
	f.seedDoc("bbb_rag", "v2.txt", "second version body")

	resp := run(t, f, Input{Query: "compare the two versions"})
	require.False(t, resp.IsPrompt)
	assert.Equal(t, store.TaskCompare, resp.Task)

	content := f.llm.lastUserContent(t)
	assert.Contains(t, content, "--- Document 1 ---")
	assert.Contains(t, content, "--- Document 2 ---")
	assert.Contains(t, content, "first version body")
	assert.Contains(t, content, "second version body")
}

func TestCompareWithNothingFails(t *testing.T) {
	f := newFixture()
	_, err := f.agent.Run(context.Background(), Input{UserID: "u1", SessionID: "s1", Query: "compare the proposals"})
	var missing *MissingDocumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, store.TaskCompare, missing.Task)
}

func TestAnalyzeWithoutAnyDocumentFails(t *testing.T) {
	f := newFixture()
	_, err := f.agent.Run(context.Background(), Input{UserID: "u1", SessionID: "s1", Query: "analyze the trends"})
	var missing *MissingDocumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, store.TaskAnalyze, missing.Task)
}

func TestQAWithUploadRetrievesAndMergesSessionContext(t *testing.T) {
	f := newFixture()
	f.seedDoc("old1_rag", "earlier.txt", "cached one", "cached two", "cached three")

	fileText := "Probes emit sound waves.\n\nMaintenance requires cleaning.\n\nStorage must stay dry."
	resp := run(t, f, Input{
		Query:    "how are probes maintained?",
		FileText: fileText,
		FileName: "manual.txt",
		FileHash: "abcdef0123456789",
	})
	require.False(t, resp.IsPrompt)
	assert.Equal(t, store.TaskQA, resp.Task)

	// Upload was chunked, cached, indexed, and marked most recent.
	key := "abcdef0123456789_rag"
	_, _, ok := f.cache.GetChunks("u1", "s1", key)
	assert.True(t, ok)
	_, ok = f.cache.GetIndex("u1", "s1", key)
	assert.True(t, ok)
	assert.Equal(t, key, f.cache.lastKey)

	content := f.llm.lastUserContent(t)
	assert.Contains(t, content, "Maintenance requires cleaning.")
	// Session merge contributes at most two chunks per cached doc.
	assert.Contains(t, content, "cached one")
	assert.Contains(t, content, "cached two")
	assert.NotContains(t, content, "cached three")
	// Current upload context precedes session context.
	assert.Less(t, strings.Index(content, "Maintenance requires cleaning."), strings.Index(content, "cached one"))
}

func TestQAWithoutAnyContextAnswersFromKnowledge(t *testing.T) {
	f := newFixture()

	resp := run(t, f, Input{Query: "who wrote hamlet?"})
	require.False(t, resp.IsPrompt)
	assert.Equal(t, "model answer"+GuidanceNote, resp.Answer)
	assert.Contains(t, f.llm.lastUserContent(t), "based on your knowledge")
}

func TestQAAboutFileContentUsesWholeSessionCache(t *testing.T) {
	f := newFixture()
	f.seedDoc("old1_rag", "earlier.txt", "warranty lasts two years", "returns within 30 days")

	resp := run(t, f, Input{Query: "according to the document, how long is the warranty?"})
	require.False(t, resp.IsPrompt)
	assert.NotContains(t, resp.Answer, GuidanceNote)

	content := f.llm.lastUserContent(t)
	assert.Contains(t, content, "warranty lasts two years")
	assert.Contains(t, content, "returns within 30 days")
}

func TestTranslateInlineText(t *testing.T) {
	f := newFixture()

	resp := run(t, f, Input{Query: "translate: 超声波是什么"})
	require.False(t, resp.IsPrompt)
	assert.Equal(t, store.TaskTranslate, resp.Task)
	assert.Contains(t, f.llm.lastUserContent(t), "超声波是什么")
	assert.Contains(t, f.llm.lastUserContent(t), "TO ENGLISH")
}

func TestTranslateWithNothingFails(t *testing.T) {
	f := newFixture()
	_, err := f.agent.Run(context.Background(), Input{UserID: "u1", SessionID: "s1", Query: "translation please"})
	var missing *MissingDocumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, store.TaskTranslate, missing.Task)
}

func TestExplanationWithFileReroutesToQA(t *testing.T) {
	f := newFixture()
	resp := run(t, f, Input{
		Query:    "analyze and explain the advantages of single crystal probes",
		FileText: "Single crystal probes offer better resolution.\n\nThey cost more to make.",
		FileName: "probes.txt",
		FileHash: "1111222233334444",
	})
	assert.Equal(t, store.TaskQA, resp.Task)
}

func TestStreamingPromptArrivesAsStream(t *testing.T) {
	f := newFixture()
	f.seedDoc("aaa_rag", "one.txt", "body one")
	f.seedDoc("bbb_rag", "two.txt", "body two")

	resp := run(t, f, Input{Query: "summarize it", Stream: true})
	require.True(t, resp.IsPrompt)
	require.NotNil(t, resp.Stream)

	var full string
	for s := range resp.Stream {
		full += s
	}
	assert.Contains(t, full, "Multiple files found in this session")
}
