package agent

import (
	"context"
	"strings"

	"ai-docchat-be/pkg/agent/intent"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/store"
)

// Run processes one user turn. The routing order matters: a pending
// selection reply is resolved before intent detection would misread "1,3"
// as a fresh query, and explanation-style analysis requests are rerouted
// to retrieval before dispatch.
func (a *Agent) Run(ctx context.Context, in Input) (*Response, error) {
	task := intent.Detect(in.Query)

	docs, err := a.cache.ListAll(in.UserID, in.SessionID)
	if err != nil {
		return nil, err
	}

	var selected []store.CachedDocument
	if pending, ok := a.selections.Get(in.SessionID); ok {
		if !LooksLikeSelection(in.Query) {
			// The user moved on without answering the prompt. Clear the
			// parked task now so a later bare numeric reply to some other
			// question cannot resurrect it.
			a.selections.Delete(in.SessionID)
			a.log.Info("agent", "cleared unanswered document selection", map[string]interface{}{
				"session_id": in.SessionID,
				"task":       string(pending.Task),
			})
		} else {
			lastKey, _ := a.cache.GetLastKey(in.UserID, in.SessionID)
			selected = ParseSelection(in.Query, docs, lastKey)
			if len(selected) == 0 {
				// Keep the pending selection so the user can answer again.
				return a.respondText(in, pending.Task, (&InvalidSelectionError{Selection: in.Query}).Error(), true), nil
			}
			a.selections.Delete(in.SessionID)
			task = pending.Task
			in.Query = pending.OriginalQuery
			a.log.Info("agent", "resolved pending document selection", map[string]interface{}{
				"session_id": in.SessionID,
				"task":       string(task),
				"selected":   len(selected),
			})
		}
	} else if len(docs) >= 2 && LooksLikeSelection(in.Query) {
		// No pending record survived (expired or lost) but the message
		// still reads as a selection over multiple cached documents.
		// Resolve it as a comparison, the broadest interpretation, and
		// recover the question the digits were answering as its focus.
		lastKey, _ := a.cache.GetLastKey(in.UserID, in.SessionID)
		if picked := ParseSelection(in.Query, docs, lastKey); len(picked) > 0 {
			selected = picked
			task = store.TaskCompare
			in.Query = lastSubstantiveQuery(in.History)
		}
	}

	if task == store.TaskAnalyze && in.FileText != "" && intent.ShouldUseRAG(in.Query) {
		a.log.Info("agent", "explanation request with file, rerouting analysis to retrieval", nil)
		task = store.TaskQA
	}

	switch task {
	case store.TaskTranslate:
		return a.runTranslate(ctx, in, docs, selected)
	case store.TaskSummarize, store.TaskAnalyze, store.TaskExtract:
		return a.runSingleDocTask(ctx, in, task, docs, selected)
	case store.TaskCompare:
		return a.runCompare(ctx, in, docs, selected)
	default:
		return a.runQA(ctx, in, docs)
	}
}

const fileSeparator = "\n\n--- FILE SEPARATOR ---\n\n"

// lastSubstantiveQuery recovers the question a bare selection reply was
// answering. A comparison prompt built from the raw digits would ask the
// model to focus on "1,3".
func lastSubstantiveQuery(history []llm.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Role == "user" && m.Content != "" && !LooksLikeSelection(m.Content) {
			return m.Content
		}
	}
	return "the key similarities and differences"
}

// resolveDocument finds the text a single-document task should run on.
// Exactly one of the returns is set: text+hash when a document resolved, a
// prompt response when the user must pick between cached documents, or a
// MissingDocumentError when there is nothing to run on.
func (a *Agent) resolveDocument(in Input, task store.Task, docs []store.CachedDocument, selected []store.CachedDocument) (text, hash string, prompt *Response, err error) {
	if in.FileText != "" {
		return in.FileText, in.FileHash, nil, nil
	}

	if len(selected) > 0 {
		parts := make([]string, len(selected))
		for i, d := range selected {
			parts[i] = strings.Join(d.Chunks, "\n\n")
		}
		text = strings.Join(parts, fileSeparator)
		return text, store.HashBytes([]byte(text)), nil, nil
	}

	switch len(docs) {
	case 0:
		return "", "", nil, &MissingDocumentError{Task: task}
	case 1:
		text = strings.Join(docs[0].Chunks, "\n\n")
		// Reuse the cached document's content hash so the per-mode cache
		// entries line up under the same document.
		hash = strings.SplitN(docs[0].Key, "_", 2)[0]
		return text, hash, nil, nil
	default:
		a.selections.Save(&store.PendingSelection{
			SessionID:     in.SessionID,
			Task:          task,
			OriginalQuery: in.Query,
		})
		return "", "", a.respondText(in, task, SelectionPrompt(task, docs), true), nil
	}
}
