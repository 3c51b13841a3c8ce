package agent

import (
	"fmt"

	"ai-docchat-be/pkg/store"
)

// MissingDocumentError means a document task was requested with nothing to
// run it on: no upload, no cached documents, and for translation no inline
// text or usable history. The message is user-facing.
type MissingDocumentError struct {
	Task store.Task
}

func (e *MissingDocumentError) Error() string {
	switch e.Task {
	case store.TaskTranslate:
		return "Translation tasks require one of the following:\n" +
			"1. An attached file with content\n" +
			"2. A previously uploaded file in this session\n" +
			"3. Text in the query (e.g., 'translate: Hello world')\n" +
			"4. Text in quotes (e.g., 'translate \"How are you?\" to Chinese')\n" +
			"5. Chat history (previous conversation)"
	case store.TaskCompare:
		return "Comparison tasks require at least one document. Please upload a file " +
			"or use documents from previous conversation turns."
	default:
		return fmt.Sprintf("%s tasks require an attached file with content.", e.Task)
	}
}

// InvalidSelectionError means a disambiguation reply did not resolve to any
// cached document. The message is user-facing; the pending selection stays
// active so the user can answer again.
type InvalidSelectionError struct {
	Selection string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("Invalid file selection '%s'. Please try again with a valid number, 'all', or 'latest'.", e.Selection)
}
