package dto

// ChatRequest is one chat turn from the client. File fields are filled
// by the controller from the multipart upload; uploads are already
// extracted UTF-8 text.
type ChatRequest struct {
	Query    string `form:"query" validate:"required"`
	User     string `form:"user"`
	Session  string `form:"session"`
	Stream   bool   `form:"stream"`
	FileName string `form:"-"`
	FileData []byte `form:"-"`
}

// ChatResult is what the service hands back to the controller. Exactly
// one of Answer or Stream is set, matching the request's stream flag.
type ChatResult struct {
	Task     string
	Answer   string
	Stream   <-chan string
	IsPrompt bool
}

type ChatResponse struct {
	Task     string `json:"task"`
	Answer   string `json:"answer"`
	IsPrompt bool   `json:"is_prompt,omitempty"`
}

// StreamEvent is one SSE data payload.
type StreamEvent struct {
	Content string `json:"content"`
}

type ChatHistoryResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CachedDocumentResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Size int    `json:"size"`
}
