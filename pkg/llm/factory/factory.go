package factory

import (
	"fmt"
	"time"

	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "openai", "vllm":
		if baseURL == "" {
			baseURL = "http://localhost:8001/v1" // Default
		}
		return openai.NewOpenAIProvider(baseURL, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
