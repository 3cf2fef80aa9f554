package factory

import (
	"fmt"

	"ai-trendboard-be/pkg/llm"
	"ai-trendboard-be/pkg/llm/ollama"
	"ai-trendboard-be/pkg/llm/openai"
)

// NewProvider selects the generative backend. An empty providerType
// means the hosted default.
func NewProvider(providerType, chatModel, imageModel, baseURL string) (llm.Provider, error) {
	switch providerType {
	case "", "openai":
		return openai.NewOpenAIProvider(chatModel, imageModel), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, chatModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
