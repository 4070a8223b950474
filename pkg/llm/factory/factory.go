package factory

import (
	"fmt"

	"fubot-be/pkg/llm"
	"fubot-be/pkg/llm/anthropic"
	"fubot-be/pkg/llm/ollama"
	"fubot-be/pkg/llm/openai"
)

// Settings carries everything any backend might need.
type Settings struct {
	Provider      string
	Model         string
	OpenAIKey     string
	OpenAIBaseURL string
	AnthropicKey  string
	OllamaBaseURL string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "openai", "":
		if s.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		return openai.NewProvider(s.OpenAIKey, s.OpenAIBaseURL, s.Model), nil
	case "anthropic":
		if s.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		return anthropic.NewProvider(s.AnthropicKey, s.Model), nil
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
