package openai

import (
	"context"
	"fmt"
	"strings"

	"fubot-be/pkg/llm"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const providerName = "openai"

// Provider talks to any OpenAI-compatible /chat/completions endpoint.
type Provider struct {
	client openai.Client
	model  string
}

var _ llm.LLMProvider = &Provider{}

// NewProvider builds a Chat Completions client. An empty baseURL keeps the
// SDK default (api.openai.com). Failures are never retried; extra request
// options come last and can override that.
func NewProvider(apiKey, baseURL, model string, opts ...option.RequestOption) *Provider {
	base := []option.RequestOption{option.WithMaxRetries(0)}
	if apiKey != "" {
		base = append(base, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		base = append(base, option.WithBaseURL(baseURL))
	}
	return &Provider{
		client: openai.NewClient(append(base, opts...)...),
		model:  model,
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{
		Model:       p.model,
		Temperature: 0.7,
	}, options...)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case llm.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case llm.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(opts.Model),
		Messages:    messages,
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", llm.Upstream(providerName, err)
	}
	if len(completion.Choices) == 0 {
		return "", llm.Upstream(providerName, fmt.Errorf("empty choices"))
	}
	return completion.Choices[0].Message.Content, nil
}
