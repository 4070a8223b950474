package anthropic

import (
	"context"
	"fmt"
	"strings"

	"fubot-be/pkg/llm"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	providerName     = "anthropic"
	defaultMaxTokens = 1024
)

type Provider struct {
	client anthropic.Client
	model  string
}

var _ llm.LLMProvider = &Provider{}

// NewProvider builds a Messages API client. Failures are never retried.
// Extra request options (base URL) are mostly useful in tests.
func NewProvider(apiKey, model string, opts ...option.RequestOption) *Provider {
	base := []option.RequestOption{option.WithMaxRetries(0)}
	if apiKey != "" {
		base = append(base, option.WithAPIKey(apiKey))
	}
	return &Provider{
		client: anthropic.NewClient(append(base, opts...)...),
		model:  model,
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{
		Model:       p.model,
		Temperature: 0.7,
		MaxTokens:   defaultMaxTokens,
	}, options...)
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}

	// System prompts travel outside the message list in the Messages API.
	var system []anthropic.TextBlockParam
	messages := make([]anthropic.MessageParam, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case llm.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(opts.Model),
		MaxTokens:   int64(opts.MaxTokens),
		Messages:    messages,
		System:      system,
		Temperature: anthropic.Float(opts.Temperature),
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", llm.Upstream(providerName, err)
	}

	var out strings.Builder
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			out.WriteString(v.Text)
		}
	}
	if out.Len() == 0 {
		return "", llm.Upstream(providerName, fmt.Errorf("no text content (stop reason %q)", msg.StopReason))
	}
	return out.String(), nil
}
