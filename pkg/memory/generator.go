package memory

import (
	"context"
	"errors"
	"strings"
	"time"

	"fubot-be/pkg/llm"
)

var ErrEmptyCompletion = errors.New("empty completion")

type GeneratorConfig struct {
	Model       string // empty keeps the provider default
	Temperature float64
	MaxTokens   int
	MaxChars    int // 0 disables rune truncation
	Timeout     time.Duration
}

// Generator wraps one completion call with the time, size and error policy
// shared by chat replies and summary refreshes.
type Generator struct {
	provider llm.LLMProvider
	name     string
	cfg      GeneratorConfig
}

func NewGenerator(provider llm.LLMProvider, name string, cfg GeneratorConfig) *Generator {
	return &Generator{
		provider: provider,
		name:     name,
		cfg:      cfg,
	}
}

// Complete returns the trimmed completion. Every failure, including a
// timeout and an empty answer, comes back as an *llm.UpstreamError.
func (g *Generator) Complete(ctx context.Context, msgs []llm.Message) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	opts := []llm.Option{llm.WithTemperature(g.cfg.Temperature)}
	if g.cfg.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(g.cfg.MaxTokens))
	}
	if g.cfg.Model != "" {
		opts = append(opts, llm.WithModel(g.cfg.Model))
	}

	out, err := g.provider.Chat(ctx, msgs, opts...)
	if err != nil {
		return "", llm.Upstream(g.name, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", llm.Upstream(g.name, ErrEmptyCompletion)
	}

	return TruncateRunes(out, g.cfg.MaxChars), nil
}
