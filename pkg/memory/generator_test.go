package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fubot-be/pkg/llm"
	"fubot-be/pkg/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorPassesOptionsAndTruncates(t *testing.T) {
	fake := &llmtest.Fake{Reply: "  Hello from FuBot in Berlin  "}
	g := NewGenerator(fake, "test", GeneratorConfig{
		Model:       "gpt-4o",
		Temperature: 0.7,
		MaxTokens:   800,
		MaxChars:    16,
	})

	out, err := g.Complete(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "Hello"}})
	require.NoError(t, err)
	assert.Equal(t, "Hello from FuBot", out)

	call, ok := fake.LastCall()
	require.True(t, ok)
	assert.Equal(t, 0.7, call.Options.Temperature)
	assert.Equal(t, 800, call.Options.MaxTokens)
	assert.Equal(t, "gpt-4o", call.Options.Model)
}

func TestGeneratorFailuresAreUpstream(t *testing.T) {
	ctx := context.Background()
	msgs := []llm.Message{{Role: llm.RoleUser, Content: "Hello"}}

	_, err := NewGenerator(&llmtest.Fake{Err: errors.New("connection reset")}, "test", GeneratorConfig{}).Complete(ctx, msgs)
	assert.True(t, llm.IsUpstream(err))

	_, err = NewGenerator(&llmtest.Fake{Reply: "   "}, "test", GeneratorConfig{}).Complete(ctx, msgs)
	assert.True(t, llm.IsUpstream(err))
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestGeneratorTimeout(t *testing.T) {
	fake := &llmtest.Fake{Respond: func(ctx context.Context, _ []llm.Message) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	g := NewGenerator(fake, "test", GeneratorConfig{Timeout: 20 * time.Millisecond})

	_, err := g.Complete(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "Hello"}})
	require.Error(t, err)
	assert.True(t, llm.IsUpstream(err))
	assert.True(t, llm.IsTimeout(err))
}
