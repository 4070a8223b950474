// Package llmtest provides a scripted LLMProvider for tests.
package llmtest

import (
	"context"
	"sync"

	"fubot-be/pkg/llm"
)

type Call struct {
	Messages []llm.Message
	Options  llm.Options
}

// Fake answers every call with Respond, or Reply/Err when Respond is nil.
type Fake struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Respond func(ctx context.Context, msgs []llm.Message) (string, error)
	calls   []Call
}

var _ llm.LLMProvider = &Fake{}

func (f *Fake) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	msgs := make([]llm.Message, len(history))
	copy(msgs, history)

	f.mu.Lock()
	f.calls = append(f.calls, Call{Messages: msgs, Options: llm.Apply(llm.Options{}, options...)})
	respond, reply, err := f.Respond, f.Reply, f.Err
	f.mu.Unlock()

	if respond != nil {
		return respond(ctx, msgs)
	}
	return reply, err
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *Fake) LastCall() (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}, false
	}
	return f.calls[len(f.calls)-1], true
}
