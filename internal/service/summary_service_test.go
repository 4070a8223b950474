package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"fubot-be/internal/dto"
	"fubot-be/internal/pkg/logger"
	"fubot-be/internal/repository/specification"
	"fubot-be/pkg/llm"
	"fubot-be/pkg/llm/llmtest"
	"fubot-be/pkg/lock"
	"fubot-be/pkg/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "REFRESH_CONTEXT_SUMMARY"

func TestSummaryRefreshThroughQueue(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	nop := logger.NewNopLogger()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	summaryLLM := &llmtest.Fake{Respond: func(_ context.Context, msgs []llm.Message) (string, error) {
		if strings.Contains(msgs[1].Content, "How are you") {
			return "The user greeted FuBot and asked how it was doing.", nil
		}
		return "The user greeted FuBot.", nil
	}}
	summarizer := memory.NewSummarizer(factory, memory.NewGenerator(summaryLLM, "test", memory.GeneratorConfig{}), 5, 150, nop)
	consumer := NewSummaryConsumer(pubSub, testTopic, summarizer, lock.NewMemoryCoordinator(), 2, time.Minute, nop)
	require.NoError(t, consumer.Consume(ctx))

	chatLLM := &llmtest.Fake{Reply: "Hi there"}
	chat := NewChatService(factory,
		memory.NewGenerator(chatLLM, "test", memory.GeneratorConfig{}),
		NewSummaryScheduler(pubSub, testTopic),
		nil, 5, nop)
	passcodes := NewPasscodeService(factory, nil, false, nop)

	_, err := passcodes.Register(ctx, "ABC123")
	require.NoError(t, err)

	_, err = chat.SendChat(ctx, &dto.ChatRequest{Passcode: "ABC123", Message: "Hello"})
	require.NoError(t, err)
	_, err = chat.SendChat(ctx, &dto.ChatRequest{Passcode: "ABC123", Message: "How are you"})
	require.NoError(t, err)

	// The refresh that ran last saw the newest exchange.
	require.Eventually(t, func() bool {
		user, err := factory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByPasscode{Passcode: "ABC123"})
		return err == nil && user != nil && user.Summary() == "The user greeted FuBot and asked how it was doing."
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, pubSub.Close())
	consumer.Wait()

	// The next chat sees the summary in its system prompt.
	_, err = chat.SendChat(ctx, &dto.ChatRequest{Passcode: "ABC123", Message: "Remember me?"})
	require.NoError(t, err)
	call, ok := chatLLM.LastCall()
	require.True(t, ok)
	assert.Contains(t, call.Messages[0].Content, "asked how it was doing")
}

func TestSendChatDoesNotWaitForSummaryRefresh(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	nop := logger.NewNopLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	started := make(chan struct{})
	unblock := make(chan struct{})
	var once sync.Once
	summaryLLM := &llmtest.Fake{Respond: func(ctx context.Context, _ []llm.Message) (string, error) {
		once.Do(func() { close(started) })
		select {
		case <-unblock:
			return "The user greeted FuBot twice.", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}}
	summarizer := memory.NewSummarizer(factory, memory.NewGenerator(summaryLLM, "test", memory.GeneratorConfig{}), 5, 150, nop)
	consumer := NewSummaryConsumer(pubSub, testTopic, summarizer, lock.NewMemoryCoordinator(), 2, time.Minute, nop)
	require.NoError(t, consumer.Consume(ctx))

	chat := NewChatService(factory,
		memory.NewGenerator(&llmtest.Fake{Reply: "Hi there"}, "test", memory.GeneratorConfig{}),
		NewSummaryScheduler(pubSub, testTopic),
		nil, 5, nop)
	_, err := NewPasscodeService(factory, nil, false, nop).Register(ctx, "ABC123")
	require.NoError(t, err)

	_, err = chat.SendChat(ctx, &dto.ChatRequest{Passcode: "ABC123", Message: "Hello"})
	require.NoError(t, err)

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("summary refresh never started")
	}

	// The refresh is parked inside the model call; the next exchange still completes.
	done := make(chan error, 1)
	go func() {
		_, err := chat.SendChat(ctx, &dto.ChatRequest{Passcode: "ABC123", Message: "Hello again"})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(unblock)
		t.Fatal("SendChat waited for the summary refresh")
	}

	history, err := chat.GetHistory(ctx, &dto.HistoryRequest{Passcode: "ABC123", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), history.Total)
	require.Len(t, history.History, 4)
	assert.Equal(t, "Hello again", history.History[2].Text)

	user, err := factory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByPasscode{Passcode: "ABC123"})
	require.NoError(t, err)
	assert.Empty(t, user.Summary())

	close(unblock)
	require.Eventually(t, func() bool {
		user, err := factory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByPasscode{Passcode: "ABC123"})
		return err == nil && user.Summary() == "The user greeted FuBot twice."
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, pubSub.Close())
	consumer.Wait()
}

func TestSummaryConsumerDropsDeletedUser(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	nop := logger.NewNopLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	summaryLLM := &llmtest.Fake{Reply: "unused"}
	summarizer := memory.NewSummarizer(factory, memory.NewGenerator(summaryLLM, "test", memory.GeneratorConfig{}), 5, 150, nop)
	consumer := NewSummaryConsumer(pubSub, testTopic, summarizer, lock.NewMemoryCoordinator(), 1, time.Minute, nop)
	require.NoError(t, consumer.Consume(ctx))

	scheduler := NewSummaryScheduler(pubSub, testTopic)
	require.NoError(t, scheduler.Schedule(ctx, "GONE"))

	require.Never(t, func() bool { return len(summaryLLM.Calls()) > 0 }, 200*time.Millisecond, 20*time.Millisecond)

	require.NoError(t, pubSub.Close())
	consumer.Wait()
}
