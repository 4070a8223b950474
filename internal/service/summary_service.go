package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"fubot-be/internal/dto"
	"fubot-be/internal/pkg/logger"
	"fubot-be/pkg/lock"
	"fubot-be/pkg/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ISummaryScheduler queues a long-term summary refresh for a passcode.
type ISummaryScheduler interface {
	Schedule(ctx context.Context, passcode string) error
}

type summaryScheduler struct {
	publisher message.Publisher
	topicName string
}

func NewSummaryScheduler(publisher message.Publisher, topicName string) ISummaryScheduler {
	return &summaryScheduler{
		publisher: publisher,
		topicName: topicName,
	}
}

func (s *summaryScheduler) Schedule(ctx context.Context, passcode string) error {
	payload, err := json.Marshal(dto.RefreshSummaryMessage{
		Passcode:    passcode,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return s.publisher.Publish(s.topicName, msg)
}

type ISummaryConsumer interface {
	Consume(ctx context.Context) error
	// Wait blocks until in-flight refreshes finish; call after closing the pub/sub.
	Wait()
}

type summaryConsumer struct {
	subscriber  message.Subscriber
	topicName   string
	summarizer  *memory.Summarizer
	coordinator lock.Coordinator
	lockTTL     time.Duration
	workers     chan struct{}
	wg          sync.WaitGroup
	logger      logger.ILogger
}

func NewSummaryConsumer(
	subscriber message.Subscriber,
	topicName string,
	summarizer *memory.Summarizer,
	coordinator lock.Coordinator,
	workers int,
	lockTTL time.Duration,
	logger logger.ILogger,
) ISummaryConsumer {
	if workers < 1 {
		workers = 1
	}
	return &summaryConsumer{
		subscriber:  subscriber,
		topicName:   topicName,
		summarizer:  summarizer,
		coordinator: coordinator,
		lockTTL:     lockTTL,
		workers:     make(chan struct{}, workers),
		logger:      logger,
	}
}

func (cs *summaryConsumer) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		for msg := range messages {
			cs.workers <- struct{}{}
			// No retries: ack on hand-off so the next job is delivered.
			msg.Ack()

			cs.wg.Add(1)
			go func(msg *message.Message) {
				defer cs.wg.Done()
				defer func() { <-cs.workers }()
				cs.processMessage(ctx, msg)
			}(msg)
		}
	}()

	return nil
}

func (cs *summaryConsumer) Wait() {
	cs.wg.Wait()
}

func (cs *summaryConsumer) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RefreshSummaryMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("QUEUE", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	// Detached from the request that scheduled it; bounded by the summarizer's own timeout.
	jobCtx := context.WithoutCancel(ctx)
	err := lock.Run(jobCtx, cs.coordinator, payload.Passcode, cs.lockTTL, func(ctx context.Context) error {
		return cs.summarizer.Refresh(ctx, payload.Passcode)
	})

	switch {
	case err == nil:
		cs.logger.Debug("QUEUE", "Summary refresh done", map[string]interface{}{
			"message_id": msg.UUID,
			"lag_ms":     time.Since(payload.RequestedAt).Milliseconds(),
		})
	case errors.Is(err, memory.ErrUserGone):
		cs.logger.Info("MEMORY", "Summary refresh dropped, passcode deleted", map[string]interface{}{
			"message_id": msg.UUID,
		})
	default:
		cs.logger.Error("MEMORY", "Summary refresh failed, keeping previous summary", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
	}
}
