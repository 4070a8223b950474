package service

import (
	"context"
	"time"

	"fubot-be/internal/constant"
	"fubot-be/internal/dto"
	"fubot-be/internal/entity"
	"fubot-be/internal/pkg/logger"
	"fubot-be/internal/repository/specification"
	"fubot-be/internal/repository/unitofwork"
	"fubot-be/pkg/events"
	"fubot-be/pkg/memory"
)

type IChatService interface {
	SendChat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHistory(ctx context.Context, req *dto.HistoryRequest) (*dto.HistoryResponse, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	generator      *memory.Generator
	scheduler      ISummaryScheduler
	eventPublisher events.Publisher
	windowTurns    int
	logger         logger.ILogger
	now            func() time.Time
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	generator *memory.Generator,
	scheduler ISummaryScheduler,
	eventPublisher events.Publisher,
	windowTurns int,
	logger logger.ILogger,
) IChatService {
	if eventPublisher == nil {
		eventPublisher = events.Nop{}
	}
	return &chatService{
		uowFactory:     uowFactory,
		generator:      generator,
		scheduler:      scheduler,
		eventPublisher: eventPublisher,
		windowTurns:    windowTurns,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *chatService) SendChat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByPasscode{Passcode: req.Passcode})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidPasscode
	}

	window, err := memory.LoadRecent(ctx, uow.ChatHistoryRepository(), req.Passcode, s.windowTurns)
	if err != nil {
		return nil, err
	}

	conversation := memory.BuildConversation(constant.ChatPersonaPrompt, user.Summary(), window, req.Message)

	start := time.Now()
	reply, err := s.generator.Complete(ctx, conversation)
	if err != nil {
		s.logger.Error("CHAT", "Reply generation failed", map[string]interface{}{
			"error":       err.Error(),
			"window":      len(window),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	// Persist before replying; a failed write fails the exchange.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	turn := &entity.ChatTurn{
		Passcode:    req.Passcode,
		UserMessage: req.Message,
		BotResponse: reply,
		Timestamp:   s.now(),
	}
	if err := uow.ChatHistoryRepository().Create(ctx, turn); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("CHAT", "Reply generated", map[string]interface{}{
		"turn_id":     turn.Id.String(),
		"window":      len(window),
		"reply_chars": len([]rune(reply)),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	// The summary lags behind; never block or fail the reply on it.
	if err := s.scheduler.Schedule(ctx, req.Passcode); err != nil {
		s.logger.Warn("MEMORY", "Failed to schedule summary refresh", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := s.eventPublisher.Publish(ctx, events.New(events.ChatCompleted, map[string]interface{}{
		"turn_id":     turn.Id.String(),
		"reply_chars": len([]rune(reply)),
	})); err != nil {
		s.logger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  events.ChatCompleted,
			"error": err.Error(),
		})
	}

	return &dto.ChatResponse{Reply: reply}, nil
}

func (s *chatService) GetHistory(ctx context.Context, req *dto.HistoryRequest) (*dto.HistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByPasscode{Passcode: req.Passcode})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidPasscode
	}

	limit := req.Limit
	if limit <= 0 {
		limit = dto.DefaultHistoryLimit
	}
	if limit > dto.MaxHistoryLimit {
		limit = dto.MaxHistoryLimit
	}

	byPasscode := specification.ByPasscode{Passcode: req.Passcode}
	total, err := uow.ChatHistoryRepository().Count(ctx, byPasscode)
	if err != nil {
		return nil, err
	}

	turns, err := uow.ChatHistoryRepository().FindAll(ctx,
		byPasscode,
		specification.MostRecentFirst(),
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)
	if err != nil {
		return nil, err
	}

	// Newest first: each turn yields (bot, user), then one reverse gives chronological order.
	history := make([]dto.HistoryMessage, 0, 2*len(turns))
	for _, turn := range turns {
		history = append(history,
			dto.HistoryMessage{Sender: constant.SenderBot, Text: turn.BotResponse},
			dto.HistoryMessage{Sender: constant.SenderUser, Text: turn.UserMessage},
		)
	}
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return &dto.HistoryResponse{History: history, Total: total}, nil
}
