package bootstrap

import (
	"context"
	"time"

	"fubot-be/internal/config"
	"fubot-be/internal/constant"
	"fubot-be/internal/controller"
	"fubot-be/internal/pkg/logger"
	"fubot-be/internal/repository/unitofwork"
	"fubot-be/internal/service"
	"fubot-be/pkg/events"
	"fubot-be/pkg/llm"
	"fubot-be/pkg/llm/factory"
	"fubot-be/pkg/lock"
	"fubot-be/pkg/memory"
	pktNats "fubot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	DB *gorm.DB

	// Controllers
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	PasscodeController controller.IPasscodeController

	// Services (also used by the admin CLI)
	PasscodeService service.IPasscodeService
	ChatService     service.IChatService

	// Background Services (Exposed for main.go to run)
	SummaryConsumer service.ISummaryConsumer

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	rdb     *redis.Client
	log     logger.ILogger
}

// NewContainer wires everything from configuration, including the LLM backend.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.ILogger) (*Container, error) {
	provider, err := factory.NewLLMProvider(factory.Settings{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OpenAIKey:     cfg.Keys.OpenAI,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		AnthropicKey:  cfg.Keys.Anthropic,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
	})
	if err != nil {
		return nil, err
	}
	log.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	return Assemble(db, cfg, log, provider), nil
}

// Assemble wires the container around an existing LLM provider.
func Assemble(db *gorm.DB, cfg *config.Config, log logger.ILogger, provider llm.LLMProvider) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	// 2. Task queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Optional infrastructure
	var eventPublisher events.Publisher = events.Nop{}
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		p, err := pktNats.NewPublisher(cfg.App.NatsURL, log)
		if err != nil {
			log.Warn("BOOTSTRAP", "Failed to connect to NATS, events disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			natsPub = p
			eventPublisher = p
		}
	}

	rdb, coordinator := newCoordinator(cfg.App.RedisURL, log)

	// 4. Memory engine
	replyGenerator := memory.NewGenerator(provider, cfg.Ai.LLMProvider, memory.GeneratorConfig{
		Model:       cfg.Ai.LLMModel,
		Temperature: cfg.Ai.Temperature,
		MaxTokens:   cfg.Ai.MaxTokens,
		MaxChars:    cfg.Memory.ReplyMaxChars,
		Timeout:     cfg.Ai.Timeout,
	})
	summaryGenerator := memory.NewGenerator(provider, cfg.Ai.LLMProvider, memory.GeneratorConfig{
		Model:       cfg.Ai.SummaryModel,
		Temperature: constant.SummaryTemperature,
		MaxTokens:   cfg.Memory.SummaryMaxWords * 2,
		Timeout:     cfg.Memory.SummaryTimeout,
	})
	summarizer := memory.NewSummarizer(uowFactory, summaryGenerator, cfg.Memory.WindowTurns, cfg.Memory.SummaryMaxWords, log)

	// 5. Services
	scheduler := service.NewSummaryScheduler(pubSub, cfg.Memory.SummaryTopic)
	summaryConsumer := service.NewSummaryConsumer(
		pubSub,
		cfg.Memory.SummaryTopic,
		summarizer,
		coordinator,
		cfg.Memory.SummaryWorkers,
		2*cfg.Memory.SummaryTimeout,
		log,
	)

	passcodeService := service.NewPasscodeService(uowFactory, eventPublisher, cfg.Memory.RetainHistoryOnDelete, log)
	chatService := service.NewChatService(uowFactory, replyGenerator, scheduler, eventPublisher, cfg.Memory.WindowTurns, log)

	// 6. Controllers
	return &Container{
		DB: db,

		AuthController:     controller.NewAuthController(passcodeService),
		ChatController:     controller.NewChatController(chatService),
		PasscodeController: controller.NewPasscodeController(passcodeService),

		PasscodeService: passcodeService,
		ChatService:     chatService,
		SummaryConsumer: summaryConsumer,

		pubSub:  pubSub,
		natsPub: natsPub,
		rdb:     rdb,
		log:     log,
	}
}

// newCoordinator prefers Redis so several replicas share refresh locks, and
// falls back to an in-process coordinator.
func newCoordinator(redisURL string, log logger.ILogger) (*redis.Client, lock.Coordinator) {
	if redisURL == "" {
		return nil, lock.NewMemoryCoordinator()
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{
			"error": err.Error(),
		})
		opt = &redis.Options{
			Addr: redisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Failed to connect to Redis, using in-process refresh locks", map[string]interface{}{
			"error": err.Error(),
		})
		rdb.Close()
		return nil, lock.NewMemoryCoordinator()
	}

	return rdb, lock.NewRedisCoordinator(rdb)
}

// Close stops the queue, waits for in-flight summary refreshes, then drops
// the optional connections.
func (c *Container) Close() {
	if err := c.pubSub.Close(); err != nil {
		c.log.Warn("QUEUE", "Failed to close pub/sub", map[string]interface{}{"error": err.Error()})
	}
	c.SummaryConsumer.Wait()

	c.natsPub.Close()
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
}
