package bootstrap

import (
	"log"
	"time"

	"carechat-be/internal/config"
	"carechat-be/internal/controller"
	"carechat-be/internal/pkg/logger"
	"carechat-be/internal/pkg/mailer"
	"carechat-be/internal/service"
	"carechat-be/internal/tracer"
	"carechat-be/pkg/agent"
	"carechat-be/pkg/conversation"
	"carechat-be/pkg/database"
	"carechat-be/pkg/embedding"
	"carechat-be/pkg/intent"
	"carechat-be/pkg/llm/factory"
	"carechat-be/pkg/routing"
	"carechat-be/pkg/search"
	"carechat-be/pkg/turn"

	pktNats "carechat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const telemetryTopic = "chat.telemetry"

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background services (exposed for main.go to run)
	TelemetryService service.ITelemetryService

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	telemetryLogger := logger.NewIsolatedLogger(cfg.App.TelemetryLogPath)
	genAI := tracer.NewGenAITracer()

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 3. AI providers
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var searchProvider search.Provider
	if cfg.Search.Provider == "pgvector" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to database for pgvector search: %v", err)
		}
		embeddingProvider := embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		searchProvider = search.NewPgVectorProvider(db, embeddingProvider)
		log.Printf("[INFO] Using Search Provider: PGVECTOR (%s)", cfg.Ai.EmbeddingModel)
	} else {
		searchProvider = search.NewHTTPProvider(
			cfg.Search.Endpoint,
			cfg.Search.Key,
			cfg.Search.IndexName,
		)
		log.Printf("[INFO] Using Search Provider: HTTP (%s)", cfg.Search.IndexName)
	}

	// 4. Conversation state
	ttl := time.Duration(cfg.Chat.TranscriptTTL) * time.Minute
	store := conversation.NewStore(ttl)
	aggregator := turn.NewAggregator()

	var history intent.HistoryStore
	if cfg.Chat.IntentStore == "redis" {
		redisHistory, err := intent.NewRedisHistory(cfg.App.RedisURL, ttl)
		if err != nil {
			log.Printf("[WARN] Failed to connect to Redis intent store: %v. Falling back to memory", err)
			history = intent.NewMemoryHistory(ttl)
		} else {
			history = redisHistory
			log.Printf("[INFO] Using Intent Store: REDIS")
		}
	} else {
		history = intent.NewMemoryHistory(ttl)
	}

	classifier := intent.NewLanguageClassifier(
		cfg.Language.Endpoint,
		cfg.Language.Key,
		cfg.Language.ProjectName,
		cfg.Language.ModelDeployment,
		cfg.Language.ApiVersion,
		history,
		genAI,
		sysLogger,
	)

	// 5. Agents and routing
	registry := agent.NewRegistry()
	registry.Register(agent.NewFAQAgent(llmProvider, searchProvider, aggregator, genAI, cfg.Search.TopK))
	registry.Register(agent.NewAdminAgent(llmProvider, emailService, genAI, sysLogger))

	dispatcher := agent.NewDispatcher(registry, store, aggregator, genAI)
	policy := routing.DefaultPolicy()

	// 6. Services
	chatService := service.NewChatService(
		classifier,
		history,
		policy,
		dispatcher,
		store,
		aggregator,
		pubSub,
		telemetryTopic,
		cfg.Chat.DefaultLanguage,
		ttl,
		sysLogger,
	)

	telemetryService := service.NewTelemetryService(
		pubSub,
		telemetryTopic,
		natsPub,
		telemetryLogger,
	)

	return &Container{
		ChatController:   controller.NewChatController(chatService),
		TelemetryService: telemetryService,
		Logger:           sysLogger,
	}
}
