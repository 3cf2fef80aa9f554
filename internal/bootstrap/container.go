package bootstrap

import (
	"ai-trendboard-be/internal/config"
	"ai-trendboard-be/internal/controller"
	"ai-trendboard-be/internal/pkg/logger"
	"ai-trendboard-be/internal/repository/memory"
	"ai-trendboard-be/internal/service"
	"ai-trendboard-be/internal/websocket"
	"ai-trendboard-be/pkg/llm/factory"
	"ai-trendboard-be/pkg/llm/openai"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	CatalogController    controller.ICatalogController
	EnrichmentController controller.IEnrichmentController
	TrendController      controller.ITrendController
	ChatController       controller.IChatController

	// Background Services (Exposed for main.go to run)
	ProgressService service.IProgressService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// Generative service client; the key itself is entered per session
	llmProvider, err := factory.NewProvider(cfg.Ai.Provider, cfg.Ai.ChatModel, cfg.Ai.ImageModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Falling back to default AI provider", map[string]interface{}{"error": err.Error()})
		llmProvider = openai.NewOpenAIProvider(cfg.Ai.ChatModel, cfg.Ai.ImageModel)
	}

	// WebSocket Hub for progress streaming
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Enrich.ProgressTopic, pubSub)
	progressService := service.NewProgressService(pubSub, cfg.Enrich.ProgressTopic, wsHub, wsLogger)

	authService := service.NewAuthService(cfg, sessionRepo, sysLogger)
	catalogService := service.NewCatalogService(sessionRepo, sysLogger)
	enrichmentService := service.NewEnrichmentService(
		sessionRepo,
		llmProvider,
		publisherService,
		progressService,
		sysLogger,
		cfg.Enrich.MaxConcurrent,
	)
	trendService := service.NewTrendService(
		sessionRepo,
		llmProvider,
		publisherService,
		sysLogger,
		cfg.Enrich.MaxConcurrent,
	)
	chatService := service.NewChatService(sessionRepo, llmProvider, sysLogger)

	// 5. Controllers
	return &Container{
		AuthController:       controller.NewAuthController(authService),
		CatalogController:    controller.NewCatalogController(catalogService),
		EnrichmentController: controller.NewEnrichmentController(enrichmentService),
		TrendController:      controller.NewTrendController(trendService),
		ChatController:       controller.NewChatController(chatService),

		ProgressService: progressService,
		WebSocketHub:    wsHub,
	}
}
