package bootstrap

import (
	"log"
	"time"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/controller"
	"ai-docchat-be/internal/history"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/cache"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/agent"
	"ai-docchat-be/pkg/llm/factory"

	"gorm.io/gorm"
)

type Container struct {
	ChatController controller.IChatController

	Logger logger.ILogger
}

// NewContainer wires the dependency graph. db may be nil when the file
// history backend is configured.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	cacheStore := cache.NewFileStore(cfg.Storage.DataDir, sysLogger)
	selectionRepo := memory.NewSelectionRepository()

	llmProvider, err := factory.NewLLMProvider(
		"vllm",
		cfg.Ai.VLLMModel,
		cfg.Ai.VLLMEndpoint,
		time.Duration(cfg.Ai.RequestTimeout)*time.Second,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM endpoint: %s (%s)", cfg.Ai.VLLMEndpoint, cfg.Ai.VLLMModel)

	chatAgent := agent.New(llmProvider, cacheStore, selectionRepo, sysLogger, cfg.Ai.MaxContextTokens)

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	}

	historyStore, err := history.NewStore(cfg.Storage.HistoryBackend, cfg.Storage.DataDir, uowFactory, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize history store: %v", err)
	}
	log.Printf("[INFO] Using history backend: %s", cfg.Storage.HistoryBackend)

	chatService := service.NewChatService(chatAgent, historyStore, cacheStore, sysLogger)

	return &Container{
		ChatController: controller.NewChatController(chatService),
		Logger:         sysLogger,
	}
}
