package bootstrap

import (
	"context"
	"log"

	"scad-studio-be/internal/config"
	"scad-studio-be/internal/controller"
	"scad-studio-be/internal/pkg/logger"
	"scad-studio-be/internal/repository/memory"
	"scad-studio-be/internal/service"
	"scad-studio-be/internal/websocket"
	"scad-studio-be/pkg/llm/factory"
	"scad-studio-be/pkg/renderer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	AgentController  controller.IAgentController
	RenderController controller.IRenderController
	FileController   controller.IFileController

	// Background Services (Exposed for main.go to run)
	WatcherService service.IWatcherService

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
	scadRenderer := renderer.New(cfg.OpenSCAD.BinaryPath, cfg.OpenSCAD.Timeout)
	if version, err := scadRenderer.Version(context.Background()); err != nil {
		log.Printf("[WARN] OpenSCAD not available: %v", err)
	} else {
		binary, _ := scadRenderer.BinaryPath()
		log.Printf("[INFO] Using OpenSCAD %s (%s)", version, binary)
	}

	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.AnthropicURL,
		cfg.Ai.AnthropicKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	sessionRepo := memory.NewSessionRepository(cfg.Agent.SessionTTL)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(pubSub, service.FileEventsTopic, wsLogger)

	// 4. Services
	agentService := service.NewAgentService(sessionRepo, scadRenderer, llmProvider, cfg, sysLogger)
	renderService := service.NewRenderService(scadRenderer, sysLogger)
	fileService := service.NewFileService(cfg.App.DataDir)
	watcherService := service.NewWatcherService(cfg.App.DataDir, pubSub, wsLogger)

	// 5. Controllers
	return &Container{
		AgentController:  controller.NewAgentController(agentService),
		RenderController: controller.NewRenderController(renderService),
		FileController:   controller.NewFileController(fileService),
		WatcherService:   watcherService,
		WebSocketHub:     wsHub,
	}
}
