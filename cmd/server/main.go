package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/studenthub/tutor-engine/internal/adapter/ai"
	"github.com/studenthub/tutor-engine/internal/adapter/store"
	"github.com/studenthub/tutor-engine/internal/handler"
	"github.com/studenthub/tutor-engine/internal/mcp"
	"github.com/studenthub/tutor-engine/internal/middleware"
	"github.com/studenthub/tutor-engine/internal/port"
	"github.com/studenthub/tutor-engine/internal/search"
	"github.com/studenthub/tutor-engine/internal/service"
	"github.com/studenthub/tutor-engine/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting Tutor Engine",
		"port", cfg.Port,
		"ollama_embed", cfg.OllamaEmbedURL,
		"ollama_chat", cfg.OllamaChatURL,
		"knowledge_index", cfg.KnowledgeIndexPath,
		"mcp_enabled", cfg.MCPEnabled,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	vectorStore := store.NewVectorStore(pgStore, cfg.EmbeddingDimension)

	// ── Adapters ─────────────────────────────────────────────────────────
	ollamaAI := ai.NewOllamaProvider(
		ai.EndpointConfig{
			BaseURL: cfg.OllamaEmbedURL,
			Model:   cfg.OllamaEmbedModel,
			Token:   cfg.OllamaEmbedToken,
		},
		ai.EndpointConfig{
			BaseURL: cfg.OllamaChatURL,
			Model:   cfg.OllamaChatModel,
			Token:   cfg.OllamaChatToken,
		},
	)

	// ── Knowledge engine ─────────────────────────────────────────────────
	index := search.Load(cfg.KnowledgeIndexPath)
	composer := service.NewComposer(index)
	retriever := service.NewRetriever(vectorStore, cfg.RelevanceThreshold, cfg.RetrievalTopK, cfg.VectorCacheTTL)
	tutor := service.NewTutor(ollamaAI, retriever, port.GenerateOptions{
		Temperature: cfg.GenTemperature,
		MaxTokens:   cfg.GenMaxTokens,
	})

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:     cfg.AppName,
		ReadTimeout: 30 * time.Second,
		// WriteTimeout stays unset: the grounded stream outlives any
		// reasonable fixed write deadline and enforces its own timeout.
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	// Usage middleware (logs all tutor requests)
	app.Use(middleware.UsageMiddleware(pgStore))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
			"corpus":  index.Len(),
		})
	})

	// ── Protected Routes ─────────────────────────────────────────────────
	jwtMiddleware := middleware.JWTMiddleware(middleware.JWTConfig{
		Secret:    cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		ExpiresIn: time.Duration(cfg.JWTExpiration) * time.Hour,
	})

	api := app.Group("/api/v1", jwtMiddleware)

	chatHandler := handler.NewChatHandler(composer, pgStore, cfg.DailyChatQuota)
	chatHandler.Register(api)

	streamHandler := handler.NewStreamHandler(tutor, pgStore, cfg.DailyChatQuota)
	streamHandler.Register(api)

	logsHandler := handler.NewLogsHandler(pgStore)
	logsHandler.Register(api)

	// ── MCP Server (separate port) ───────────────────────────────────────
	if cfg.MCPEnabled {
		mcpServer := mcp.NewServer(index, tutor, cfg.MCPPort)
		go func() {
			if err := mcpServer.Start(); err != nil {
				slog.Error("MCP server failed", "error", err)
			}
		}()
	}

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
