package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sage-ai/internal/analytics"
	"sage-ai/internal/cache"
	"sage-ai/internal/config"
	"sage-ai/internal/embedder"
	"sage-ai/internal/handlers"
	"sage-ai/internal/http"
	"sage-ai/internal/ingest"
	"sage-ai/internal/llm"
	"sage-ai/internal/rag"
	"sage-ai/internal/storage"
	"sage-ai/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	paperRepo := storage.NewPaperRepo(db)
	chunkRepo := storage.NewChunkRepo(db)
	queryRepo := storage.NewQueryRepo(db)
	jobRepo := storage.NewJobRepo(db)

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	slog.Info("Qdrant client ready", "url", cfg.QdrantURL, "collection", cfg.QdrantCollection)

	// Initialize Redis cache
	cacheStore, err := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		_ = cacheStore.Close()
	}()
	slog.Info("Redis cache ready", "addr", cfg.RedisAddr)

	// External service clients
	embedderClient := embedder.NewClient(cfg.EmbedderURL, cfg.EmbeddingModel)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Build the answering pipeline
	retriever := rag.NewRetriever(embedderClient, vectorStore, cfg.QdrantCollection)
	assembler := rag.NewAssembler(chunkRepo)
	engine := rag.NewEngine(retriever, assembler, llmClient, cacheStore, queryRepo)
	slog.Info("Answer engine initialized")

	analyticsService := analytics.NewService(queryRepo, retriever, assembler, llmClient, cacheStore)

	// Ingestion pipeline and background worker
	pipeline := ingest.NewPipeline(paperRepo, chunkRepo, embedderClient, vectorStore, cfg.QdrantCollection, cfg.EmbeddingModel)
	worker := ingest.NewWorker(jobRepo, pipeline)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go worker.Run(workerCtx)

	// Create router with dependencies
	deps := &http.Deps{
		Engine:         engine,
		Analytics:      analyticsService,
		Papers:         paperRepo,
		Chunks:         chunkRepo,
		Jobs:           jobRepo,
		Queries:        queryRepo,
		Vectors:        vectorStore,
		Extractor:      embedderClient,
		Collection:     cfg.QdrantCollection,
		MaxUploadBytes: cfg.MaxUploadBytes,
		HealthChecks: map[string]handlers.CheckFunc{
			"db":     db.PingContext,
			"redis":  cacheStore.Ping,
			"qdrant": vectorStore.HealthCheck,
		},
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", addr)
		slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed: %v", err)
		}
	case sig := <-sigCh:
		slog.Info("Shutting down", "signal", sig.String())
		stopWorker()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}
