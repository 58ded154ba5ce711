package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docqa/internal/config"
	"docqa/internal/extractor"
	"docqa/internal/http"
	"docqa/internal/ingest"
	"docqa/internal/llm"
	"docqa/internal/rag"
	"docqa/internal/ratelimit"
	"docqa/internal/session"
	"docqa/internal/splitter"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
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
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

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

	chunkRepo := storage.NewChunkRepo(db)

	ctx := context.Background()

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	split, err := splitter.New(
		splitter.WithChunkSize(cfg.ChunkSize),
		splitter.WithOverlap(cfg.ChunkOverlap),
	)
	if err != nil {
		log.Fatalf("Failed to create splitter: %v", err)
	}

	registry := extractor.NewRegistry()
	pipeline := ingest.NewPipeline(registry, split, chunkRepo, embedder, vectorStore, cfg.QdrantCollection)
	queue, err := ingest.NewQueue(pipeline, cfg.IngestWorkers)
	if err != nil {
		log.Fatalf("Failed to create ingestion queue: %v", err)
	}
	defer queue.Close()
	slog.Info("Ingestion queue ready", "workers", cfg.IngestWorkers)

	sessions, err := session.NewStore(cfg.MaxSessions, cfg.MaxTurnsPerSession)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	engine := rag.NewEngine(sessions, llmClient, embedder, vectorStore, cfg.QdrantCollection, cfg.TopK)
	slog.Info("Retrieval engine initialized", "top_k", cfg.TopK)

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow)

	deps := &http.Deps{
		Registry:   registry,
		ChunkRepo:  chunkRepo,
		Queue:      queue,
		Engine:     engine,
		Checker:    vectorStore,
		Collection: cfg.QdrantCollection,
		Limiter:    limiter,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
