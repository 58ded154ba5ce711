// Package http assembles the chi router and its middleware chain.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docqa/internal/extractor"
	"docqa/internal/handlers"
	"docqa/internal/rag"
	"docqa/internal/ratelimit"
	"docqa/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Registry   *extractor.Registry
	ChunkRepo  storage.ChunkStore
	Queue      handlers.Enqueuer
	Engine     rag.Engine
	Checker    handlers.CollectionChecker
	Collection string
	Limiter    *ratelimit.Limiter
}

// NewRouter creates the HTTP router. The rate limiter sits last in the
// middleware chain so a rejected request is still logged but reaches no
// handler.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)
	r.Use(RateLimit(deps.Limiter))

	uploadHandler := handlers.NewUploadHandler(deps.Registry, deps.ChunkRepo, deps.Queue)
	askHandler := handlers.NewAskHandler(deps.Engine)
	chunkHandler := handlers.NewChunkHandler(deps.ChunkRepo)
	statusHandler := handlers.NewStatusHandler(deps.ChunkRepo)
	healthHandler := handlers.NewHealthHandler(deps.Checker, deps.Collection)

	r.Method(http.MethodPost, "/upload", uploadHandler)
	r.Method(http.MethodPost, "/ask", askHandler)
	r.Method(http.MethodGet, "/chunk", chunkHandler)
	r.Method(http.MethodGet, "/documents/{id}/status", statusHandler)
	r.Method(http.MethodGet, "/health", healthHandler)

	return r
}
