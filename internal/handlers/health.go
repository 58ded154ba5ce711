package handlers

import (
	"context"
	"net/http"
	"time"

	"docqa/internal/contextutil"
)

// CollectionChecker reports whether the vector collection is reachable.
// Implemented by vectorstore.QdrantStore.
type CollectionChecker interface {
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

// HealthHandler reports the service's health and the state of its
// dependencies.
type HealthHandler struct {
	checker      CollectionChecker
	collection   string
	checkTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checker CollectionChecker, collection string) *HealthHandler {
	return &HealthHandler{
		checker:      checker,
		collection:   collection,
		checkTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	checks := map[string]string{"vector_store": "ok"}
	status := "healthy"
	httpStatus := http.StatusOK

	exists, err := h.checker.CollectionExists(checkCtx, h.collection)
	if err != nil || !exists {
		if err != nil {
			logger.WarnContext(ctx, "vector store health check failed", "error", err)
		} else {
			logger.WarnContext(ctx, "vector collection missing", "collection", h.collection)
		}
		checks["vector_store"] = "error"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
