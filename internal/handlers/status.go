package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"docqa/internal/contextutil"
	"docqa/internal/service"
	"docqa/internal/storage"
)

// StatusHandler reports a document's ingestion state.
type StatusHandler struct {
	chunkRepo storage.ChunkStore
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(chunkRepo storage.ChunkStore) *StatusHandler {
	return &StatusHandler{chunkRepo: chunkRepo}
}

// StatusResponse describes a document's ingestion state and chunk count.
type StatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Chunks int    `json:"chunks"`
}

// ServeHTTP handles GET /documents/{id}/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := chi.URLParam(r, "id")
	if id == "" {
		WriteServiceError(ctx, w, &service.ValidationError{Field: "id", Message: "id is required"})
		return
	}

	doc, err := h.chunkRepo.GetDocument(ctx, id)
	if err != nil {
		logger.WarnContext(ctx, "document lookup failed", "doc_id", id, "error", err)
		WriteServiceError(ctx, w, err)
		return
	}

	count, err := h.chunkRepo.CountChunks(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count chunks", "doc_id", id, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to count chunks")
		return
	}

	writeJSON(ctx, w, http.StatusOK, StatusResponse{
		ID:     doc.ID,
		Status: doc.Status,
		Chunks: count,
	})
}
