package handlers

import (
	"net/http"
	"strconv"

	"docqa/internal/contextutil"
	"docqa/internal/service"
	"docqa/internal/storage"
)

// ChunkHandler serves individual stored chunks by document id and index.
// It reads from the chunk store directly, so degraded documents stay readable
// even when their vectors never made it into the index.
type ChunkHandler struct {
	chunkRepo storage.ChunkStore
}

// NewChunkHandler creates a new ChunkHandler.
func NewChunkHandler(chunkRepo storage.ChunkStore) *ChunkHandler {
	return &ChunkHandler{chunkRepo: chunkRepo}
}

// ChunkResponse carries one chunk's text.
type ChunkResponse struct {
	Text string `json:"text"`
}

// ServeHTTP handles GET /chunk?doc_id=&chunk=.
func (h *ChunkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	docID := r.URL.Query().Get("doc_id")
	if docID == "" {
		WriteServiceError(ctx, w, &service.ValidationError{Field: "doc_id", Message: "doc_id is required"})
		return
	}

	index, err := strconv.Atoi(r.URL.Query().Get("chunk"))
	if err != nil || index < 0 {
		WriteServiceError(ctx, w, &service.ValidationError{Field: "chunk", Message: "chunk must be a non-negative integer"})
		return
	}

	record, err := h.chunkRepo.GetChunk(ctx, docID, index)
	if err != nil {
		logger.WarnContext(ctx, "chunk lookup failed", "doc_id", docID, "chunk", index, "error", err)
		WriteServiceError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, ChunkResponse{Text: record.Text})
}
