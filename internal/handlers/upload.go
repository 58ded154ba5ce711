// Package handlers contains the HTTP handlers for the document QA API.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"docqa/internal/contextutil"
	"docqa/internal/extractor"
	"docqa/internal/ingest"
	"docqa/internal/service"
	"docqa/internal/storage"
)

// DefaultMaxUploadBytes bounds the size of an uploaded document.
const DefaultMaxUploadBytes = 32 << 20

// Enqueuer schedules background ingestion jobs. Implemented by ingest.Queue.
type Enqueuer interface {
	Enqueue(job ingest.Job) error
}

// UploadHandler accepts a document, registers it, and hands it to the
// ingestion queue. Processing happens after the response is sent; the caller
// polls the status endpoint to see the outcome.
type UploadHandler struct {
	registry       *extractor.Registry
	chunkRepo      storage.ChunkStore
	queue          Enqueuer
	maxUploadBytes int64
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(registry *extractor.Registry, chunkRepo storage.ChunkStore, queue Enqueuer) *UploadHandler {
	return &UploadHandler{
		registry:       registry,
		chunkRepo:      chunkRepo,
		queue:          queue,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
}

// UploadResponse acknowledges an accepted upload.
type UploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ServeHTTP handles multipart document uploads on POST /upload.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "invalid upload request", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		WriteServiceError(ctx, w, &service.ValidationError{Field: "file", Message: "A filename is required"})
		return
	}
	if !h.registry.Supported(header.Filename) {
		logger.WarnContext(ctx, "unsupported file type", "filename", header.Filename)
		WriteServiceError(ctx, w, &service.ValidationError{Field: "file", Message: "Unsupported file type"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "filename", header.Filename, "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Failed to read file")
		return
	}

	doc := &storage.DocumentRecord{
		ID:        uuid.New().String(),
		Filename:  header.Filename,
		Status:    storage.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}

	// The row exists before the response goes out, so a status poll right
	// after the upload sees "processing" rather than a 404.
	if err := h.chunkRepo.UpsertDocument(ctx, doc); err != nil {
		logger.ErrorContext(ctx, "failed to register document", "doc_id", doc.ID, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to register document")
		return
	}

	if err := h.queue.Enqueue(ingest.Job{DocID: doc.ID, Filename: doc.Filename, Data: data}); err != nil {
		logger.ErrorContext(ctx, "failed to enqueue document", "doc_id", doc.ID, "error", err)
		if errors.Is(err, ingest.ErrQueueFull) {
			writeError(ctx, w, http.StatusServiceUnavailable, "Ingestion queue full, try again later")
			return
		}
		writeError(ctx, w, http.StatusInternalServerError, "Failed to schedule ingestion")
		return
	}

	logger.InfoContext(ctx, "document accepted",
		"doc_id", doc.ID, "filename", doc.Filename, "bytes", len(data))

	writeJSON(ctx, w, http.StatusAccepted, UploadResponse{
		ID:     doc.ID,
		Status: storage.StatusProcessing,
	})
}
