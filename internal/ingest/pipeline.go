// Package ingest turns uploaded documents into persisted, indexed chunks.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"docqa/internal/contextutil"
	"docqa/internal/extractor"
	"docqa/internal/llm"
	"docqa/internal/service"
	"docqa/internal/splitter"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// Job is one document to ingest.
type Job struct {
	DocID    string
	Filename string
	Data     []byte
}

// Pipeline converts one uploaded document into chunks, persists them, and
// upserts them into the vector index.
type Pipeline struct {
	extractor   extractor.Extractor
	splitter    *splitter.Splitter
	chunkRepo   storage.ChunkStore
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	logger      *slog.Logger
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	ext extractor.Extractor,
	split *splitter.Splitter,
	chunkRepo storage.ChunkStore,
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
) *Pipeline {
	return &Pipeline{
		extractor:   ext,
		splitter:    split,
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		logger:      slog.Default(),
	}
}

// Ingest runs the full pipeline for one document and returns the chunk count.
//
// Commit ordering: chunks are persisted to the chunk store before the vector
// upsert. If the upsert then fails the document is left in the degraded state:
// chunks are retrievable by direct lookup but not via similarity search.
func (p *Pipeline) Ingest(ctx context.Context, job Job) (int, error) {
	logger := contextutil.LoggerFromContext(ctx).With("doc_id", job.DocID, "filename", job.Filename)

	text, err := p.extractor.Extract(ctx, job.Data, job.Filename)
	if err != nil {
		logger.ErrorContext(ctx, "text extraction failed", "error", err)
		p.markStatus(ctx, logger, job.DocID, storage.StatusFailed)
		return 0, service.WrapError(err, "failed to extract text")
	}

	chunks := p.splitter.Split(text)

	// Document row and chunk rows land in one transaction; old chunks for a
	// re-ingested id are deleted first so indices stay exactly 0..N-1.
	if err := p.chunkRepo.StoreChunks(ctx, job.DocID, job.Filename, chunks); err != nil {
		logger.ErrorContext(ctx, "failed to persist chunks", "error", err)
		p.markStatus(ctx, logger, job.DocID, storage.StatusFailed)
		return 0, service.WrapError(err, "failed to store chunks")
	}

	// Stale points from a previous ingestion of the same id would break the
	// one-entry-per-chunk invariant. This must also run when the new content
	// yields zero chunks, or a re-ingest would leave searchable points whose
	// chunk rows are already gone.
	if err := p.vectorStore.DeleteByDoc(ctx, p.collection, job.DocID); err != nil {
		logger.ErrorContext(ctx, "failed to delete stale vectors", "error", err)
		p.markStatus(ctx, logger, job.DocID, storage.StatusDegraded)
		return 0, fmt.Errorf("%w: stale vector cleanup failed: %v", service.ErrIndexing, err)
	}

	if len(chunks) == 0 {
		logger.WarnContext(ctx, "document produced no chunks")
		p.markStatus(ctx, logger, job.DocID, storage.StatusReady)
		return 0, nil
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		logger.ErrorContext(ctx, "failed to generate embeddings", "error", err)
		p.markStatus(ctx, logger, job.DocID, storage.StatusDegraded)
		return 0, fmt.Errorf("%w: embedding failed: %v", service.ErrIndexing, err)
	}
	if len(embeddings) != len(chunks) {
		p.markStatus(ctx, logger, job.DocID, storage.StatusDegraded)
		return 0, fmt.Errorf("%w: embedding count mismatch: expected %d, got %d", service.ErrIndexing, len(chunks), len(embeddings))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:   uuid.New().String(),
			Vec:  embeddings[i],
			Text: chunk,
			Meta: map[string]any{
				"source": job.Filename,
				"doc_id": job.DocID,
				"chunk":  i,
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		logger.ErrorContext(ctx, "failed to upsert vectors", "error", err)
		p.markStatus(ctx, logger, job.DocID, storage.StatusDegraded)
		return 0, fmt.Errorf("%w: vector upsert failed: %v", service.ErrIndexing, err)
	}

	p.markStatus(ctx, logger, job.DocID, storage.StatusReady)
	logger.InfoContext(ctx, "document ingested", "chunks", len(chunks))
	return len(chunks), nil
}

// markStatus records the document's ingestion state. A failed update is
// logged but never masks the pipeline's own result.
func (p *Pipeline) markStatus(ctx context.Context, logger *slog.Logger, docID, status string) {
	if err := p.chunkRepo.SetStatus(ctx, docID, status); err != nil {
		logger.WarnContext(ctx, "failed to update document status", "status", status, "error", err)
	}
}
