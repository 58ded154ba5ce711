package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks docqa/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"

	"docqa/internal/service"
)

// ChunkStore defines the interface for document and chunk storage operations.
type ChunkStore interface {
	// UpsertDocument inserts or replaces a document row.
	UpsertDocument(ctx context.Context, doc *DocumentRecord) error
	// GetDocument gets a document by id. Returns service.ErrNotFound if not found.
	GetDocument(ctx context.Context, id string) (*DocumentRecord, error)
	// SetStatus updates a document's ingestion status.
	SetStatus(ctx context.Context, id, status string) error
	// StoreChunks replaces a document's chunks with the given ordered texts in
	// one transaction, assigning indices 0..len(chunks)-1. The document row is
	// upserted in the same transaction, before its chunks.
	StoreChunks(ctx context.Context, docID, filename string, chunks []string) error
	// GetChunk gets one chunk by document id and index.
	// Returns service.ErrNotFound if not found.
	GetChunk(ctx context.Context, docID string, index int) (*ChunkRecord, error)
	// CountChunks returns the number of chunks stored for a document.
	CountChunks(ctx context.Context, docID string) (int, error)
}

// ChunkRepo provides methods for document and chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// UpsertDocument inserts or replaces a document row.
func (r *ChunkRepo) UpsertDocument(ctx context.Context, doc *DocumentRecord) error {
	status := doc.Status
	if status == "" {
		status = StatusProcessing
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO documents (id, filename, status) VALUES (?, ?, ?)",
		doc.ID, doc.Filename, status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// GetDocument gets a document by id. Returns service.ErrNotFound if not found.
func (r *ChunkRepo) GetDocument(ctx context.Context, id string) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, filename, status, created_at FROM documents WHERE id = ?",
		id,
	).Scan(&doc.ID, &doc.Filename, &doc.Status, &doc.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

// SetStatus updates a document's ingestion status.
func (r *ChunkRepo) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = ? WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set document status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check status update: %w", err)
	}
	if affected == 0 {
		return service.ErrNotFound
	}
	return nil
}

// StoreChunks replaces a document's chunks with the given ordered texts.
// Delete-then-insert inside one transaction keeps the 0..N-1 index invariant
// under re-ingestion and partial failure.
func (r *ChunkRepo) StoreChunks(ctx context.Context, docID, filename string, chunks []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Document row first; chunks reference it.
	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO documents (id, filename, status) VALUES (?, ?, ?)",
		docID, filename, StatusProcessing,
	); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("failed to delete old chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO chunks (doc_id, chunk_index, text) VALUES (?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, text := range chunks {
		if _, err := stmt.ExecContext(ctx, docID, i, text); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}
	return nil
}

// GetChunk gets one chunk by document id and index.
func (r *ChunkRepo) GetChunk(ctx context.Context, docID string, index int) (*ChunkRecord, error) {
	var chunk ChunkRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT doc_id, chunk_index, text FROM chunks WHERE doc_id = ? AND chunk_index = ?",
		docID, index,
	).Scan(&chunk.DocID, &chunk.Index, &chunk.Text)

	if err == sql.ErrNoRows {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}

	return &chunk, nil
}

// CountChunks returns the number of chunks stored for a document.
func (r *ChunkRepo) CountChunks(ctx context.Context, docID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE doc_id = ?",
		docID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}
