package storage

import "time"

// Document ingestion states. A document becomes queryable only once its
// chunks are both persisted and indexed.
const (
	// StatusProcessing means ingestion is enqueued or running.
	StatusProcessing = "processing"
	// StatusReady means chunks are persisted and indexed for search.
	StatusReady = "ready"
	// StatusDegraded means chunks are persisted but the vector upsert failed;
	// direct chunk lookup works, similarity search does not.
	StatusDegraded = "degraded"
	// StatusFailed means ingestion aborted before any chunk was persisted.
	StatusFailed = "failed"
)

// DocumentRecord represents an uploaded document in the database.
type DocumentRecord struct {
	ID        string // UUID, minted on upload acceptance
	Filename  string
	Status    string
	CreatedAt time.Time
}

// ChunkRecord represents one ordered slice of a document's extracted text.
// Indices for a document are contiguous from 0.
type ChunkRecord struct {
	DocID string
	Index int
	Text  string
}
