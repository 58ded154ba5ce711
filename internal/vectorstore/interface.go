package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docqa/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with its chunk text and metadata.
// The metadata carries {source, doc_id, chunk} so search results can be
// attributed without a second lookup.
type Point struct {
	ID   string
	Vec  []float32
	Text string
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Text    string
	Meta    map[string]any
}

// VectorStore defines the interface for vector index operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection as one batch and
	// waits for the batch to be durable before returning.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the k most similar points, most relevant first.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// DeleteByDoc removes all points belonging to a document.
	DeleteByDoc(ctx context.Context, collection, docID string) error
}
