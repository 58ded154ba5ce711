package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	extractormocks "docqa/internal/extractor/mocks"
	llmmocks "docqa/internal/llm/mocks"
	"docqa/internal/service"
	"docqa/internal/splitter"
	"docqa/internal/storage"
	storagemocks "docqa/internal/storage/mocks"
	"docqa/internal/vectorstore"
	vectorstoremocks "docqa/internal/vectorstore/mocks"
)

const testCollection = "documents"

type pipelineMocks struct {
	extractor   *extractormocks.MockExtractor
	chunkRepo   *storagemocks.MockChunkStore
	embedder    *llmmocks.MockEmbedder
	vectorStore *vectorstoremocks.MockVectorStore
}

func newTestPipeline(t *testing.T) (*Pipeline, pipelineMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := pipelineMocks{
		extractor:   extractormocks.NewMockExtractor(ctrl),
		chunkRepo:   storagemocks.NewMockChunkStore(ctrl),
		embedder:    llmmocks.NewMockEmbedder(ctrl),
		vectorStore: vectorstoremocks.NewMockVectorStore(ctrl),
	}
	split, err := splitter.New(splitter.WithChunkSize(100), splitter.WithOverlap(20))
	if err != nil {
		t.Fatalf("failed to create splitter: %v", err)
	}
	p := NewPipeline(m.extractor, split, m.chunkRepo, m.embedder, m.vectorStore, testCollection)
	return p, m
}

func TestPipelineIngestSuccess(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	job := Job{DocID: "doc-1", Filename: "notes.txt", Data: []byte("raw")}

	// Long enough to split into more than one chunk at size 100.
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 6)

	m.extractor.EXPECT().Extract(ctx, job.Data, job.Filename).Return(text, nil)
	m.chunkRepo.EXPECT().StoreChunks(ctx, job.DocID, job.Filename, gomock.Any()).Return(nil)

	var embedded []string
	m.embedder.EXPECT().EmbedTexts(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, texts []string) ([][]float32, error) {
			embedded = texts
			vecs := make([][]float32, len(texts))
			for i := range vecs {
				vecs[i] = []float32{0.1, 0.2}
			}
			return vecs, nil
		})

	m.vectorStore.EXPECT().DeleteByDoc(ctx, testCollection, job.DocID).Return(nil)
	m.vectorStore.EXPECT().Upsert(ctx, testCollection, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, points []vectorstore.Point) error {
			if len(points) != len(embedded) {
				t.Errorf("expected %d points, got %d", len(embedded), len(points))
			}
			for i, pt := range points {
				if pt.ID == "" {
					t.Errorf("point %d has empty id", i)
				}
				if pt.Text != embedded[i] {
					t.Errorf("point %d text does not match embedded chunk", i)
				}
				if pt.Meta["source"] != job.Filename {
					t.Errorf("point %d source = %v, want %q", i, pt.Meta["source"], job.Filename)
				}
				if pt.Meta["doc_id"] != job.DocID {
					t.Errorf("point %d doc_id = %v, want %q", i, pt.Meta["doc_id"], job.DocID)
				}
				if pt.Meta["chunk"] != i {
					t.Errorf("point %d chunk = %v, want %d", i, pt.Meta["chunk"], i)
				}
			}
			return nil
		})
	m.chunkRepo.EXPECT().SetStatus(ctx, job.DocID, storage.StatusReady).Return(nil)

	count, err := p.Ingest(ctx, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count < 2 {
		t.Errorf("expected multiple chunks, got %d", count)
	}
	if count != len(embedded) {
		t.Errorf("returned count %d does not match embedded chunk count %d", count, len(embedded))
	}
}

func TestPipelineIngestExtractionFailure(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	job := Job{DocID: "doc-1", Filename: "broken.pdf", Data: []byte("raw")}

	m.extractor.EXPECT().Extract(ctx, job.Data, job.Filename).
		Return("", service.ErrExtraction)
	m.chunkRepo.EXPECT().SetStatus(ctx, job.DocID, storage.StatusFailed).Return(nil)

	_, err := p.Ingest(ctx, job)
	if !errors.Is(err, service.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestPipelineIngestStoreFailure(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	job := Job{DocID: "doc-1", Filename: "notes.txt", Data: []byte("raw")}

	m.extractor.EXPECT().Extract(ctx, job.Data, job.Filename).Return("some text", nil)
	m.chunkRepo.EXPECT().StoreChunks(ctx, job.DocID, job.Filename, gomock.Any()).
		Return(errors.New("disk full"))
	m.chunkRepo.EXPECT().SetStatus(ctx, job.DocID, storage.StatusFailed).Return(nil)

	if _, err := p.Ingest(ctx, job); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestPipelineIngestEmptyDocument(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	job := Job{DocID: "doc-1", Filename: "empty.txt", Data: []byte("")}

	m.extractor.EXPECT().Extract(ctx, job.Data, job.Filename).Return("", nil)
	m.chunkRepo.EXPECT().StoreChunks(ctx, job.DocID, job.Filename, gomock.Len(0)).Return(nil)
	m.vectorStore.EXPECT().DeleteByDoc(ctx, testCollection, job.DocID).Return(nil)
	m.chunkRepo.EXPECT().SetStatus(ctx, job.DocID, storage.StatusReady).Return(nil)

	count, err := p.Ingest(ctx, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 chunks, got %d", count)
	}
}

func TestPipelineIngestEmptyReingestClearsStaleVectors(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	job := Job{DocID: "doc-1", Filename: "notes.txt", Data: []byte("raw")}

	// A re-ingest whose new content yields no chunks must still remove the
	// previous ingestion's points; the chunk rows are already gone, so any
	// surviving point would be searchable but unreadable.
	m.extractor.EXPECT().Extract(ctx, job.Data, job.Filename).Return("   ", nil)
	gomock.InOrder(
		m.chunkRepo.EXPECT().StoreChunks(ctx, job.DocID, job.Filename, gomock.Len(0)).Return(nil),
		m.vectorStore.EXPECT().DeleteByDoc(ctx, testCollection, job.DocID).Return(nil),
		m.chunkRepo.EXPECT().SetStatus(ctx, job.DocID, storage.StatusReady).Return(nil),
	)

	count, err := p.Ingest(ctx, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 chunks, got %d", count)
	}
}

func TestPipelineIngestEmbeddingFailureDegrades(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	job := Job{DocID: "doc-1", Filename: "notes.txt", Data: []byte("raw")}

	m.extractor.EXPECT().Extract(ctx, job.Data, job.Filename).Return("some text", nil)
	m.chunkRepo.EXPECT().StoreChunks(ctx, job.DocID, job.Filename, gomock.Any()).Return(nil)
	m.vectorStore.EXPECT().DeleteByDoc(ctx, testCollection, job.DocID).Return(nil)
	m.embedder.EXPECT().EmbedTexts(ctx, gomock.Any()).Return(nil, errors.New("model offline"))
	m.chunkRepo.EXPECT().SetStatus(ctx, job.DocID, storage.StatusDegraded).Return(nil)

	_, err := p.Ingest(ctx, job)
	if !errors.Is(err, service.ErrIndexing) {
		t.Fatalf("expected indexing error, got %v", err)
	}
}

func TestPipelineIngestUpsertFailureDegrades(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	job := Job{DocID: "doc-1", Filename: "notes.txt", Data: []byte("raw")}

	m.extractor.EXPECT().Extract(ctx, job.Data, job.Filename).Return("some text", nil)
	m.chunkRepo.EXPECT().StoreChunks(ctx, job.DocID, job.Filename, gomock.Any()).Return(nil)
	m.embedder.EXPECT().EmbedTexts(ctx, gomock.Any()).Return([][]float32{{0.1}}, nil)
	m.vectorStore.EXPECT().DeleteByDoc(ctx, testCollection, job.DocID).Return(nil)
	m.vectorStore.EXPECT().Upsert(ctx, testCollection, gomock.Any()).
		Return(errors.New("qdrant unavailable"))
	m.chunkRepo.EXPECT().SetStatus(ctx, job.DocID, storage.StatusDegraded).Return(nil)

	_, err := p.Ingest(ctx, job)
	if !errors.Is(err, service.ErrIndexing) {
		t.Fatalf("expected indexing error, got %v", err)
	}
}

func TestPipelineIngestDeletesStaleVectors(t *testing.T) {
	p, m := newTestPipeline(t)
	ctx := context.Background()
	job := Job{DocID: "doc-1", Filename: "notes.txt", Data: []byte("raw")}

	m.extractor.EXPECT().Extract(ctx, job.Data, job.Filename).Return("some text", nil)
	m.chunkRepo.EXPECT().StoreChunks(ctx, job.DocID, job.Filename, gomock.Any()).Return(nil)
	m.embedder.EXPECT().EmbedTexts(ctx, gomock.Any()).Return([][]float32{{0.1}}, nil)

	// Old points for the same id go before the new ones come in.
	gomock.InOrder(
		m.vectorStore.EXPECT().DeleteByDoc(ctx, testCollection, job.DocID).Return(nil),
		m.vectorStore.EXPECT().Upsert(ctx, testCollection, gomock.Any()).Return(nil),
	)
	m.chunkRepo.EXPECT().SetStatus(ctx, job.DocID, storage.StatusReady).Return(nil)

	if _, err := p.Ingest(ctx, job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQueueRunsJobs(t *testing.T) {
	p, m := newTestPipeline(t)
	job := Job{DocID: "doc-1", Filename: "notes.txt", Data: []byte("raw")}

	m.extractor.EXPECT().Extract(gomock.Any(), job.Data, job.Filename).Return("some text", nil)
	m.chunkRepo.EXPECT().StoreChunks(gomock.Any(), job.DocID, job.Filename, gomock.Any()).Return(nil)
	m.embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{0.1}}, nil)
	m.vectorStore.EXPECT().DeleteByDoc(gomock.Any(), testCollection, job.DocID).Return(nil)
	m.vectorStore.EXPECT().Upsert(gomock.Any(), testCollection, gomock.Any()).Return(nil)
	m.chunkRepo.EXPECT().SetStatus(gomock.Any(), job.DocID, storage.StatusReady).Return(nil)

	q, err := NewQueue(p, 1)
	if err != nil {
		t.Fatalf("failed to create queue: %v", err)
	}
	defer q.Close()

	if err := q.Enqueue(job); err != nil {
		t.Fatalf("failed to enqueue: %v", err)
	}
	q.Wait()
}
