package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// DefaultWorkers is the default ingestion worker count.
const DefaultWorkers = 2

// DefaultQueueDepth is the default number of jobs held while all workers are
// busy.
const DefaultQueueDepth = 256

// ErrQueueFull is returned by Enqueue when the pending-job buffer is full.
var ErrQueueFull = errors.New("ingestion queue full")

// Queue runs ingestion jobs on a worker pool, out-of-band from the upload
// request. Enqueue hands the job to a buffered channel and returns without
// waiting for a free worker; enqueued jobs run to completion, there is no
// cancellation.
type Queue struct {
	pipeline *Pipeline
	pool     *ants.Pool
	jobs     chan Job
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// QueueOption configures the queue.
type QueueOption func(*Queue)

// WithQueueDepth sets the pending-job buffer size.
func WithQueueDepth(depth int) QueueOption {
	return func(q *Queue) {
		if depth > 0 {
			q.jobs = make(chan Job, depth)
		}
	}
}

// NewQueue creates a queue with the given number of workers. The workers are
// long-lived pool tasks draining the job buffer, so a full pool never blocks
// the producer.
func NewQueue(pipeline *Pipeline, workers int, opts ...QueueOption) (*Queue, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	q := &Queue{
		pipeline: pipeline,
		pool:     pool,
		jobs:     make(chan Job, DefaultQueueDepth),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	for i := 0; i < workers; i++ {
		if err := pool.Submit(q.work); err != nil {
			pool.Release()
			return nil, fmt.Errorf("failed to start ingestion worker: %w", err)
		}
	}
	return q, nil
}

// Enqueue schedules a job and returns immediately, even when every worker is
// mid-ingest. It fails with ErrQueueFull once the pending buffer is
// exhausted. Outcomes are logged and recorded in the document's status rather
// than reported to the caller.
func (q *Queue) Enqueue(job Job) error {
	q.wg.Add(1)
	select {
	case q.jobs <- job:
		return nil
	default:
		q.wg.Done()
		return ErrQueueFull
	}
}

func (q *Queue) work() {
	for job := range q.jobs {
		// The upload request is long gone; the job gets its own context.
		ctx := context.Background()
		count, err := q.pipeline.Ingest(ctx, job)
		if err != nil {
			q.logger.ErrorContext(ctx, "ingestion failed",
				"doc_id", job.DocID, "filename", job.Filename, "error", err)
		} else {
			q.logger.InfoContext(ctx, "ingestion completed",
				"doc_id", job.DocID, "filename", job.Filename, "chunks", count)
		}
		q.wg.Done()
	}
}

// Wait blocks until all enqueued jobs have finished.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Close waits for in-flight jobs, stops the workers, and releases the pool.
func (q *Queue) Close() {
	q.wg.Wait()
	close(q.jobs)
	q.pool.Release()
}
