// Package async runs per-document assembly jobs on a bounded worker pool.
// Jobs carry only serializable inputs and an index into the batch's record
// slice, so workers never contend on shared state.
package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mfuentesc/boletas-engine/internal/entity"
)

// ErrClosed is returned by Submit once shutdown has begun.
var ErrClosed = errors.New("queue is shutting down")

// Job is one document assembly task. Index is the record slot the result
// belongs to.
type Job struct {
	Index int
	Doc   entity.SourceDocument
}

// ProcessFunc consumes one job. It must be safe for concurrent calls and
// must write only to state owned by the job (its record slot).
type ProcessFunc func(ctx context.Context, job Job)

type Queue struct {
	logger  *slog.Logger
	process ProcessFunc
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithJobTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// NewQueue builds the pool and starts its workers immediately.
func NewQueue(logger *slog.Logger, process ProcessFunc, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		logger:  logger,
		process: process,
		workers: 4,
		timeout: time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("async.worker.started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					q.process(ctx, job)
					cancel()
					q.logger.Debug("async.job.done", "worker_id", workerID, "source", job.Doc.Path)
				}

				q.logger.Debug("async.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Submit enqueues a job, blocking when the queue is full. A canceled
// context or a closed queue refuses the job.
func (q *Queue) Submit(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("async.submit.refused", "source", job.Doc.Path)
		return ErrClosed
	}
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for the workers to drain the
// queue, bounded by ctx. Safe to call more than once.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("async.shutdown.interrupted")
		return ctx.Err()
	case <-done:
		q.logger.Debug("async.queue.drained")
		return nil
	}
}
