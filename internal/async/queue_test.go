package async

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfuentesc/boletas-engine/internal/entity"
)

func TestQueueProcessesAllJobs(t *testing.T) {
	const n = 20
	results := make([]string, n)

	q := NewQueue(nil, func(_ context.Context, job Job) {
		results[job.Index] = job.Doc.Path
	}, WithWorkers(4), WithQueueSize(n))

	ctx := context.Background()
	for i := 0; i < n; i++ {
		require.NoError(t, q.Submit(ctx, Job{Index: i, Doc: entity.SourceDocument{Path: "doc"}}))
	}
	require.NoError(t, q.Shutdown(ctx))

	for i, got := range results {
		assert.Equal(t, "doc", got, "job %d", i)
	}
}

func TestQueueJobsOwnTheirSlot(t *testing.T) {
	const n = 50
	var mu sync.Mutex
	seen := map[int]int{}

	q := NewQueue(nil, func(_ context.Context, job Job) {
		mu.Lock()
		seen[job.Index]++
		mu.Unlock()
	}, WithWorkers(8))

	ctx := context.Background()
	for i := 0; i < n; i++ {
		require.NoError(t, q.Submit(ctx, Job{Index: i}))
	}
	require.NoError(t, q.Shutdown(ctx))

	assert.Len(t, seen, n)
	for i, count := range seen {
		assert.Equal(t, 1, count, "job %d", i)
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	q := NewQueue(nil, func(context.Context, Job) {})
	require.NoError(t, q.Shutdown(context.Background()))

	err := q.Submit(context.Background(), Job{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubmitCanceledContext(t *testing.T) {
	q := NewQueue(nil, func(context.Context, Job) {})
	defer func() { _ = q.Shutdown(context.Background()) }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.Submit(ctx, Job{}), context.Canceled)
}

func TestShutdownIsIdempotent(t *testing.T) {
	q := NewQueue(nil, func(context.Context, Job) {})
	require.NoError(t, q.Shutdown(context.Background()))
	require.NoError(t, q.Shutdown(context.Background()))
}

func TestShutdownHonorsContext(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue(nil, func(_ context.Context, _ Job) {
		<-release
	}, WithWorkers(1))
	require.NoError(t, q.Submit(context.Background(), Job{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
}
