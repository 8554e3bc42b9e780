package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRejectsDuplicateKeyWhileRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	done := make(chan struct{}, 2)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		started <- struct{}{}
		<-release
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "1", Key: "batch-1:2024-05"}))
	<-started
	assert.True(t, q.Pending("batch-1:2024-05"))
	assert.ErrorIs(t, q.Enqueue(context.Background(), Job{ID: "2", Key: "batch-1:2024-05"}), ErrDuplicateJob)

	close(release)
	<-done
	require.Eventually(t, func() bool { return !q.Pending("batch-1:2024-05") }, time.Second, 5*time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "3", Key: "batch-1:2024-05"}))
	<-done
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls int32
	finished := make(chan struct{})
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("transient")
		}
		close(finished)
		return nil
	}, QueueConfig{MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "job", Key: "k"}))
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Eventually(t, func() bool { return !q.Pending("k") }, time.Second, 5*time.Millisecond)
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(context.Background(), Job{ID: "x"}))
}

func TestQueueEnqueueGivesUpWhenBufferStaysFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	q := NewQueue("full", func(ctx context.Context, job Job) error {
		started <- struct{}{}
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()
	defer close(release)

	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "running", Key: "batch-1:2024-05"}))
	<-started
	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "buffered", Key: "batch-2:2024-05"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Job{ID: "blocked", Key: "batch-3:2024-05"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, q.Pending("batch-3:2024-05"))
}
