// internal/tasks/queue_test.go
package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueRunsJobs(t *testing.T) {
	q := NewQueue(2, 16)

	var ran int64
	for i := 0; i < 5; i++ {
		job := q.Enqueue("count", func() error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
		assert.Equal(t, "count", job.Name)
		assert.NotZero(t, job.ID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))

	assert.EqualValues(t, 5, atomic.LoadInt64(&ran))
}

func TestFailingJobDoesNotStopWorkers(t *testing.T) {
	q := NewQueue(1, 16)

	var ran int64
	q.Enqueue("fails", func() error {
		return errors.New("boom")
	})
	q.Enqueue("panics", func() error {
		panic("boom")
	})
	q.Enqueue("succeeds", func() error {
		atomic.AddInt64(&ran, 1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))

	assert.EqualValues(t, 1, atomic.LoadInt64(&ran))
}

func TestFullQueueDropsJob(t *testing.T) {
	q := NewQueue(1, 1)

	release := make(chan struct{})
	q.Enqueue("blocks", func() error {
		<-release
		return nil
	})

	// Fill the buffer, then overflow it
	var dropped int64
	q.Enqueue("buffered", func() error { return nil })
	q.Enqueue("overflow", func() error {
		atomic.AddInt64(&dropped, 1)
		return nil
	})

	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))

	// The overflow job never ran
	assert.EqualValues(t, 0, atomic.LoadInt64(&dropped))
}

func TestEnqueueAfterShutdownDropsJob(t *testing.T) {
	q := NewQueue(1, 16)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))

	var ran int64
	job := q.Enqueue("late", func() error {
		atomic.AddInt64(&ran, 1)
		return nil
	})
	assert.Equal(t, "late", job.Name)
	assert.EqualValues(t, 0, atomic.LoadInt64(&ran))

	// Shutdown stays idempotent
	require.NoError(t, q.Shutdown(ctx))
}
