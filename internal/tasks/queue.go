// internal/tasks/queue.go
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Func is the unit of background work. Errors are logged, never retried and
// never surfaced to the request that enqueued the job.
type Func func() error

// Job is the handle returned to callers at enqueue time.
type Job struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type queuedJob struct {
	job Job
	fn  Func
}

// Queue is a fixed worker pool fed by a buffered channel. Enqueue never
// blocks the caller: when the buffer is full the job is dropped and logged.
type Queue struct {
	jobs     chan queuedJob
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	stopOnce sync.Once
}

func NewQueue(workers, size int) *Queue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}

	q := &Queue{
		jobs: make(chan queuedJob, size),
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}

	return q
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for item := range q.jobs {
		q.run(item)
	}
}

func (q *Queue) run(item queuedJob) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"job_id":   item.job.ID,
				"job_name": item.job.Name,
				"panic":    r,
			}).Error("Background job panicked")
		}
	}()

	start := time.Now()
	if err := item.fn(); err != nil {
		logrus.WithFields(logrus.Fields{
			"job_id":   item.job.ID,
			"job_name": item.job.Name,
			"duration": time.Since(start).Milliseconds(),
		}).WithError(err).Error("Background job failed")
		return
	}

	logrus.WithFields(logrus.Fields{
		"job_id":   item.job.ID,
		"job_name": item.job.Name,
		"duration": time.Since(start).Milliseconds(),
	}).Info("Background job completed")
}

// Enqueue hands the job to the pool and returns its handle immediately.
func (q *Queue) Enqueue(name string, fn Func) Job {
	job := Job{
		ID:         uuid.New(),
		Name:       name,
		EnqueuedAt: time.Now(),
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		logrus.WithFields(logrus.Fields{
			"job_id":   job.ID,
			"job_name": job.Name,
		}).Error("Task queue stopped, job dropped")
		return job
	}

	select {
	case q.jobs <- queuedJob{job: job, fn: fn}:
	default:
		logrus.WithFields(logrus.Fields{
			"job_id":   job.ID,
			"job_name": job.Name,
		}).Error("Task queue full, job dropped")
	}

	return job
}

// Shutdown stops accepting work and waits for in-flight jobs until the
// context expires.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.jobs)
		q.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
