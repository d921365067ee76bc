// Package queue buffers decision tasks between the HTTP layer and the
// learning workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/talentrank/internal/domain/learning"
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/pkg/metrics"
)

const defaultCapacity = 10000

// Task carries one recruiter decision to the learning workers, together with
// the score snapshot and scope resolved at submission time.
type Task struct {
	Feedback     model.FeedbackRecord
	Scope        model.Scope
	Scores       learning.FactorScores
	LearningRate float64
}

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds a task. Returns false when the queue is full or closed.
	Enqueue(ctx context.Context, t Task) bool

	// Dequeue returns the channel workers consume tasks from. The channel
	// is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Task

	// Len returns the current number of buffered tasks.
	Len(ctx context.Context) int

	// Close stops the queue. Buffered tasks are still delivered.
	Close() error
}

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	tasks    chan Task
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// Option applies a configuration option to the queue.
type Option func(*InMemoryQueue)

// WithCapacity bounds how many tasks the queue buffers.
func WithCapacity(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan Task, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue adds a task without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordDecisionDropped()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.tasks <- t:
		size := len(q.tasks)
		metrics.UpdateQueueSize(size)
		metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordDecisionDropped()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordDecisionDropped()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns the consumption channel.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Task {
	return q.tasks
}

// Len returns the number of buffered tasks.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.tasks)
}

// Close stops accepting tasks and closes the dequeue channel once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.tasks)
	return nil
}
