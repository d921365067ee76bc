// Package worker drains the decision queue into the feedback learner.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/talentrank/internal/adapters/mq/queue"
	"github.com/okian/talentrank/internal/domain/learning"
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/pkg/logger"
	"github.com/okian/talentrank/pkg/metrics"
)

const defaultWorkerMultiplier = 4

// Learner applies one decision to the weight store.
type Learner interface {
	Submit(ctx context.Context, scope model.Scope, scores learning.FactorScores, outcome model.Outcome, learningRate float64) (model.WeightVector, uint64, error)
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Task
}

// Worker consumes decision tasks until its context is canceled or the queue
// closes. Learning is best-effort; a failed task is logged and dropped, never
// retried into the caller's path.
type Worker struct {
	queue   Queue
	learner Learner
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the worker.
type Option func(*Worker)

// WithName sets the worker's name for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(log logger.Logger) Option {
	return func(w *Worker) {
		if log != nil {
			w.logger = log
		}
	}
}

// NewWorker creates a worker bound to a queue and learner.
func NewWorker(q Queue, learner Learner, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		learner:  learner,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the consume loop. It returns when ctx is canceled, Shutdown is
// called, or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	tasks := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case task, ok := <-tasks:
			if !ok {
				return
			}
			if err := w.process(ctx, task); err != nil {
				metrics.RecordWorkerError()
				w.logger.Warn(ctx, "decision not applied",
					logger.String("applicationID", task.Feedback.ApplicationID),
					logger.Error(err),
				)
			}
		}
	}
}

// process applies one decision to the learner.
func (w *Worker) process(ctx context.Context, task queue.Task) error {
	weights, version, err := w.learner.Submit(ctx, task.Scope, task.Scores, task.Feedback.Outcome, task.LearningRate)
	if err != nil {
		if errors.Is(err, learning.ErrUpdateConflict) {
			return fmt.Errorf("scope still contested, decision dropped: %w", err)
		}
		return err
	}

	metrics.RecordDecisionAccepted()
	w.logger.Debug(ctx, "decision applied",
		logger.String("applicationID", task.Feedback.ApplicationID),
		logger.String("outcome", string(task.Feedback.Outcome)),
		logger.Float64("skillWeight", weights.Skill),
		logger.Int("version", int(version)),
	)
	return nil
}

// Shutdown stops the worker and waits for its loop to exit.
func (w *Worker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A non-positive count sizes
// the pool from the CPU count.
func NewPool(workerCount int, q Queue, learner Learner) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, learner, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Shutdown stops all workers, waiting up to the context deadline.
func (p *Pool) Shutdown(ctx context.Context) error {
	deadline := time.Now().Add(5 * time.Second)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}

	var firstErr error
	for _, w := range p.workers {
		wctx, cancel := context.WithDeadline(context.Background(), deadline)
		if err := w.Shutdown(wctx); err != nil && firstErr == nil {
			firstErr = err
		}
		cancel()
	}
	metrics.UpdateWorkerCount(0)
	return firstErr
}

// Size reports how many workers the pool runs.
func (p *Pool) Size() int {
	return len(p.workers)
}
