// Package pool provides the bounded worker pool that executes batch
// evaluation tasks for the mini-batch orchestrator.
package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gradflow/gradflow/types"
)

// Task computes a value of type T, typically one batch evaluation.
type Task[T any] func(ctx context.Context) (T, error)

// Outcome carries a completed task's value or error. Completions arrive on
// the submitter's channel in finish order, not submission order.
type Outcome[T any] struct {
	Value T
	Err   error
}

type job[T any] struct {
	ctx     context.Context
	task    Task[T]
	results chan<- Outcome[T]
}

// Pool is a fixed-size worker pool. Workers are started once at
// construction and live until Close; the pool is never resized.
type Pool[T any] struct {
	queue  chan job[T]
	closed atomic.Bool
	wg     sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// New creates a pool with the given worker count and queue capacity.
// workers must be at least 1; queueSize must cover the largest number of
// tasks submitted by a single caller before draining, or Submit may block.
func New[T any](workers, queueSize int) (*Pool[T], error) {
	if workers < 1 {
		return nil, types.Errorf(types.ErrInvalidConfiguration, "worker count must be at least 1, got %d", workers)
	}
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Pool[T]{queue: make(chan job[T], queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p, nil
}

// Submit hands a task to the pool. The outcome is delivered on results,
// which must have capacity for every outstanding submission so that a
// caller abandoning the drain cannot block a worker.
func (p *Pool[T]) Submit(ctx context.Context, task Task[T], results chan<- Outcome[T]) error {
	if p.closed.Load() {
		return types.NewError(types.ErrPoolClosed, "submit on closed pool")
	}
	select {
	case p.queue <- job[T]{ctx: ctx, task: task, results: results}:
		p.submitted.Add(1)
		return nil
	case <-ctx.Done():
		return types.WrapError(types.ErrEvaluationFailure, "task submission cancelled", ctx.Err())
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for j := range p.queue {
		out := p.run(j)
		if out.Err != nil {
			p.failed.Add(1)
		} else {
			p.completed.Add(1)
		}
		j.results <- out
	}
}

func (p *Pool[T]) run(j job[T]) (out Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out.Err = types.Errorf(types.ErrEvaluationFailure, "task panicked: %v", r)
		}
	}()
	out.Value, out.Err = j.task(j.ctx)
	if out.Err != nil {
		out.Err = types.WrapError(types.ErrEvaluationFailure, "task failed", out.Err)
	}
	return out
}

// Close stops accepting submissions and waits for queued tasks to finish.
// Safe to call more than once.
func (p *Pool[T]) Close() {
	if p.closed.Swap(true) {
		return
	}
	close(p.queue)
	p.wg.Wait()
}

// Stats returns a snapshot of pool counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Queued:    len(p.queue),
	}
}

// Stats contains pool counters.
type Stats struct {
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Queued    int   `json:"queued"`
}
