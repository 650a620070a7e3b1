package builder

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolSaturated is returned by Submit when the task queue is full.
var ErrPoolSaturated = errors.New("trigger queue is full")

// ErrPoolStopped is returned by Submit after Stop has been called.
var ErrPoolStopped = errors.New("trigger pool is stopped")

// Pool is a bounded worker pool for fire-and-forget trigger work. The
// creating request hands a task off and returns immediately; the number of
// in-flight provider calls never exceeds the worker count.
type Pool struct {
	baseCtx context.Context
	tasks   chan func(context.Context)
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool of workers running tasks against ctx. Tasks queued
// at shutdown still run to completion, but ctx lets long waits (such as the
// simulator delay) bail out when the process is going down. Non-positive
// sizes fall back to 1 worker and an unbuffered hand-off.
func NewPool(ctx context.Context, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{
		baseCtx: ctx,
		tasks:   make(chan func(context.Context), queueSize),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task(p.baseCtx)
	}
}

// Submit enqueues a task without blocking.
func (p *Pool) Submit(task func(context.Context)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolStopped
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolSaturated
	}
}

// Stop closes the queue and waits for queued and in-flight tasks to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	p.wg.Wait()
}
