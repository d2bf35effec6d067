// Package dispatch runs blocking work away from the UI loop and hands the
// results back to it, so every state change happens on one goroutine.
package dispatch

import (
	"context"
	"sync"
)

// Runner starts work and later calls done with its result. done always runs
// on the goroutine that owns UI state.
type Runner interface {
	Go(work func(ctx context.Context) error, done func(err error))
}

// Queue runs work on its own goroutine and queues the continuation until the
// UI loop calls Drain.
type Queue struct {
	ctx     context.Context
	mu      sync.Mutex
	pending []func()
	wg      sync.WaitGroup
}

func NewQueue(ctx context.Context) *Queue {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Queue{ctx: ctx}
}

func (q *Queue) Go(work func(ctx context.Context) error, done func(err error)) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		err := work(q.ctx)
		if done == nil {
			return
		}
		q.mu.Lock()
		q.pending = append(q.pending, func() { done(err) })
		q.mu.Unlock()
	}()
}

// Drain runs every queued continuation in completion order and returns how
// many ran. Call it once per frame from the UI loop.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Wait blocks until all started work has finished. Continuations still need
// a Drain.
func (q *Queue) Wait() { q.wg.Wait() }

// Inline runs work and its continuation synchronously on the caller.
type Inline struct {
	Ctx context.Context
}

func (r Inline) Go(work func(ctx context.Context) error, done func(err error)) {
	ctx := r.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	err := work(ctx)
	if done != nil {
		done(err)
	}
}
