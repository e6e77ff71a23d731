package concurrency

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/vnykmshr/threadflow/pkg/common/errors"
)

// Limiter bounds the number of operations in flight using a weighted
// semaphore. It is intended for callers that submit pool tasks from many
// goroutines and need a ceiling on outstanding work.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int64
	active   atomic.Int64
}

// New creates a Limiter that admits at most limit concurrent operations.
func New(limit int) (*Limiter, error) {
	if limit <= 0 {
		return nil, errors.NewValidationError("concurrency", "limit", limit, "limit must be positive")
	}
	return &Limiter{
		sem:      semaphore.NewWeighted(int64(limit)),
		capacity: int64(limit),
	}, nil
}

// Acquire blocks until a slot is available or the context is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot without blocking, reporting whether it succeeded.
func (l *Limiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release returns a previously acquired slot.
func (l *Limiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// Do acquires a slot, runs fn, and releases the slot. The slot is
// released even if fn panics.
func (l *Limiter) Do(ctx context.Context, fn func()) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	fn()
	return nil
}

// Active returns the number of slots currently held.
func (l *Limiter) Active() int {
	return int(l.active.Load())
}

// Capacity returns the configured concurrency limit.
func (l *Limiter) Capacity() int {
	return int(l.capacity)
}
