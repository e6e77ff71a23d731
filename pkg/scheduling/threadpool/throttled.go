package threadpool

import (
	"context"
	"fmt"

	"github.com/vnykmshr/threadflow/pkg/common/errors"
	"github.com/vnykmshr/threadflow/pkg/metrics"
)

// Gate admits or denies submissions. The limiters in pkg/ratelimit
// satisfy it directly (distributed) or through GateFunc (bucket,
// concurrency).
type Gate interface {
	// AllowN reports whether n submissions may happen now.
	AllowN(ctx context.Context, n int) bool
}

// GateFunc adapts a function to the Gate interface.
type GateFunc func(ctx context.Context, n int) bool

// AllowN implements Gate.
func (f GateFunc) AllowN(ctx context.Context, n int) bool {
	return f(ctx, n)
}

// ThrottledPool gates submissions into a Pool. Denied submissions are
// dropped with ErrRateLimited; the pool itself is untouched by denial.
type ThrottledPool struct {
	pool     *Pool
	gate     Gate
	name     string
	registry *metrics.Registry
}

// NewThrottled wraps pool with the given gate.
func NewThrottled(pool *Pool, gate Gate) *ThrottledPool {
	return &ThrottledPool{pool: pool, gate: gate}
}

// NewThrottledMetrics wraps pool with the given gate and records
// admission outcomes under the given name.
func NewThrottledMetrics(pool *Pool, gate Gate, name string, cfg metrics.Config) *ThrottledPool {
	tp := NewThrottled(pool, gate)
	if cfg.Enabled {
		tp.name = name
		tp.registry = metrics.DefaultRegistry
		if cfg.Registry != nil {
			tp.registry = metrics.NewRegistry(cfg.Registry)
		}
	}
	return tp
}

// admit consults the gate for n submissions and records the outcome.
func (tp *ThrottledPool) admit(ctx context.Context, n int) bool {
	allowed := tp.gate.AllowN(ctx, n)
	if tp.registry != nil {
		tp.registry.ThrottleRequests.WithLabelValues(tp.name).Add(float64(n))
		if allowed {
			tp.registry.ThrottleAllowed.WithLabelValues(tp.name).Add(float64(n))
		} else {
			tp.registry.ThrottleDenied.WithLabelValues(tp.name).Add(float64(n))
		}
	}
	return allowed
}

// Submit enqueues a work/completion pair if the gate admits it.
func (tp *ThrottledPool) Submit(ctx context.Context, work, completion func()) error {
	return tp.SubmitTask(ctx, Task{Work: work, Completion: completion})
}

// SubmitTask enqueues one task if the gate admits it.
func (tp *ThrottledPool) SubmitTask(ctx context.Context, t Task) error {
	if !tp.admit(ctx, 1) {
		return fmt.Errorf("submit denied: %w", errors.ErrRateLimited)
	}
	tp.pool.SubmitTask(t)
	return nil
}

// SubmitBatch enqueues a batch if the gate admits all of it. The batch
// is all-or-nothing: a denial enqueues none of the tasks.
func (tp *ThrottledPool) SubmitBatch(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if !tp.admit(ctx, len(tasks)) {
		return fmt.Errorf("submit batch of %d denied: %w", len(tasks), errors.ErrRateLimited)
	}
	tp.pool.SubmitBatch(tasks)
	return nil
}

// Pool returns the wrapped pool for introspection and lifecycle calls.
func (tp *ThrottledPool) Pool() *Pool {
	return tp.pool
}
