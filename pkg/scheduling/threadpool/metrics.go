package threadpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/threadflow/pkg/metrics"
)

// MetricsPool wraps a Pool with Prometheus metrics collection.
type MetricsPool struct {
	pool     *Pool
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a pool with metrics enabled on a private
// Prometheus registry, avoiding collisions between instances.
func NewWithMetrics(workers, maxWorkers int, name string) *MetricsPool {
	registry := prometheus.NewRegistry()
	return NewPoolMetrics(New(workers, maxWorkers), name, metrics.Config{
		Enabled:  true,
		Registry: registry,
	})
}

// NewPoolMetrics wraps an existing pool with metrics configured by cfg.
func NewPoolMetrics(pool *Pool, name string, cfg metrics.Config) *MetricsPool {
	registry := metrics.DefaultRegistry
	if cfg.Registry != nil {
		registry = metrics.NewRegistry(cfg.Registry)
	}

	mp := &MetricsPool{
		pool:     pool,
		name:     name,
		registry: registry,
		enabled:  cfg.Enabled,
	}
	mp.updateGauges()
	return mp
}

// Registry exposes the metric registry backing this pool, mainly so
// callers can hand it to an HTTP exporter.
func (mp *MetricsPool) Registry() *metrics.Registry {
	return mp.registry
}

// updateGauges refreshes the current-state gauges.
func (mp *MetricsPool) updateGauges() {
	if !mp.enabled {
		return
	}
	mp.registry.PoolWorkers.WithLabelValues(mp.name).Set(float64(mp.pool.Size()))
	mp.registry.PoolFreeWorkers.WithLabelValues(mp.name).Set(float64(mp.pool.FreeWorkers()))
	mp.registry.PoolMaxWorkers.WithLabelValues(mp.name).Set(float64(mp.pool.MaxWorkers()))
	mp.registry.PoolQueuedTasks.WithLabelValues(mp.name).Set(float64(mp.pool.QueueSize()))
}

// instrument wraps the task's Work callable to record execution metrics.
// A panic still propagates to the worker's containment boundary; it is
// counted as a failure on the way out.
func (mp *MetricsPool) instrument(t Task) Task {
	if !mp.enabled {
		return t
	}

	work := t.Work
	t.Work = func() {
		start := time.Now()
		completed := false
		defer func() {
			mp.registry.TaskExecutionDuration.WithLabelValues(mp.name).Observe(time.Since(start).Seconds())
			mp.registry.TasksExecuted.WithLabelValues(mp.name).Inc()
			if completed {
				mp.registry.TasksCompleted.WithLabelValues(mp.name).Inc()
			} else {
				mp.registry.TasksFailed.WithLabelValues(mp.name).Inc()
			}
			mp.updateGauges()
		}()
		if work != nil {
			work()
		}
		completed = true
	}
	return t
}

// Submit enqueues a work/completion pair, recording submission metrics.
func (mp *MetricsPool) Submit(work, completion func()) {
	mp.SubmitTask(Task{Work: work, Completion: completion})
}

// SubmitTask enqueues one task, recording submission metrics.
func (mp *MetricsPool) SubmitTask(t Task) {
	mp.pool.SubmitTask(mp.instrument(t))
	if mp.enabled {
		mp.registry.TasksSubmitted.WithLabelValues(mp.name).Inc()
		mp.updateGauges()
	}
}

// SubmitBatch enqueues tasks as one contiguous run, recording metrics.
func (mp *MetricsPool) SubmitBatch(tasks []Task) {
	if len(tasks) == 0 {
		return
	}
	instrumented := make([]Task, len(tasks))
	for i, t := range tasks {
		instrumented[i] = mp.instrument(t)
	}
	mp.pool.SubmitBatch(instrumented)
	if mp.enabled {
		mp.registry.TasksSubmitted.WithLabelValues(mp.name).Add(float64(len(tasks)))
		mp.updateGauges()
	}
}

// Resize grows the pool to n workers; see Pool.Resize.
func (mp *MetricsPool) Resize(n int) bool {
	ok := mp.pool.Resize(n)
	mp.updateGauges()
	return ok
}

// SetMaxWorkers sets the growth ceiling; see Pool.SetMaxWorkers.
func (mp *MetricsPool) SetMaxWorkers(n int) {
	mp.pool.SetMaxWorkers(n)
	mp.updateGauges()
}

// MaxWorkers returns the current growth ceiling.
func (mp *MetricsPool) MaxWorkers() int { return mp.pool.MaxWorkers() }

// Size returns the current number of workers.
func (mp *MetricsPool) Size() int { return mp.pool.Size() }

// FreeWorkers returns the number of idle workers.
func (mp *MetricsPool) FreeWorkers() int { return mp.pool.FreeWorkers() }

// QueueSize returns a snapshot of the number of queued tasks.
func (mp *MetricsPool) QueueSize() int { return mp.pool.QueueSize() }

// Shutdown closes the underlying pool; see Pool.Shutdown.
func (mp *MetricsPool) Shutdown() {
	mp.pool.Shutdown()
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPool) EnableMetrics(cfg metrics.Config) error {
	mp.enabled = cfg.Enabled
	if cfg.Registry != nil {
		mp.registry = metrics.NewRegistry(cfg.Registry)
	}
	mp.updateGauges()
	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.enabled
}
