/*
Package threadpool provides a dynamically resizable worker pool driven by
a single dispatcher goroutine.

Unlike channel-fanout pools, where every worker receives from a shared
channel, this pool keeps an explicit worker table and a FIFO task queue,
bridged by one dispatcher. The dispatcher blocks while no worker is free
or no task is queued, wakes on a shared signal, and hands each task to a
specific idle worker. The design trades a little dispatch latency for
precise accounting: the pool always knows exactly how many workers are
idle and how many tasks are pending.

Basic usage:

	pool := threadpool.New(4, 8) // 4 workers, ceiling of 8
	defer pool.Shutdown()

	pool.Submit(func() {
		// do work
	}, func() {
		// runs after the work, on the same worker
	})

Tasks are pairs of zero-argument callables. The Work callable is the unit
of execution; the optional Completion callable runs immediately after it
on the same worker goroutine. Panics raised by either are absorbed by the
worker, which returns to the idle state regardless, so a failing task
never costs the pool capacity. There is no retry: a task that panicked is
complete as far as the pool is concerned.

Resizing is growth-only:

	pool.Resize(6)        // true: 4 → 6 workers
	pool.Resize(2)        // false: shrinking is unsupported
	pool.Resize(100)      // false: above MaxWorkers

Shutdown is soft and fire-and-forget. In-flight tasks run to completion,
queued tasks that were never assigned are abandoned, and the call returns
without waiting:

	pool.Shutdown() // idempotent

Submissions after Shutdown are still enqueued but never consumed; callers
that need a hard boundary should gate submission themselves (see
ThrottledPool).

Two wrappers compose with the core pool: MetricsPool adds Prometheus
instrumentation, and ThrottledPool gates submissions through a rate or
concurrency limiter.
*/
package threadpool
