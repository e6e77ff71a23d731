/*
Package threadflow provides a dispatcher-based worker pool for Go with
growth-only resizing, submission gating, and cron-style scheduling.

Task Scheduling (pkg/scheduling):
  - threadpool: resizable worker pool driven by a single dispatcher
  - scheduler: cron and interval-based scheduling into a pool

Rate Limiting (pkg/ratelimit):
  - bucket: token bucket rate limiter with burst capacity
  - concurrency: weighted-semaphore concurrency limiter
  - distributed: multi-instance submission gating with Redis

Example usage:

	import (
		"github.com/vnykmshr/threadflow/pkg/ratelimit/bucket"
		"github.com/vnykmshr/threadflow/pkg/scheduling/threadpool"
	)

	limiter, _ := bucket.New(10, 20) // 10 tokens/s, burst 20
	pool := threadpool.New(4, 8)     // 4 workers, ceiling 8
	defer pool.Shutdown()

	if limiter.Allow() {
		pool.Submit(task, nil)
	}
*/
package threadflow
