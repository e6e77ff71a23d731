/*
Package concurrency limits the number of operations in flight.

Unlike the token bucket in pkg/ratelimit/bucket, which limits frequency,
this limiter bounds parallelism: at most N operations hold a slot at any
instant, regardless of how fast they arrive.

	lim, _ := concurrency.New(8)

	err := lim.Do(ctx, func() {
		pool.Submit(work, nil)
	})
*/
package concurrency
