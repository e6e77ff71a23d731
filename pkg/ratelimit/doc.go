/*
Package ratelimit provides rate limiting primitives used to gate task
submission into a thread pool.

Subpackages:
  - bucket: token bucket limiter with burst capacity (single process)
  - concurrency: weighted-semaphore limiter bounding operations in flight
  - distributed: fixed-window limiter coordinated through Redis

All limiters can drive a threadpool.ThrottledPool through its Gate
interface.
*/
package ratelimit
