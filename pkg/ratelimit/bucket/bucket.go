package bucket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vnykmshr/threadflow/pkg/common/errors"
)

// tokenBucket implements the Limiter interface using a token bucket algorithm.
type tokenBucket struct {
	mu         sync.Mutex
	limit      Limit
	burst      int
	tokens     float64
	lastUpdate time.Time
	clock      Clock
}

// Allow reports whether an event may happen now.
func (tb *tokenBucket) Allow() bool {
	return tb.AllowN(1)
}

// AllowN reports whether n events may happen now.
func (tb *tokenBucket) AllowN(n int) bool {
	if n <= 0 {
		return true
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.limit == Inf {
		return true
	}

	tb.refill(tb.clock.Now())
	if tb.tokens >= float64(n) {
		tb.tokens -= float64(n)
		return true
	}
	return false
}

// Wait blocks until an event can happen.
func (tb *tokenBucket) Wait(ctx context.Context) error {
	return tb.WaitN(ctx, 1)
}

// WaitN blocks until n events can happen. It fails immediately when the
// request can never be satisfied (n exceeds burst, or the rate is zero
// and the remaining tokens are insufficient).
func (tb *tokenBucket) WaitN(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tb.mu.Lock()
		if tb.limit == Inf {
			tb.mu.Unlock()
			return nil
		}
		if n > tb.burst {
			tb.mu.Unlock()
			return fmt.Errorf("waitn %d exceeds burst %d: %w", n, tb.burst, errors.ErrCapacityExceeded)
		}

		now := tb.clock.Now()
		tb.refill(now)
		if tb.tokens >= float64(n) {
			tb.tokens -= float64(n)
			tb.mu.Unlock()
			return nil
		}
		if tb.limit == 0 {
			tb.mu.Unlock()
			return fmt.Errorf("zero rate and %d tokens short: %w", n, errors.ErrCapacityExceeded)
		}

		needed := float64(n) - tb.tokens
		delay := time.Duration(float64(time.Second) * needed / float64(tb.limit))
		tb.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// SetLimit changes the rate limit.
func (tb *tokenBucket) SetLimit(newLimit Limit) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.clock.Now())
	tb.limit = newLimit
}

// SetBurst changes the burst size.
func (tb *tokenBucket) SetBurst(newBurst int) {
	if newBurst <= 0 {
		panic("burst must be positive")
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.clock.Now())
	tb.burst = newBurst
	if tb.tokens > float64(newBurst) {
		tb.tokens = float64(newBurst)
	}
}

// Limit returns the current rate limit.
func (tb *tokenBucket) Limit() Limit {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.limit
}

// Burst returns the current burst size.
func (tb *tokenBucket) Burst() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.burst
}

// Tokens returns the number of tokens currently available.
func (tb *tokenBucket) Tokens() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(tb.clock.Now())
	return tb.tokens
}

// refill advances the bucket to now, crediting tokens earned since the
// last update. Caller holds tb.mu.
func (tb *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastUpdate)
	if elapsed <= 0 {
		return
	}
	tb.lastUpdate = now

	if tb.limit == Inf || tb.limit == 0 {
		return
	}

	tb.tokens += elapsed.Seconds() * float64(tb.limit)
	if tb.tokens > float64(tb.burst) {
		tb.tokens = float64(tb.burst)
	}
}
