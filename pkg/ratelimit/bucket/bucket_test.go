package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/vnykmshr/threadflow/internal/testutil"
)

// fakeClock is a manually advanced Clock for deterministic refill tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		rate    Limit
		burst   int
		wantErr bool
	}{
		{"valid", 10, 5, false},
		{"zero rate", 0, 5, false},
		{"negative rate", -1, 5, true},
		{"zero burst", 10, 0, true},
		{"negative burst", 10, -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rate, tt.burst)
			if tt.wantErr {
				testutil.AssertError(t, err)
			} else {
				testutil.AssertNoError(t, err)
			}
		})
	}
}

func TestAllowBurst(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	lim, err := NewWithConfig(Config{Rate: 1, Burst: 3, Clock: clock, InitialTokens: -1})
	testutil.AssertNoError(t, err)

	for i := 0; i < 3; i++ {
		testutil.AssertEqual(t, lim.Allow(), true)
	}
	testutil.AssertEqual(t, lim.Allow(), false)

	// One token per second at rate 1.
	clock.advance(time.Second)
	testutil.AssertEqual(t, lim.Allow(), true)
	testutil.AssertEqual(t, lim.Allow(), false)
}

func TestAllowNAndRefillCap(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	lim, err := NewWithConfig(Config{Rate: 10, Burst: 5, Clock: clock, InitialTokens: -1})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, lim.AllowN(5), true)
	testutil.AssertEqual(t, lim.AllowN(1), false)

	// Refill never exceeds burst.
	clock.advance(time.Minute)
	testutil.AssertEqual(t, lim.Tokens(), 5.0)
	testutil.AssertEqual(t, lim.AllowN(6), false)
	testutil.AssertEqual(t, lim.AllowN(5), true)
}

func TestZeroRateSpendsInitialOnly(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	lim, err := NewWithConfig(Config{Rate: 0, Burst: 2, Clock: clock, InitialTokens: -1})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, lim.AllowN(2), true)
	clock.advance(time.Hour)
	testutil.AssertEqual(t, lim.Allow(), false)
}

func TestWaitN(t *testing.T) {
	lim, err := New(Every(time.Millisecond), 1)
	testutil.AssertNoError(t, err)

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	// First grab drains the bucket; second must wait for refill.
	testutil.AssertNoError(t, lim.WaitN(ctx, 1))
	testutil.AssertNoError(t, lim.WaitN(ctx, 1))
}

func TestWaitNExceedsBurst(t *testing.T) {
	lim, err := New(5, 2)
	testutil.AssertNoError(t, err)

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	testutil.AssertError(t, lim.WaitN(ctx, 3))
}

func TestWaitCanceled(t *testing.T) {
	lim, err := New(Every(time.Hour), 1)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, lim.Allow(), true)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	testutil.AssertEqual(t, lim.Wait(ctx), context.DeadlineExceeded)
}

func TestSetBurstClampsTokens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	lim, err := NewWithConfig(Config{Rate: 1, Burst: 10, Clock: clock, InitialTokens: -1})
	testutil.AssertNoError(t, err)

	lim.SetBurst(2)
	testutil.AssertEqual(t, lim.Burst(), 2)
	testutil.AssertEqual(t, lim.Tokens(), 2.0)
}

func TestEvery(t *testing.T) {
	testutil.AssertEqual(t, Every(time.Second), Limit(1))
	testutil.AssertEqual(t, Every(100*time.Millisecond), Limit(10))
	testutil.AssertEqual(t, Every(0), Inf)
}
