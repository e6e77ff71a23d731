package threadpool

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/threadflow/internal/testutil"
	"github.com/vnykmshr/threadflow/pkg/metrics"
)

func TestMetricsPoolCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp := NewPoolMetrics(New(2, 4), "test-pool", metrics.Config{Enabled: true, Registry: reg})
	defer stop(mp.pool)

	var done = make(chan struct{}, 3)
	mp.Submit(func() {}, func() { done <- struct{}{} })
	mp.Submit(func() { panic("boom") }, func() { done <- struct{}{} })
	mp.SubmitBatch([]Task{{Work: func() {}, Completion: func() { done <- struct{}{} }}})
	for i := 0; i < 3; i++ {
		<-done
	}

	r := mp.Registry()
	testutil.Eventually(t, func() bool {
		return promtest.ToFloat64(r.TasksExecuted.WithLabelValues("test-pool")) == 3
	}, "executed counter never reached 3")

	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksSubmitted.WithLabelValues("test-pool")), 3)
	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksCompleted.WithLabelValues("test-pool")), 2)
	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksFailed.WithLabelValues("test-pool")), 1)
}

func TestMetricsPoolGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp := NewPoolMetrics(New(2, 4), "gauges", metrics.Config{Enabled: true, Registry: reg})
	defer stop(mp.pool)

	r := mp.Registry()
	testutil.AssertEqual(t, promtest.ToFloat64(r.PoolWorkers.WithLabelValues("gauges")), 2)
	testutil.AssertEqual(t, promtest.ToFloat64(r.PoolMaxWorkers.WithLabelValues("gauges")), 4)

	testutil.AssertEqual(t, mp.Resize(3), true)
	testutil.AssertEqual(t, promtest.ToFloat64(r.PoolWorkers.WithLabelValues("gauges")), 3)
	testutil.AssertEqual(t, mp.Size(), 3)
}

func TestMetricsPoolDisabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp := NewPoolMetrics(New(1, 1), "off", metrics.Config{Enabled: false, Registry: reg})
	defer stop(mp.pool)

	testutil.AssertEqual(t, mp.MetricsEnabled(), false)

	done := make(chan struct{})
	mp.Submit(func() {}, func() { close(done) })
	<-done

	r := mp.Registry()
	testutil.AssertEqual(t, promtest.ToFloat64(r.TasksSubmitted.WithLabelValues("off")), 0)

	mp.DisableMetrics()
	testutil.AssertEqual(t, mp.MetricsEnabled(), false)
}

func TestNewWithMetricsUsesPrivateRegistry(t *testing.T) {
	a := NewWithMetrics(1, 1, "same-name")
	defer stop(a.pool)
	b := NewWithMetrics(1, 1, "same-name")
	defer stop(b.pool)

	// Two pools with the same name must not collide on registration.
	testutil.AssertEqual(t, a.MetricsEnabled(), true)
	testutil.AssertEqual(t, b.MetricsEnabled(), true)
	testutil.AssertNotEqual(t, a.Registry(), b.Registry())
}
