// Package metrics provides Prometheus instrumentation for threadflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for threadflow components.
type Registry struct {
	// Thread Pool Metrics
	PoolWorkers     *prometheus.GaugeVec
	PoolFreeWorkers *prometheus.GaugeVec
	PoolMaxWorkers  *prometheus.GaugeVec
	PoolQueuedTasks *prometheus.GaugeVec

	TasksSubmitted        *prometheus.CounterVec
	TasksExecuted         *prometheus.CounterVec
	TasksCompleted        *prometheus.CounterVec
	TasksFailed           *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec

	// Submission Throttling Metrics
	ThrottleRequests *prometheus.CounterVec
	ThrottleAllowed  *prometheus.CounterVec
	ThrottleDenied   *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by threadflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		PoolWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "threadflow",
				Subsystem: "threadpool",
				Name:      "workers",
				Help:      "Current number of workers in the pool",
			},
			[]string{"pool_name"},
		),

		PoolFreeWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "threadflow",
				Subsystem: "threadpool",
				Name:      "free_workers",
				Help:      "Number of idle workers awaiting assignment",
			},
			[]string{"pool_name"},
		),

		PoolMaxWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "threadflow",
				Subsystem: "threadpool",
				Name:      "max_workers",
				Help:      "Configured worker ceiling for growth",
			},
			[]string{"pool_name"},
		),

		PoolQueuedTasks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "threadflow",
				Subsystem: "threadpool",
				Name:      "queued_tasks",
				Help:      "Number of tasks waiting in the queue",
			},
			[]string{"pool_name"},
		),

		TasksSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadflow",
				Subsystem: "threadpool",
				Name:      "tasks_submitted_total",
				Help:      "Total number of tasks submitted to the pool",
			},
			[]string{"pool_name"},
		),

		TasksExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadflow",
				Subsystem: "threadpool",
				Name:      "tasks_executed_total",
				Help:      "Total number of tasks picked up by workers",
			},
			[]string{"pool_name"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadflow",
				Subsystem: "threadpool",
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks that finished without panicking",
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadflow",
				Subsystem: "threadpool",
				Name:      "tasks_failed_total",
				Help:      "Total number of tasks that panicked during execution",
			},
			[]string{"pool_name"},
		),

		TaskExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "threadflow",
				Subsystem: "threadpool",
				Name:      "task_duration_seconds",
				Help:      "Time spent executing tasks",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		ThrottleRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadflow",
				Subsystem: "throttle",
				Name:      "requests_total",
				Help:      "Total number of gated submission attempts",
			},
			[]string{"pool_name"},
		),

		ThrottleAllowed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadflow",
				Subsystem: "throttle",
				Name:      "allowed_total",
				Help:      "Total number of submissions admitted by the gate",
			},
			[]string{"pool_name"},
		),

		ThrottleDenied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "threadflow",
				Subsystem: "throttle",
				Name:      "denied_total",
				Help:      "Total number of submissions rejected by the gate",
			},
			[]string{"pool_name"},
		),
	}
}
