package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the service's dedicated registry; the default global one is not
// used so tests can re-register freely.
var Registry = prometheus.NewRegistry()

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatchopt_http_requests_total",
		Help: "HTTP requests by method, path and status code.",
	}, []string{"method", "path", "code"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatchopt_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	JobsSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatchopt_jobs_submitted_total",
		Help: "Optimization jobs accepted, by strategy.",
	}, []string{"strategy"})

	JobsFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatchopt_jobs_finished_total",
		Help: "Optimization jobs finished, by strategy and outcome.",
	}, []string{"strategy", "outcome"})

	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatchopt_job_duration_seconds",
		Help:    "Time from worker pickup to terminal status.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"strategy"})

	QueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatchopt_job_queue_depth",
		Help: "Jobs waiting for a worker.",
	})
)

var registerOnce sync.Once

// Register installs all collectors on the service registry. Safe to call from
// multiple composition paths.
func Register() {
	registerOnce.Do(func() {
		Registry.MustRegister(
			HTTPRequests,
			HTTPDuration,
			JobsSubmitted,
			JobsFinished,
			JobDuration,
			QueueDepth,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}
