// Package metrics holds the service's prometheus collectors. Each Metrics
// value owns a private registry so tests can build as many as they like.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "financial_agent"

// Analysis outcomes.
const (
	OutcomeNarrated = "narrated"
	OutcomeDegraded = "degraded"
)

// Metrics is safe for concurrent use. All methods are no-ops on a nil
// receiver so components can be built without instrumentation.
type Metrics struct {
	reg *prometheus.Registry

	httpDuration       *prometheus.HistogramVec
	analyses           *prometheus.CounterVec
	completions        *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	tasks              *prometheus.CounterVec
}

// New registers every collector, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Financial analyses served, by whether the narrative succeeded.",
		}, []string{"outcome"}),

		completions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completion provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),

		completionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Latency of completion provider calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 90},
		}, []string{"provider"}),

		tasks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Automated tasks executed by task type and final status.",
		}, []string{"task_type", "status"}),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObserveAnalysis counts a receive_message result.
func (m *Metrics) ObserveAnalysis(outcome string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
}

// ObserveCompletion records one provider call. It satisfies ai.Recorder.
func (m *Metrics) ObserveCompletion(provider string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.completions.WithLabelValues(provider, outcome).Inc()
	m.completionDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveTask counts a dispatched task. An empty task type is reported as
// "generic".
func (m *Metrics) ObserveTask(taskType, status string) {
	if m == nil {
		return
	}
	if taskType == "" {
		taskType = "generic"
	}
	m.tasks.WithLabelValues(taskType, status).Inc()
}
