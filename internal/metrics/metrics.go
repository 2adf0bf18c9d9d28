// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/devicetrack/internal/onboarding"
)

const namespace = "devicetrack"

// Metrics groups the service collectors around their own registry.
type Metrics struct {
	registry *prometheus.Registry

	schoolsOnboarded *prometheus.CounterVec
	devicesCreated   *prometheus.CounterVec
	bulkUpdated      prometheus.Counter
	bulkMatched      prometheus.Counter
	requestDuration  *prometheus.HistogramVec
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		schoolsOnboarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schools_onboarded_total",
			Help:      "Schools onboarded, by request kind.",
		}, []string{"kind"}),
		devicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "devices_created_total",
			Help:      "Device records created during onboarding, by request kind.",
		}, []string{"kind"}),
		bulkUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_update_requested_items_total",
			Help:      "Item ids submitted to bulk status updates.",
		}),
		bulkMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_update_matched_items_total",
			Help:      "Items actually changed by bulk status updates.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.schoolsOnboarded,
		m.devicesCreated,
		m.bulkUpdated,
		m.bulkMatched,
		m.requestDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Onboarded implements onboarding.Recorder.
func (m *Metrics) Onboarded(kind onboarding.RequestKind, devices int) {
	m.schoolsOnboarded.WithLabelValues(kind.String()).Inc()
	m.devicesCreated.WithLabelValues(kind.String()).Add(float64(devices))
}

// BulkUpdated records one bulk update call.
func (m *Metrics) BulkUpdated(requested int, matched int64) {
	m.bulkUpdated.Add(float64(requested))
	m.bulkMatched.Add(float64(matched))
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
