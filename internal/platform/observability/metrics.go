package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus registry exposed at /metrics.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	ordersCreated   *prometheus.CounterVec
	uploadFailures  prometheus.Counter
	statusChanges   *prometheus.CounterVec
	publishFailures prometheus.Counter
}

// NewMetrics registers the HTTP and order collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders created, by kind",
		}, []string{"kind"}),
		uploadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_image_upload_failures_total",
			Help: "Reference image uploads that failed without aborting the order",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_changes_total",
			Help: "Status overwrites, by collection and field",
		}, []string{"collection", "field"}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_event_publish_failures_total",
			Help: "Order events that could not be published",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.ordersCreated, m.uploadFailures, m.statusChanges, m.publishFailures,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency keyed by the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := routePattern(r)
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// OrderCreated counts a created order of kind.
func (m *Metrics) OrderCreated(kind string) {
	if m != nil {
		m.ordersCreated.WithLabelValues(kind).Inc()
	}
}

// ImageUploadFailed counts a swallowed reference image failure.
func (m *Metrics) ImageUploadFailed() {
	if m != nil {
		m.uploadFailures.Inc()
	}
}

// StatusChanged counts an overwrite of field in collection.
func (m *Metrics) StatusChanged(collection, field string) {
	if m != nil {
		m.statusChanges.WithLabelValues(collection, field).Inc()
	}
}

// EventPublishFailed counts an order event that was dropped.
func (m *Metrics) EventPublishFailed() {
	if m != nil {
		m.publishFailures.Inc()
	}
}
