package fetchengo

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request lifecycle and
// the event bus. It is safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	abortsTotal *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec

	eventsEmitted *prometheus.CounterVec
	handlerPanics *prometheus.CounterVec
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchengo_requests_total",
				Help: "Total number of HTTP requests made",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fetchengo_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fetchengo_requests_in_flight",
				Help: "Number of requests currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		abortsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchengo_aborts_total",
				Help: "Total number of calls cancelled by abort or timeout",
			},
			[]string{"method", "endpoint", "reason"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchengo_errors_total",
				Help: "Total number of normalized request errors",
			},
			[]string{"type", "method", "endpoint"},
		),
		eventsEmitted: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchengo_events_emitted_total",
				Help: "Total number of events published on the event bus",
			},
			[]string{"type"},
		),
		handlerPanics: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchengo_event_handler_panics_total",
				Help: "Total number of recovered event handler panics",
			},
			[]string{"type"},
		),
	}
}

// RecordRequestStart marks a request as in flight.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd marks a request as settled.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordRequest records a settled request with its normalized status.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, status, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, status, endpoint).Observe(duration.Seconds())
}

// RecordAbort records a cancelled call. reason is "abort" or "timeout".
func (mc *MetricsCollector) RecordAbort(method, endpoint, reason string) {
	mc.abortsTotal.WithLabelValues(method, endpoint, reason).Inc()
}

// RecordError records a normalized failure by classification.
func (mc *MetricsCollector) RecordError(errorType, method, endpoint string) {
	mc.errorsTotal.WithLabelValues(errorType, method, endpoint).Inc()
}

// RecordEvent records an emitted event.
func (mc *MetricsCollector) RecordEvent(t EventType) {
	mc.eventsEmitted.WithLabelValues(string(t)).Inc()
}

// RecordHandlerPanic records a recovered event handler panic.
func (mc *MetricsCollector) RecordHandlerPanic(t EventType) {
	mc.handlerPanics.WithLabelValues(string(t)).Inc()
}
