// Package metrics holds the Prometheus instrumentation for the relay.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "forge_relay"

// Metrics groups every collector the relay exports. A nil *Metrics is valid
// and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	requests      *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	delivered     *prometheus.CounterVec
	deliveryFails *prometheus.CounterVec
	dropped       prometheus.Counter
	queueDepth    prometheus.Gauge
	jobDuration   prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. When reg is nil a
// private registry is used.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{gatherer: reg}

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_requests_total",
		Help:      "Webhook requests by event kind and response status",
	},
		[]string{
			// normalized event kind, "unknown" before parsing
			"event",
			// HTTP status code returned to the forge
			"status",
		},
	)

	m.rejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_rejected_total",
		Help:      "Webhook requests rejected before parsing",
	},
		[]string{"reason"},
	)

	m.delivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_delivered_total",
		Help:      "Chat lines handed to a transport",
	},
		[]string{"transport"},
	)

	m.deliveryFails = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_failures_total",
		Help:      "Chat lines a transport failed to send",
	},
		[]string{"transport"},
	)

	m.dropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_dropped_total",
		Help:      "Jobs dropped because the dispatch queue was full",
	})

	m.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatch_queue_depth",
		Help:      "Jobs waiting in the dispatch queue",
	})

	m.jobDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Time spent formatting and delivering one event",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	reg.MustRegister(
		m.requests,
		m.rejected,
		m.delivered,
		m.deliveryFails,
		m.dropped,
		m.queueDepth,
		m.jobDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(event string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(event, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) Delivered(transport string) {
	if m == nil {
		return
	}
	m.delivered.WithLabelValues(transport).Inc()
}

func (m *Metrics) DeliveryFailed(transport string) {
	if m == nil {
		return
	}
	m.deliveryFails.WithLabelValues(transport).Inc()
}

func (m *Metrics) Dropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

// ObserveJob records how long a job took since start.
func (m *Metrics) ObserveJob(start time.Time) {
	if m == nil {
		return
	}
	m.jobDuration.Observe(time.Since(start).Seconds())
}
