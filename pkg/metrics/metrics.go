package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "escrow_broker"

var (
	// Registry holds the application collectors; /metrics serves only this registry.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"method", "route"})

	escrowTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "escrow",
		Name:      "state_transitions_total",
		Help:      "Escrow state transitions by source and target state.",
	}, []string{"from", "to"})

	fundingReports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "escrow",
		Name:      "funding_reports_total",
		Help:      "Funding reports by party role and channel (bank or crypto).",
	}, []string{"role", "channel"})

	emailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "email",
		Name:      "deliveries_total",
		Help:      "Notification email deliveries by kind and result.",
	}, []string{"kind", "result"})
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		escrowTransitions,
		fundingReports,
		emailsSent,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request. route is the matched route template.
func ObserveHTTP(method, route, status string, seconds float64) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// InFlight adjusts the in-flight gauge by delta.
func InFlight(delta float64) {
	httpInFlight.Add(delta)
}

// RecordTransition counts an escrow moving between states.
func RecordTransition(from, to string) {
	if from == to {
		return
	}
	escrowTransitions.WithLabelValues(from, to).Inc()
}

// RecordFunding counts a funding report.
func RecordFunding(role, channel string) {
	fundingReports.WithLabelValues(role, channel).Inc()
}

// RecordEmail counts a notification delivery attempt.
func RecordEmail(kind string, ok bool) {
	result := "sent"
	if !ok {
		result = "failed"
	}
	emailsSent.WithLabelValues(kind, result).Inc()
}
