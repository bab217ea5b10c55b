// Package metrics exports refresh and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/dto"
	"github.com/Picoli-Igor/Dash2/internal/application/dashboard/usecases"
	"github.com/Picoli-Igor/Dash2/internal/shared/version"
)

// Metrics is responsible for holding the metrics for Prometheus
type Metrics struct {
	RefreshTotal        *prometheus.CounterVec
	RefreshDuration     *prometheus.HistogramVec
	SprintTickets       prometheus.Gauge
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors on reg. Pass prometheus.NewRegistry()
// in tests to avoid duplicate registration.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refresh_total",
				Help:      "dashboard refreshes, by trigger and outcome",
			},
			[]string{"trigger", "outcome"},
		),
		RefreshDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "refresh_duration_seconds",
				Help:      "duration of the fetch, aggregate and chart pipeline in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"trigger"},
		),
		SprintTickets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sprint_tickets",
				Help:      "number of tickets in the sprint at the last successful refresh",
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "http request duration in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 30},
			},
			[]string{"status", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "http response size in bytes",
				Buckets:   []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576},
			},
			[]string{"status", "path"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.RefreshTotal)
	reg.MustRegister(m.RefreshDuration)
	reg.MustRegister(m.SprintTickets)
	reg.MustRegister(m.HTTPRequestDuration)
	reg.MustRegister(m.HTTPResponseSize)

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "always 1, labelled with the running build",
		},
		[]string{"version", "commit"},
	)
	buildInfo.WithLabelValues(version.Current(), version.Commit).Set(1)
	reg.MustRegister(buildInfo)
	return m
}

// ObserveRefresh implements usecases.RefreshObserver.
func (m *Metrics) ObserveRefresh(trigger usecases.Trigger, outcome dto.Outcome, duration time.Duration, tickets int) {
	m.RefreshTotal.With(prometheus.Labels{"trigger": string(trigger), "outcome": string(outcome)}).Inc()
	m.RefreshDuration.With(prometheus.Labels{"trigger": string(trigger)}).Observe(duration.Seconds())
	if outcome != dto.OutcomeFailed && trigger != usecases.TriggerLogin {
		m.SprintTickets.Set(float64(tickets))
	}
}

// ObserveHTTP records one served request. path should be the route
// template, not the raw URL.
func (m *Metrics) ObserveHTTP(status int, path string, latency time.Duration, size int) {
	labels := prometheus.Labels{"status": strconv.Itoa(status), "path": path}
	m.HTTPRequestDuration.With(labels).Observe(latency.Seconds())
	m.HTTPResponseSize.With(labels).Observe(float64(size))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
