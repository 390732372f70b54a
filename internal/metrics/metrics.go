package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	ResponsesAccepted *prometheus.CounterVec
	ResponsesSkipped  *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survey_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "survey_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		ResponsesAccepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survey_responses_accepted_total",
				Help: "Responses persisted, by survey mode",
			},
			[]string{"mode"},
		),
		ResponsesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "survey_responses_skipped_total",
				Help: "Submitted entries dropped by validation, by survey mode",
			},
			[]string{"mode"},
		),
	}
	reg.MustRegister(m.RequestCounter, m.RequestDuration, m.ResponsesAccepted, m.ResponsesSkipped)
	return m
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveAccepted(mode string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ResponsesAccepted.WithLabelValues(mode).Add(float64(n))
}

func (m *Metrics) ObserveSkipped(mode string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ResponsesSkipped.WithLabelValues(mode).Add(float64(n))
}
