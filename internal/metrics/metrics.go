package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fritz_tickets"

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	OpenTickets   prometheus.Gauge
	LastSuccess   prometheus.Gauge
	PollsTotal    *prometheus.CounterVec
	PollDuration  prometheus.Histogram
	LoginsTotal   *prometheus.CounterVec
	ProbesTotal   *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OpenTickets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open",
			Help:      "Number of open internet tickets reported by the last successful poll.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful poll.",
		}),
		PollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Polls by result.",
		}, []string{"result"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of polls including login and endpoint probing.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts against the router by result.",
		}, []string{"result"}),
		ProbesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "endpoint_probes_total",
			Help:      "Query endpoint probes by path and result.",
		}, []string{"endpoint", "result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.OpenTickets,
		m.LastSuccess,
		m.PollsTotal,
		m.PollDuration,
		m.LoginsTotal,
		m.ProbesTotal,
		m.HTTPRequests,
		m.HTTPDurations,
	)

	return m
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// ObserveLogin matches fritzbox.LoginObserver.
func (m *Metrics) ObserveLogin(err error) {
	m.LoginsTotal.WithLabelValues(result(err == nil)).Inc()
}

// ObserveProbe matches fritzbox.ProbeObserver.
func (m *Metrics) ObserveProbe(endpoint string, ok bool) {
	m.ProbesTotal.WithLabelValues(endpoint, result(ok)).Inc()
}
