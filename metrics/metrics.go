// Package metrics exposes Prometheus counters for the clip workflow.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeIgnored  = "ignored"
	OutcomeFailed   = "failed"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	Submissions   *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	Decisions     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clipbot_submissions_total",
			Help: "Submission commands by source kind and outcome",
		}, []string{"kind", "outcome"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clipbot_fetch_duration_seconds",
			Help:    "Time spent fetching media",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"kind"}),
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clipbot_decisions_total",
			Help: "Moderator decisions applied",
		}, []string{"decision"}),
		gatherer: reg,
	}
}

// Submission counts one submission command.
func (m *Metrics) Submission(kind, outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(kind, outcome).Inc()
}

// ObserveFetch records how long a fetch took.
func (m *Metrics) ObserveFetch(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Decision counts an applied moderator decision.
func (m *Metrics) Decision(decision string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(decision).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
