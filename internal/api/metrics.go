package api

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/store"
)

// Metrics holds the counters the API exports on /metrics.
type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	offerWrites  *prometheus.CounterVec
}

// NewMetrics registers the API collectors on a fresh registry, alongside the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctc",
			Name:      "calculations_total",
			Help:      "Compensation calculations by outcome.",
		}, []string{"outcome"}),
		offerWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ctc",
			Name:      "offer_writes_total",
			Help:      "Offer store writes by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
	reg.MustRegister(
		m.calculations,
		m.offerWrites,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeCalculation(err error) {
	m.calculations.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) observeWrite(op string, err error) {
	m.offerWrites.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, calculation.ErrInvalidInput), errors.Is(err, store.ErrInvalidOffer):
		return "invalid"
	case errors.Is(err, store.ErrOfferNotFound):
		return "not_found"
	default:
		return "error"
	}
}
