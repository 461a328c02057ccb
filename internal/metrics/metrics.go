package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for generation requests.
const (
	OutcomeSuccess = "success"
	OutcomeStale   = "stale"
	OutcomeFailure = "failure"
)

// Metrics holds the server's prometheus collectors.
type Metrics struct {
	Mutations          *prometheus.CounterVec
	Generations        *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowchart_mutations_total",
				Help: "Canonical graph mutations by operation",
			},
			[]string{"op"},
		),
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowchart_generations_total",
				Help: "Text generation requests by outcome",
			},
			[]string{"outcome"},
		),
		GenerationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flowchart_generation_duration_seconds",
				Help:    "Duration of text generation requests",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
		),
	}
	reg.MustRegister(m.Mutations, m.Generations, m.GenerationDuration)
	return m
}

// Mutation counts one successful mutation.
func (m *Metrics) Mutation(op string) {
	m.Mutations.WithLabelValues(op).Inc()
}

// Generation records one generation request.
func (m *Metrics) Generation(outcome string, d time.Duration) {
	m.Generations.WithLabelValues(outcome).Inc()
	m.GenerationDuration.Observe(d.Seconds())
}
