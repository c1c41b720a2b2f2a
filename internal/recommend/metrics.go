package recommend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcomes recorded in recs_generations_total.
const (
	OutcomeGenerated = "generated"
	OutcomeReused    = "reused"
	OutcomeEmpty     = "empty"
	OutcomeError     = "error"
)

var (
	// generationsTotal counts generate calls by outcome.
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recs_generations_total",
			Help: "Recommendation generation calls by outcome.",
		},
		[]string{"outcome"},
	)

	// generatorFailures counts generators that errored, panicked or timed out.
	generatorFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recs_generator_failures_total",
			Help: "Candidate generator failures by algorithm.",
		},
		[]string{"algorithm"},
	)

	// candidatesTotal counts candidates proposed per algorithm.
	candidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recs_candidates_total",
			Help: "Candidates proposed by each algorithm.",
		},
		[]string{"algorithm"},
	)

	// generationDuration observes engine runs (all generators plus combine).
	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recs_generation_duration_seconds",
			Help:    "Duration of engine runs in seconds.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// sourceBreakerState mirrors gobreaker.State: 0 closed, 1 half-open, 2 open.
	sourceBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "recs_source_breaker_state",
			Help: "State of the engine's data source circuit breaker.",
		},
	)
)

func init() {
	prometheus.MustRegister(generationsTotal, generatorFailures, candidatesTotal, generationDuration, sourceBreakerState)
}

// RecordGeneration counts one generate call with the given outcome.
func RecordGeneration(outcome string) {
	generationsTotal.WithLabelValues(outcome).Inc()
}

func observeRun(start time.Time) {
	generationDuration.Observe(time.Since(start).Seconds())
}
