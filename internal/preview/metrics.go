package preview

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Preview outcomes recorded by Metrics.
const (
	outcomeHit      = "hit"
	outcomeRendered = "rendered"
	outcomeFallback = "fallback"
	outcomeMissing  = "missing"
)

// Metrics holds the Prometheus collectors of the preview cache and invalidator.
type Metrics struct {
	results        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	removals       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_cache_results_total",
				Help: "Preview requests by artifact and outcome (hit, rendered, fallback, missing).",
			},
			[]string{"artifact", "outcome"},
		),
		renderDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "preview_render_duration_seconds",
				Help:    "Time spent rendering a preview artifact.",
				Buckets: prometheus.DefBuckets,
			},
		),
		removals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preview_invalidation_removals_total",
				Help: "Artifact removals by outcome (deleted, not_found, failed).",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{m.results, m.renderDuration, m.removals} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) result(artifact, outcome string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(artifact, outcome).Inc()
}

func (m *Metrics) observeRender(seconds float64) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(seconds)
}

func (m *Metrics) removal(o Outcome) {
	if m == nil {
		return
	}
	m.removals.WithLabelValues(o.String()).Inc()
}
