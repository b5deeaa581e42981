package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard service.
type Metrics struct {
	EstimatesComputed prometheus.Counter
	InvalidInputs     prometheus.Counter
	EstimateDuration  prometheus.Histogram
	RegionsLoaded     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EstimatesComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reef_dhw",
			Name:      "estimates_computed_total",
			Help:      "Total exceedance matrix recomputations from valid DHW input.",
		}),
		InvalidInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reef_dhw",
			Name:      "invalid_inputs_total",
			Help:      "Total DHW inputs rejected at the validation boundary.",
		}),
		EstimateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reef_dhw",
			Name:      "estimate_duration_seconds",
			Help:      "Duration of one matrix recomputation including label rendering.",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
		RegionsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reef_dhw",
			Name:      "regions_loaded",
			Help:      "Number of management region polygons loaded at startup.",
		}),
	}

	prometheus.MustRegister(
		m.EstimatesComputed,
		m.InvalidInputs,
		m.EstimateDuration,
		m.RegionsLoaded,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EstimatesComputed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "reef_dhw", Name: "estimates_computed_total"}),
		InvalidInputs:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "reef_dhw", Name: "invalid_inputs_total"}),
		EstimateDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "reef_dhw", Name: "estimate_duration_seconds"}),
		RegionsLoaded:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "reef_dhw", Name: "regions_loaded"}),
	}
}
