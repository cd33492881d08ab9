// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the advisory and climate collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Assessments        *prometheus.CounterVec
	AdjustedYield      *prometheus.HistogramVec
	ClimateFallbacks   prometheus.Counter
	PredictorFallbacks prometheus.Counter
	ClimateRefreshes   *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agripulse_assessments_total",
			Help: "Total number of yield assessments by crop and remark.",
		}, []string{"crop", "remark"}),
		AdjustedYield: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agripulse_adjusted_yield_kg_per_ha",
			Help:    "Distribution of adjusted yields in kg/ha.",
			Buckets: []float64{250, 500, 1000, 1500, 2000, 3000, 4000, 6000, 8000, 10000},
		}, []string{"crop"}),
		ClimateFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agripulse_climate_fallbacks_total",
			Help: "Assessments that used the default climate because lookup failed.",
		}),
		PredictorFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agripulse_predictor_fallbacks_total",
			Help: "Assessments that used the dataset average because prediction failed.",
		}),
		ClimateRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agripulse_climate_refreshes_total",
			Help: "Scheduled climate refreshes by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{
		m.Assessments,
		m.AdjustedYield,
		m.ClimateFallbacks,
		m.PredictorFallbacks,
		m.ClimateRefreshes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAssessment counts one assessment and observes its adjusted yield.
func (m *Metrics) RecordAssessment(crop, remark string, adjustedYield float64) {
	if m == nil {
		return
	}
	m.Assessments.WithLabelValues(crop, remark).Inc()
	m.AdjustedYield.WithLabelValues(crop).Observe(adjustedYield)
}

// RecordClimateFallback counts an assessment that used the default climate.
func (m *Metrics) RecordClimateFallback() {
	if m == nil {
		return
	}
	m.ClimateFallbacks.Inc()
}

// RecordPredictorFallback counts an assessment that used the dataset average yield.
func (m *Metrics) RecordPredictorFallback() {
	if m == nil {
		return
	}
	m.PredictorFallbacks.Inc()
}

// RecordClimateRefresh counts a scheduled refresh; ok reports success.
func (m *Metrics) RecordClimateRefresh(ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.ClimateRefreshes.WithLabelValues(outcome).Inc()
}
