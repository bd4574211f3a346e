package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// NEO risk-assessment service.
type Metrics struct {
	// Upstream NeoWs calls.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={feed,detail,browse}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint

	// Shared cache behavior.
	CacheLookups *prometheus.CounterVec // labels: cache={neows,enrichment}, result={hit,miss}

	// Secondary physical-parameter catalogs.
	EnrichmentLookups  *prometheus.CounterVec   // labels: source={ssodnet,sbdb}, outcome={success,error,empty}
	EnrichmentDuration *prometheus.HistogramVec // labels: source

	// Core computations.
	AssessmentsComputed prometheus.Counter
	ImpactsComputed     prometheus.Counter

	// Assessment stream.
	StreamPublished prometheus.Counter
	StreamErrors    prometheus.Counter
	StreamEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "upstream_requests_total",
			Help:      "NeoWs API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "neo_risk",
			Name:      "upstream_request_duration_seconds",
			Help:      "NeoWs API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache name and result.",
		}, []string{"cache", "result"}),
		EnrichmentLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "enrichment_lookups_total",
			Help:      "Physical-parameter catalog lookups by source and outcome.",
		}, []string{"source", "outcome"}),
		EnrichmentDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "neo_risk",
			Name:      "enrichment_lookup_duration_seconds",
			Help:      "Physical-parameter catalog request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		AssessmentsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "assessments_computed_total",
			Help:      "Total threat assessments computed.",
		}),
		ImpactsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "impacts_computed_total",
			Help:      "Total impact scenarios computed.",
		}),
		StreamPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "stream_published_total",
			Help:      "Total assessment events published to the stream topic.",
		}),
		StreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_risk",
			Name:      "stream_errors_total",
			Help:      "Total assessment-stream publish failures.",
		}),
		StreamEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neo_risk",
			Name:      "stream_enabled",
			Help:      "1 when assessment-stream publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.EnrichmentLookups,
		m.EnrichmentDuration,
		m.AssessmentsComputed,
		m.ImpactsComputed,
		m.StreamPublished,
		m.StreamErrors,
		m.StreamEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		UpstreamRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "neo_risk", Name: "upstream_requests_total"}, []string{"endpoint", "outcome"}),
		UpstreamDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "neo_risk", Name: "upstream_request_duration_seconds"}, []string{"endpoint"}),
		CacheLookups:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "neo_risk", Name: "cache_lookups_total"}, []string{"cache", "result"}),
		EnrichmentLookups:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "neo_risk", Name: "enrichment_lookups_total"}, []string{"source", "outcome"}),
		EnrichmentDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "neo_risk", Name: "enrichment_lookup_duration_seconds"}, []string{"source"}),
		AssessmentsComputed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_risk", Name: "assessments_computed_total"}),
		ImpactsComputed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_risk", Name: "impacts_computed_total"}),
		StreamPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_risk", Name: "stream_published_total"}),
		StreamErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_risk", Name: "stream_errors_total"}),
		StreamEnabled:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "neo_risk", Name: "stream_enabled"}),
	}
}
