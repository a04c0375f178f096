package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

// Metrics holds the counters exported on /metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	assessments     *prometheus.CounterVec
	heatmapBuilds   *prometheus.CounterVec
	evidenceUploads prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "riskmatrix_assessments_total",
			Help: "Risk assessments computed, by residual band.",
		}, []string{"band"}),
		heatmapBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "riskmatrix_heatmap_builds_total",
			Help: "Heatmap grids built, by mode.",
		}, []string{"mode"}),
		evidenceUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riskmatrix_evidence_uploads_total",
			Help: "Evidence files accepted for action plans.",
		}),
	}

	m.registry.MustRegister(
		m.assessments,
		m.heatmapBuilds,
		m.evidenceUploads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveAssessment(band types.RiskBand) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(band.String()).Inc()
}

func (m *Metrics) ObserveHeatmap(mode types.HeatmapMode) {
	if m == nil {
		return
	}
	m.heatmapBuilds.WithLabelValues(string(mode)).Inc()
}

func (m *Metrics) ObserveEvidenceUpload() {
	if m == nil {
		return
	}
	m.evidenceUploads.Inc()
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
