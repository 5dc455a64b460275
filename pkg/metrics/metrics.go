package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

const namespace = "cost_optimizer"

// Metrics records pipeline diagnostics on its own registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	runs            *prometheus.CounterVec
	candidates      *prometheus.CounterVec
	dropped         *prometheus.CounterVec
	external        *prometheus.CounterVec
	duplicates      prometheus.Counter
	duration        *prometheus.HistogramVec
	recommendations prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Optimization runs by budget status.",
		}, []string{"status"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Recommendation candidates produced, by source.",
		}, []string{"source"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_dropped_total",
			Help:      "Candidates discarded before merging, by reason.",
		}, []string{"reason"}),
		external: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_source_calls_total",
			Help:      "External recommendation source outcomes.",
		}, []string{"status"}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_removed_total",
			Help:      "Candidates removed as duplicates.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each pipeline stage.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 15, 30, 60},
		}, []string{"stage"}),
		recommendations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_recommendations",
			Help:      "Recommendations returned per report.",
			Buckets:   prometheus.LinearBuckets(0, 5, 11),
		}),
	}

	m.registry.MustRegister(m.runs, m.candidates, m.dropped, m.external, m.duplicates, m.duration, m.recommendations)
	return m
}

// Registry exposes the underlying registry, e.g. for an HTTP handler
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) AddCandidates(source models.Source, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.candidates.WithLabelValues(string(source)).Add(float64(n))
}

func (m *Metrics) AddDropped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.dropped.WithLabelValues(reason).Add(float64(n))
}

func (m *Metrics) AddDuplicates(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.duplicates.Add(float64(n))
}

func (m *Metrics) ExternalOutcome(status models.ExternalStatus) {
	if m == nil {
		return
	}
	m.external.WithLabelValues(string(status)).Inc()
}

// ObserveReport records the final outcome of a run
func (m *Metrics) ObserveReport(r *models.OptimizationReport) {
	if m == nil || r == nil {
		return
	}
	m.runs.WithLabelValues(string(r.Status)).Inc()
	m.recommendations.Observe(float64(len(r.Recommendations)))
}

// WriteText writes every collected metric in the Prometheus text format
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
