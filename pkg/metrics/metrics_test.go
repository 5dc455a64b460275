package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.AddCandidates(models.SourceRules, 7)
	m.AddCandidates(models.SourceExternal, 2)
	m.AddDropped("no_steps", 3)
	m.AddDuplicates(1)
	m.ExternalOutcome(models.ExternalTimeout)
	m.ObserveStage("rules", 2*time.Millisecond)
	m.ObserveReport(&models.OptimizationReport{
		Status:          models.BudgetOver,
		Recommendations: make([]*models.Recommendation, 4),
	})

	assert.Equal(t, 7.0, testutil.ToFloat64(m.candidates.WithLabelValues("rules")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.candidates.WithLabelValues("external")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dropped.WithLabelValues("no_steps")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.duplicates))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.external.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("Over Budget")))
}

func TestMetrics_WriteText(t *testing.T) {
	m := New()
	m.AddCandidates(models.SourceRules, 5)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE cost_optimizer_candidates_total counter")
	assert.Contains(t, out, `cost_optimizer_candidates_total{source="rules"} 5`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.AddCandidates(models.SourceRules, 1)
		m.AddDropped("empty", 1)
		m.AddDuplicates(1)
		m.ExternalOutcome(models.ExternalOK)
		m.ObserveStage("merge", time.Second)
		m.ObserveReport(&models.OptimizationReport{})
	})
	assert.NoError(t, m.WriteText(&bytes.Buffer{}))
	assert.Nil(t, m.Registry())
}
