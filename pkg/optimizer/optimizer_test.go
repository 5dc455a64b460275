package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/metrics"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
	"github.com/opscart/cloud-cost-optimizer/pkg/textgen"
)

// blockingSource never answers before its context ends
type blockingSource struct{}

func (blockingSource) Name() string { return "blocking" }

func (blockingSource) Generate(ctx context.Context, _ textgen.Request) (iter.Seq[string], error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// failingSource fails immediately
type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Generate(context.Context, textgen.Request) (iter.Seq[string], error) {
	return nil, &textgen.SourceError{Source: "failing", Op: "generate", Err: errors.New("connection refused")}
}

// fixedEstimator returns a preset total
type fixedEstimator struct {
	total float64
}

func (f fixedEstimator) Name() string      { return "fixed" }
func (f fixedEstimator) Regions() []string { return []string{"ap-south-1"} }

func (f fixedEstimator) Estimate(_ context.Context, p *models.ProjectProfile) (*models.CostEstimate, error) {
	return &models.CostEstimate{
		Services: map[string]float64{models.ServiceEC2: f.total},
		Total:    f.total,
		Budget:   p.Budget,
	}, nil
}

// paise converts an amount to whole paise, failing on fractional paise
func paise(t *testing.T, v float64) int64 {
	t.Helper()
	p := math.Round(v * 100)
	assert.Equal(t, p/100, v, "amount %v is not a whole number of paise", v)
	return int64(p)
}

func assertSavingsConserved(t *testing.T, report *models.OptimizationReport) {
	t.Helper()
	var sum int64
	for _, rec := range report.Recommendations {
		sum += paise(t, rec.ExpectedSavings)
	}
	assert.Equal(t, sum, paise(t, report.TotalPotentialSavings))
}

func peakProfile() *models.ProjectProfile {
	return &models.ProjectProfile{
		ProjectName:    "FoodieHub",
		Budget:         50000,
		ExpectedUsers:  10000,
		TrafficPattern: models.TrafficPeakHours,
		Region:         "ap-south-1",
		TechStack: models.TechStack{
			Backend:  "Node.js",
			Frontend: "React",
			Database: "PostgreSQL",
		},
		Features: []string{"Food delivery", "Order tracking", "Restaurant search"},
		CurrentInfra: models.CurrentInfrastructure{
			InstanceCount: 2,
			InstanceType:  "t3.medium",
			LoadBalancer:  true,
		},
	}
}

func newTestOptimizer(t *testing.T, opts ...Option) *Optimizer {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.External.Timeout = 50 * time.Millisecond

	o, err := New(cfg, opts...)
	require.NoError(t, err)
	return o
}

func TestOptimize_ExternalTimeoutDegradesToRules(t *testing.T) {
	o := newTestOptimizer(t, WithSource(blockingSource{}))

	report, err := o.Optimize(context.Background(), Request{Profile: peakProfile()})
	require.NoError(t, err)

	require.NotEmpty(t, report.Recommendations)
	var autoscaling bool
	for _, rec := range report.Recommendations {
		assert.NotEqual(t, models.DomainDatabase, rec.Domain, rec.Title)
		assert.Equal(t, models.SourceRules, rec.Source)
		if rec.Domain == models.DomainCompute && rec.RuleID == "compute.autoscaling" {
			autoscaling = true
		}
	}
	assert.True(t, autoscaling, "expected an autoscaling recommendation")

	assert.Equal(t, models.ExternalTimeout, report.Diagnostics.ExternalSource)
	assert.True(t, report.Diagnostics.ExternalSkipped())
	assert.NotEmpty(t, report.Diagnostics.ExternalError)
}

func TestOptimize_ExternalFailureIsDiagnostic(t *testing.T) {
	logger, hook := test.NewNullLogger()
	o := newTestOptimizer(t, WithSource(failingSource{}), WithLogger(logger))

	report, err := o.Optimize(context.Background(), Request{Profile: peakProfile()})
	require.NoError(t, err)

	assert.Equal(t, models.ExternalFailed, report.Diagnostics.ExternalSource)
	assert.Contains(t, report.Diagnostics.ExternalError, "connection refused")
	assert.NotEmpty(t, report.Recommendations)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Message == "External recommendation source skipped" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestOptimize_DisabledSource(t *testing.T) {
	o := newTestOptimizer(t)

	report, err := o.Optimize(context.Background(), Request{Profile: peakProfile()})
	require.NoError(t, err)
	assert.Equal(t, models.ExternalDisabled, report.Diagnostics.ExternalSource)

	o = newTestOptimizer(t, WithSource(textgen.NewStaticSource("### Use Spot Instances\n- Move batch jobs to spot capacity")))
	report, err = o.Optimize(context.Background(), Request{Profile: peakProfile(), DisableExternal: true})
	require.NoError(t, err)
	assert.Equal(t, models.ExternalDisabled, report.Diagnostics.ExternalSource)
}

func TestOptimize_MergesExternalCandidates(t *testing.T) {
	text := `Here are some ideas.

### Enable autoscaling
Savings: ₹20,000
Risk: Low
Complexity: Low
- Configure an auto scaling group for the API tier

### Move Logs to Cold Storage
Savings: ₹1,200
- Export logs older than seven days to Glacier

### Vague idea without steps
Savings: ₹99,999`

	o := newTestOptimizer(t, WithSource(textgen.NewStaticSource(text)))
	report, err := o.Optimize(context.Background(), Request{Profile: peakProfile()})
	require.NoError(t, err)

	d := report.Diagnostics
	assert.Equal(t, models.ExternalOK, d.ExternalSource)
	assert.Equal(t, 3, d.ExternalRawBlocks)
	assert.Equal(t, 2, d.ExternalAccepted)
	assert.Equal(t, map[string]int{"no_steps": 1}, d.ExternalDropped)
	assert.Equal(t, 1, d.DuplicatesRemoved)

	var autoscaling []*models.Recommendation
	for _, rec := range report.Recommendations {
		if rec.Domain == models.DomainCompute && (rec.Title == "Enable Auto Scaling" || rec.Title == "Enable autoscaling") {
			autoscaling = append(autoscaling, rec)
		}
	}
	require.Len(t, autoscaling, 1)
	assert.Equal(t, 20000.0, autoscaling[0].ExpectedSavings)
	assert.Equal(t, models.SourceExternal, autoscaling[0].Source)
}

func TestOptimize_SavingsConservedWithFractionalAmounts(t *testing.T) {
	text := `### Move Logs to Cold Storage
Savings: ₹1,234.567
- Export logs older than seven days to Glacier

### Compress API Responses
Savings: ₹0.125 per request batch
- Turn on gzip for JSON responses at the load balancer`

	o := newTestOptimizer(t, WithSource(textgen.NewStaticSource(text)))
	report, err := o.Optimize(context.Background(), Request{Profile: peakProfile(), NumRecommendations: 50})
	require.NoError(t, err)
	require.Equal(t, models.ExternalOK, report.Diagnostics.ExternalSource)

	var found bool
	for _, rec := range report.Recommendations {
		if rec.Title == "Move Logs to Cold Storage" {
			found = true
			assert.Equal(t, 1234.57, rec.ExpectedSavings)
		}
	}
	assert.True(t, found)
	assertSavingsConserved(t, report)
}

func TestOptimize_Deterministic(t *testing.T) {
	o := newTestOptimizer(t)

	first, err := o.Optimize(context.Background(), Request{Profile: peakProfile()})
	require.NoError(t, err)
	second, err := o.Optimize(context.Background(), Request{Profile: peakProfile()})
	require.NoError(t, err)

	a, err := json.Marshal(first.Recommendations)
	require.NoError(t, err)
	b, err := json.Marshal(second.Recommendations)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestOptimize_ReportInvariants(t *testing.T) {
	o := newTestOptimizer(t)
	report, err := o.Optimize(context.Background(), Request{Profile: peakProfile()})
	require.NoError(t, err)

	ids := map[int]bool{}
	for i, rec := range report.Recommendations {
		ids[rec.ID] = true
		require.NotNil(t, rec.Score)
		if i > 0 {
			assert.GreaterOrEqual(t, report.Recommendations[i-1].ScoreValue(), rec.ScoreValue())
		}
	}
	assertSavingsConserved(t, report)

	placed := map[int]int{}
	for _, phase := range report.Roadmap.Phases {
		for _, id := range phase.RecommendationIDs {
			placed[id]++
		}
	}
	assert.Len(t, placed, len(ids))
	for id := range ids {
		assert.Equal(t, 1, placed[id])
	}

	for _, qw := range report.QuickWins {
		assert.Equal(t, models.RiskLow, qw.Risk)
		assert.NotEqual(t, models.ComplexityHigh, qw.Complexity)
		assert.GreaterOrEqual(t, qw.ExpectedSavings, 1000.0)
	}
	assert.Contains(t, report.Summary, "FoodieHub")
}

func TestOptimize_TruncationAndRiskFilter(t *testing.T) {
	o := newTestOptimizer(t)

	full, err := o.Optimize(context.Background(), Request{Profile: peakProfile(), NumRecommendations: 50})
	require.NoError(t, err)

	report, err := o.Optimize(context.Background(), Request{Profile: peakProfile(), NumRecommendations: 2})
	require.NoError(t, err)
	require.Len(t, report.Recommendations, 2)
	assert.Equal(t, len(full.Recommendations)-2, report.Diagnostics.Truncated)
	assert.Equal(t, full.Recommendations[0].Title, report.Recommendations[0].Title)
	assertSavingsConserved(t, report)

	safe, err := o.Optimize(context.Background(), Request{Profile: peakProfile(), ExcludeHighRisk: true, NumRecommendations: 50})
	require.NoError(t, err)
	for _, rec := range safe.Recommendations {
		assert.NotEqual(t, models.RiskHigh, rec.Risk)
	}
	assert.Equal(t, len(full.Recommendations)-len(safe.Recommendations), safe.Diagnostics.FilteredHighRisk)
}

func TestOptimize_BudgetStatus(t *testing.T) {
	tests := []struct {
		total float64
		want  models.BudgetStatus
	}{
		{45000, models.BudgetWithin},
		{49000, models.BudgetAtRisk},
		{55000, models.BudgetOver},
	}

	for _, tt := range tests {
		o := newTestOptimizer(t, WithEstimator(fixedEstimator{total: tt.total}))
		report, err := o.Optimize(context.Background(), Request{Profile: peakProfile()})
		require.NoError(t, err)
		assert.Equal(t, tt.want, report.Status, "estimate %v", tt.total)
		assert.Equal(t, tt.total, report.EstimatedCost)
	}
}

func TestOptimize_ValidationError(t *testing.T) {
	o := newTestOptimizer(t)

	p := peakProfile()
	p.Budget = 0
	p.TechStack.Backend = ""
	p.Region = "mars-1"

	_, err := o.Optimize(context.Background(), Request{Profile: p})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 3)

	_, err = o.Optimize(context.Background(), Request{})
	assert.Error(t, err)
}

func TestOptimize_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o := newTestOptimizer(t, WithMetrics(m), WithClock(func() time.Time { return fixed }))

	report, err := o.Optimize(context.Background(), Request{Profile: peakProfile()})
	require.NoError(t, err)
	assert.Equal(t, fixed, report.GeneratedAt)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["cost_optimizer_candidates_total"])
	assert.True(t, names["cost_optimizer_runs_total"])
	assert.True(t, names["cost_optimizer_external_source_calls_total"])
}

func TestPatternsAndEstimate(t *testing.T) {
	o := newTestOptimizer(t)

	pattern, err := o.Patterns(peakProfile())
	require.NoError(t, err)
	assert.Equal(t, models.DatabaseNone, pattern.DatabaseLoad)
	assert.NotEmpty(t, pattern.PeakHours)

	est, err := o.Estimate(context.Background(), peakProfile())
	require.NoError(t, err)
	assert.Positive(t, est.Total)
	assert.Zero(t, est.Cost(models.ServiceRDS))
}
