package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

func newTestRanker() *Ranker {
	cfg := config.DefaultConfig()
	return New(cfg.Scoring, cfg.Classification, nil)
}

func rec(id int, savings float64, risk models.RiskLevel, complexity models.ComplexityLevel) *models.Recommendation {
	return &models.Recommendation{
		ID:              id,
		Title:           "rec",
		Service:         models.ServiceEC2,
		ExpectedSavings: savings,
		Risk:            risk,
		Complexity:      complexity,
		WorkloadMatch:   0.6,
	}
}

func TestScore_Formula(t *testing.T) {
	r := newTestRanker()

	// 0.5*10*10000/(10000+90000) - 0.3*1 - 0.2*2 + 1.0*0.6
	got := r.Score(rec(1, 10000, models.RiskMedium, models.ComplexityHigh), 90000)
	assert.InDelta(t, 0.4, got, 1e-9)
}

func TestScore_MonotonicInSavings(t *testing.T) {
	r := newTestRanker()

	prev := r.Score(rec(1, 0, models.RiskLow, models.ComplexityLow), 100000)
	for _, savings := range []float64{1, 100, 1000, 10000, 100000, 1e6} {
		s := r.Score(rec(1, savings, models.RiskLow, models.ComplexityLow), 100000)
		assert.Greater(t, s, prev, "savings %v", savings)
		prev = s
	}
}

func TestScore_ZeroTotalCost(t *testing.T) {
	r := newTestRanker()
	assert.InDelta(t, 10.0*1000/1001, r.NormalizedSavings(1000, 0), 1e-9)
	assert.Zero(t, r.NormalizedSavings(-5, 1000))
}

func TestRank_OrderAndTieBreaks(t *testing.T) {
	r := newTestRanker()

	pool := []*models.Recommendation{
		rec(1, 2000, models.RiskHigh, models.ComplexityHigh),
		rec(2, 5000, models.RiskLow, models.ComplexityLow),
		rec(3, 5000, models.RiskLow, models.ComplexityLow),
		rec(4, 8000, models.RiskLow, models.ComplexityLow),
	}

	ranked := r.Rank(pool, 50000)

	ids := make([]int, len(ranked))
	for i, rc := range ranked {
		ids[i] = rc.ID
		require.NotNil(t, rc.Score)
	}
	assert.Equal(t, []int{4, 2, 3, 1}, ids)
	assert.Equal(t, 1, pool[0].ID, "input order is kept")
}

func TestClassification(t *testing.T) {
	r := newTestRanker()

	assert.True(t, r.IsQuickWin(rec(1, 1000, models.RiskLow, models.ComplexityMedium)))
	assert.False(t, r.IsQuickWin(rec(1, 999, models.RiskLow, models.ComplexityLow)))
	assert.False(t, r.IsQuickWin(rec(1, 5000, models.RiskMedium, models.ComplexityLow)))
	assert.False(t, r.IsQuickWin(rec(1, 5000, models.RiskLow, models.ComplexityHigh)))

	assert.True(t, r.IsHighImpact(rec(1, 10000, models.RiskHigh, models.ComplexityHigh)))
	assert.False(t, r.IsHighImpact(rec(1, 9999, models.RiskLow, models.ComplexityLow)))
}

func rankedSample(r *Ranker) []*models.Recommendation {
	return r.Rank([]*models.Recommendation{
		rec(1, 12000, models.RiskLow, models.ComplexityLow),
		rec(2, 15000, models.RiskMedium, models.ComplexityMedium),
		rec(3, 500, models.RiskLow, models.ComplexityLow),
		rec(4, 3000, models.RiskLow, models.ComplexityMedium),
		rec(5, 4000, models.RiskHigh, models.ComplexityLow),
	}, 100000)
}

func TestQuickWinsAndHighImpactContainment(t *testing.T) {
	r := newTestRanker()
	ranked := rankedSample(r)

	for _, qw := range r.QuickWins(ranked) {
		assert.Equal(t, models.RiskLow, qw.Risk)
		assert.NotEqual(t, models.ComplexityHigh, qw.Complexity)
		assert.GreaterOrEqual(t, qw.ExpectedSavings, 1000.0)
	}
	assert.Len(t, r.QuickWins(ranked), 2)

	high := r.HighImpact(ranked)
	require.Len(t, high, 2)
	for _, h := range high {
		assert.GreaterOrEqual(t, h.ExpectedSavings, 10000.0)
	}
}

func TestRoadmap_Partition(t *testing.T) {
	r := newTestRanker()
	ranked := rankedSample(r)

	roadmap := r.Roadmap(ranked)
	require.Len(t, roadmap.Phases, 3)

	seen := map[int]int{}
	total := 0.0
	for i, p := range roadmap.Phases {
		assert.Equal(t, i+1, p.Phase)
		assert.NotEmpty(t, p.Name)
		for _, id := range p.RecommendationIDs {
			seen[id]++
		}
		total += p.Savings
	}

	assert.Len(t, seen, len(ranked))
	for id, n := range seen {
		assert.Equal(t, 1, n, "recommendation %d placed once", id)
	}
	assert.InDelta(t, TotalSavings(ranked), total, 0.01)

	assert.ElementsMatch(t, []int{1, 4}, roadmap.Phases[0].RecommendationIDs)
	assert.Equal(t, []int{2}, roadmap.Phases[1].RecommendationIDs)
	assert.ElementsMatch(t, []int{3, 5}, roadmap.Phases[2].RecommendationIDs)
}

func TestRoadmap_Empty(t *testing.T) {
	roadmap := newTestRanker().Roadmap(nil)
	require.Len(t, roadmap.Phases, 3)
	for _, p := range roadmap.Phases {
		assert.Empty(t, p.RecommendationIDs)
		assert.NotNil(t, p.RecommendationIDs)
	}
}

func TestFilterByRisk(t *testing.T) {
	recs := []*models.Recommendation{
		rec(1, 100, models.RiskLow, models.ComplexityLow),
		rec(2, 100, models.RiskMedium, models.ComplexityLow),
		rec(3, 100, models.RiskHigh, models.ComplexityLow),
	}

	assert.Len(t, FilterByRisk(recs, models.RiskMedium), 2)
	assert.Len(t, FilterByRisk(recs, models.RiskLow), 1)
	assert.Len(t, FilterByRisk(recs, models.RiskHigh), 3)
}

func TestGroupByServiceAndTotals(t *testing.T) {
	recs := []*models.Recommendation{
		rec(1, 100.105, models.RiskLow, models.ComplexityLow),
		rec(2, 200, models.RiskLow, models.ComplexityLow),
	}
	recs[1].Service = models.ServiceRDS

	assert.Equal(t, map[string][]int{
		models.ServiceEC2: {1},
		models.ServiceRDS: {2},
	}, GroupByService(recs))
	assert.InDelta(t, 300.1, TotalSavings(recs), 0.011)
}
