package ranker

import (
	"cmp"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/logging"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// Ranker scores, orders and classifies merged recommendations
type Ranker struct {
	scoring  config.ScoringConfig
	classify config.ClassificationConfig
	log      logrus.FieldLogger
}

func New(scoring config.ScoringConfig, classify config.ClassificationConfig, log logrus.FieldLogger) *Ranker {
	return &Ranker{
		scoring:  scoring,
		classify: classify,
		log:      logging.OrDiscard(log),
	}
}

// NormalizedSavings maps savings into [0, SavingsScale) relative to the
// total estimated cost, so projects of different size score alike
func (r *Ranker) NormalizedSavings(savings, totalCost float64) float64 {
	if savings <= 0 {
		return 0
	}
	return r.scoring.SavingsScale * savings / (savings + math.Max(totalCost, 1))
}

// Score computes
//
//	savings_weight*normalized_savings - risk_weight*risk
//	  - complexity_weight*complexity + workload_weight*workload_match
//
// with risk and complexity as ordinals 0..2
func (r *Ranker) Score(rec *models.Recommendation, totalCost float64) float64 {
	return r.scoring.SavingsWeight*r.NormalizedSavings(rec.ExpectedSavings, totalCost) -
		r.scoring.RiskWeight*float64(rec.Risk.Ordinal()) -
		r.scoring.ComplexityWeight*float64(rec.Complexity.Ordinal()) +
		r.scoring.WorkloadWeight*rec.WorkloadMatch
}

// Rank scores every recommendation in place and returns them sorted by
// score, then savings, then ID. The input slice is not reordered.
func (r *Ranker) Rank(pool []*models.Recommendation, totalCost float64) []*models.Recommendation {
	ranked := slices.Clone(pool)
	for _, rec := range ranked {
		score := r.Score(rec, totalCost)
		rec.Score = &score
	}

	slices.SortStableFunc(ranked, func(a, b *models.Recommendation) int {
		if c := cmp.Compare(b.ScoreValue(), a.ScoreValue()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.ExpectedSavings, a.ExpectedSavings); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	r.log.WithField("count", len(ranked)).Debug("Ranked recommendations")
	return ranked
}

// IsQuickWin is true for low-risk work of low or medium complexity that
// saves at least the quick-win minimum
func (r *Ranker) IsQuickWin(rec *models.Recommendation) bool {
	return rec.Risk == models.RiskLow &&
		(rec.Complexity == models.ComplexityLow || rec.Complexity == models.ComplexityMedium) &&
		rec.ExpectedSavings >= r.classify.QuickWinMinSavings
}

// IsHighImpact is true when savings reach the high-impact threshold
func (r *Ranker) IsHighImpact(rec *models.Recommendation) bool {
	return rec.ExpectedSavings >= r.classify.HighImpactMinSavings
}

// QuickWins keeps ranked order
func (r *Ranker) QuickWins(ranked []*models.Recommendation) []*models.Recommendation {
	return filter(ranked, r.IsQuickWin)
}

// HighImpact keeps ranked order
func (r *Ranker) HighImpact(ranked []*models.Recommendation) []*models.Recommendation {
	return filter(ranked, r.IsHighImpact)
}

// FilterByRisk drops recommendations riskier than maxRisk
func FilterByRisk(recs []*models.Recommendation, maxRisk models.RiskLevel) []*models.Recommendation {
	limit := maxRisk.Ordinal()
	return filter(recs, func(rec *models.Recommendation) bool {
		return rec.Risk.Ordinal() <= limit
	})
}

// GroupByService maps each service to the IDs of its recommendations
func GroupByService(recs []*models.Recommendation) map[string][]int {
	groups := make(map[string][]int)
	for _, rec := range recs {
		groups[rec.Service] = append(groups[rec.Service], rec.ID)
	}
	return groups
}

// TotalSavings sums expected savings in whole paise
func TotalSavings(recs []*models.Recommendation) float64 {
	var paise int64
	for _, rec := range recs {
		paise += int64(math.Round(rec.ExpectedSavings * 100))
	}
	return float64(paise) / 100
}

func filter(recs []*models.Recommendation, keep func(*models.Recommendation) bool) []*models.Recommendation {
	out := make([]*models.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}
