package merger

import (
	"github.com/sirupsen/logrus"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/logging"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// Result is the deduplicated candidate pool
type Result struct {
	Pool    []*models.Recommendation
	Removed int
}

// Merger combines rule and external candidates into one pool with at most
// one entry per distinct optimization
type Merger struct {
	cfg config.DedupConfig
	log logrus.FieldLogger
}

func New(cfg config.DedupConfig, log logrus.FieldLogger) *Merger {
	return &Merger{
		cfg: cfg,
		log: logging.OrDiscard(log),
	}
}

// Merge deduplicates rule candidates followed by external candidates.
// Inputs are not modified. The surviving candidate keeps the position of
// the first one seen, and IDs are assigned 1..n in pool order.
func (m *Merger) Merge(rules, external []*models.Recommendation) Result {
	var res Result

	for _, cand := range append(append([]*models.Recommendation(nil), rules...), external...) {
		if cand == nil {
			continue
		}
		idx := m.duplicateOf(res.Pool, cand)
		if idx < 0 {
			res.Pool = append(res.Pool, cand.Clone())
			continue
		}

		res.Removed++
		existing := res.Pool[idx]
		if prefer(cand, existing) {
			m.log.WithFields(logrus.Fields{
				"kept":    cand.Title,
				"dropped": existing.Title,
			}).Debug("Replaced duplicate recommendation")
			res.Pool[idx] = cand.Clone()
		} else {
			m.log.WithFields(logrus.Fields{
				"kept":    existing.Title,
				"dropped": cand.Title,
			}).Debug("Dropped duplicate recommendation")
		}
	}

	for i, r := range res.Pool {
		r.ID = i + 1
	}
	return res
}

// IsDuplicate reports whether two candidates describe the same optimization
func (m *Merger) IsDuplicate(a, b *models.Recommendation) bool {
	return a.Domain == b.Domain && Similarity(a.Title, b.Title) > m.cfg.SimilarityThreshold
}

func (m *Merger) duplicateOf(pool []*models.Recommendation, cand *models.Recommendation) int {
	for i, r := range pool {
		if m.IsDuplicate(r, cand) {
			return i
		}
	}
	return -1
}

// prefer reports whether cand should replace existing: higher savings
// wins, and on a tie a rule candidate beats an external one
func prefer(cand, existing *models.Recommendation) bool {
	if cand.ExpectedSavings != existing.ExpectedSavings {
		return cand.ExpectedSavings > existing.ExpectedSavings
	}
	return cand.Source == models.SourceRules && existing.Source != models.SourceRules
}
