package ranker

import (
	"math"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

var phases = []struct {
	name     string
	timeline string
}{
	{"Quick Wins", "Immediate (0-2 weeks)"},
	{"High Impact", "Short term (1-2 months)"},
	{"Long Term", "Long term (3+ months)"},
}

// Roadmap places every ranked recommendation in exactly one phase: quick
// wins first, then the remaining high-impact items, then everything else.
// Ranked order is kept inside each phase.
func (r *Ranker) Roadmap(ranked []*models.Recommendation) models.Roadmap {
	roadmap := models.Roadmap{Phases: make([]models.RoadmapPhase, len(phases))}
	for i, p := range phases {
		roadmap.Phases[i] = models.RoadmapPhase{
			Phase:             i + 1,
			Name:              p.name,
			Timeline:          p.timeline,
			RecommendationIDs: []int{},
		}
	}

	for _, rec := range ranked {
		idx := 2
		switch {
		case r.IsQuickWin(rec):
			idx = 0
		case r.IsHighImpact(rec):
			idx = 1
		}
		phase := &roadmap.Phases[idx]
		phase.RecommendationIDs = append(phase.RecommendationIDs, rec.ID)
		phase.Savings += rec.ExpectedSavings
	}

	for i := range roadmap.Phases {
		roadmap.Phases[i].Savings = math.Round(roadmap.Phases[i].Savings*100) / 100
	}
	return roadmap
}
