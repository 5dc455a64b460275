package analyzer

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// keywordScore counts the keywords that appear in at least one feature
func keywordScore(features []string, keywords []string) int {
	score := 0
	for _, k := range keywords {
		k = strings.ToLower(k)
		for _, f := range features {
			if strings.Contains(f, k) {
				score++
				break
			}
		}
	}
	return score
}

// databaseLoad picks the side whose keyword score beats the other by the
// configured bias ratio. Profiles without a database have no load.
func (a *Analyzer) databaseLoad(p *models.ProjectProfile, features []string) models.DatabaseLoad {
	if !p.CurrentInfra.HasDatabase() {
		return models.DatabaseNone
	}

	read := float64(keywordScore(features, a.cfg.ReadKeywords))
	write := float64(keywordScore(features, a.cfg.WriteKeywords))

	switch {
	case read > write*a.cfg.LoadBiasRatio:
		return models.DatabaseReadHeavy
	case write > read*a.cfg.LoadBiasRatio:
		return models.DatabaseWriteHeavy
	default:
		return models.DatabaseBalanced
	}
}

func (a *Analyzer) storageAccess(features []string) models.StorageAccess {
	hot := keywordScore(features, a.cfg.HotStorageKeywords)
	cold := keywordScore(features, a.cfg.ColdStorageKeywords)

	switch {
	case hot > cold:
		return models.StorageHot
	case cold > hot:
		return models.StorageCold
	default:
		return models.StorageWarm
	}
}

// peakHours is only populated for peak-hour traffic. Every window whose
// keywords match the features or project name contributes its hours; with
// no match the default business-hours window applies.
func (a *Analyzer) peakHours(p *models.ProjectProfile, features []string) []int {
	if p.TrafficPattern != models.TrafficPeakHours {
		return []int{}
	}

	signals := append([]string{strings.ToLower(p.ProjectName)}, features...)
	hours := sets.New[int]()
	for _, w := range a.cfg.PeakWindows {
		if keywordScore(signals, w.Keywords) > 0 {
			hours.Insert(w.Hours...)
		}
	}
	if hours.Len() == 0 {
		hours.Insert(a.cfg.DefaultPeakHours...)
	}
	return sets.List(hours)
}
