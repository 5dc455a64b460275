package recommender

import (
	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

func storageRules(cfg config.RulesConfig) []Rule {
	return []Rule{
		{
			ID:          "storage.lifecycle_policy",
			Domain:      models.DomainStorage,
			Service:     models.ServiceStorage,
			Title:       "Apply S3 Lifecycle Policies",
			Description: "Move objects that are rarely read to cheaper storage classes automatically",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityLow,
			Impact:      "Infrequently accessed data costs a fraction of standard storage",
			Steps: []string{
				"Analyze object access patterns",
				"Transition objects to Standard-IA after 30 days",
				"Archive objects to Glacier after 90 days",
				"Test retrieval times for critical data",
			},
			When:    func(in *Input) bool { return in.Pattern.StorageAccess != models.StorageHot },
			Savings: share(models.ServiceStorage, cfg.LifecyclePolicy),
			Match: weightIf(func(in *Input) bool {
				return in.Pattern.StorageAccess == models.StorageCold
			}, cfg.DirectMatch, cfg.PartialMatch),
		},
		{
			ID:          "storage.media_compression",
			Domain:      models.DomainStorage,
			Service:     models.ServiceStorage,
			Title:       "Compress and Resize Uploaded Media",
			Description: "Store optimized media renditions instead of raw uploads",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityMedium,
			Impact:      "Smaller objects lower both storage and transfer costs",
			Steps: []string{
				"Add server-side image optimization on upload",
				"Serve WebP to browsers that support it",
				"Generate thumbnails and a small set of resolutions",
				"Store only the compressed renditions in S3",
			},
			When:    func(in *Input) bool { return anyFeature(in, cfg.MediaKeywords) },
			Savings: share(models.ServiceStorage, cfg.MediaCompression),
			Match: weightIf(func(in *Input) bool {
				return in.Pattern.StorageAccess == models.StorageHot
			}, cfg.DirectMatch, cfg.PartialMatch),
		},
		{
			ID:          "storage.intelligent_tiering",
			Domain:      models.DomainStorage,
			Service:     models.ServiceStorage,
			Title:       "Enable S3 Intelligent-Tiering",
			Description: "Let S3 move objects between access tiers based on observed access",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityLow,
			Impact:      "Automatic savings with no application changes",
			Steps: []string{
				"Enable Intelligent-Tiering on the main buckets",
				"Configure the archive access tiers",
				"Exclude small objects that do not benefit from tiering",
				"Monitor savings in Cost Explorer",
			},
			When:    always,
			Savings: share(models.ServiceStorage, cfg.IntelligentTiering),
			Match:   weight(cfg.GenericMatch),
		},
	}
}
