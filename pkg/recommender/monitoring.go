package recommender

import (
	"strings"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

func monitoringRules(cfg config.RulesConfig) []Rule {
	verboseLogging := func(in *Input) bool {
		return strings.EqualFold(in.Profile.CurrentInfra.Monitoring, "advanced") || anyFeature(in, cfg.LogHeavyKeywords)
	}

	return []Rule{
		{
			ID:          "monitoring.log_retention",
			Domain:      models.DomainMonitoring,
			Service:     models.ServiceMonitoring,
			Title:       "Shorten CloudWatch Log Retention",
			Description: "Default log groups keep data forever; set retention per log type",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityLow,
			Impact:      "Log storage stops growing without bound",
			Steps: []string{
				"List log groups and their current retention",
				"Set 7-day retention for debug logs",
				"Set 30-day retention for application logs",
				"Export logs needed for audits to S3",
			},
			When:    func(in *Input) bool { return in.Costs.Cost(models.ServiceMonitoring) > 0 },
			Savings: share(models.ServiceMonitoring, cfg.LogRetention),
			Match:   weightIf(verboseLogging, cfg.PartialMatch, cfg.GenericMatch),
		},
		{
			ID:          "monitoring.metric_sampling",
			Domain:      models.DomainMonitoring,
			Service:     models.ServiceMonitoring,
			Title:       "Sample High-Frequency Metrics and Traces",
			Description: "At this user count full-fidelity tracing dominates the monitoring bill",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityMedium,
			Impact:      "Lower ingestion cost with errors still captured in full",
			Steps: []string{
				"Apply 10% sampling to high-frequency metrics",
				"Keep full sampling for errors and exceptions",
				"Configure X-Ray sampling rules per service",
				"Validate dashboard accuracy after the change",
			},
			When:    func(in *Input) bool { return in.Profile.ExpectedUsers > cfg.MetricSamplingMinUsers },
			Savings: share(models.ServiceMonitoring, cfg.MetricSampling),
			Match:   weight(cfg.PartialMatch),
		},
	}
}
