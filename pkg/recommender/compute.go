package recommender

import (
	"fmt"
	"strings"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// armFamilies maps x86 instance families to their Graviton equivalent
var armFamilies = map[string]string{
	"t3":  "t4g",
	"t3a": "t4g",
	"m5":  "m6g",
	"c5":  "c6g",
	"r5":  "r6g",
}

// armEquivalent returns the Graviton instance type for instanceType
func armEquivalent(instanceType string) (string, bool) {
	family, size, ok := strings.Cut(instanceType, ".")
	if !ok {
		return "", false
	}
	arm, ok := armFamilies[family]
	if !ok {
		return "", false
	}
	return arm + "." + size, true
}

func computeRules(cfg config.RulesConfig) []Rule {
	variableTraffic := func(in *Input) bool {
		t := in.Pattern.Traffic
		return t == models.TrafficBursty || t == models.TrafficPeakHours
	}

	return []Rule{
		{
			ID:          "compute.autoscaling",
			Domain:      models.DomainCompute,
			Service:     models.ServiceEC2,
			Title:       "Enable Auto Scaling",
			Description: "Replace the fixed EC2 fleet with an Auto Scaling Group that follows the traffic curve",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityMedium,
			Impact:      "Cuts spend in quiet hours while keeping headroom for peaks",
			Steps: []string{
				"Create an Auto Scaling Group with min 1 and max 4 instances",
				"Set up a target tracking scaling policy at 70% CPU",
				"Configure scale-in protection for critical instances",
				"Load test the scaling behavior before switching traffic",
			},
			When: variableTraffic,
			Savings: func(in *Input) float64 {
				fraction := cfg.AutoscalingPeakHours
				if in.Pattern.Traffic == models.TrafficBursty {
					fraction = cfg.AutoscalingBursty
				}
				return in.Costs.Cost(models.ServiceEC2) * fraction
			},
			Match: weightIf(func(in *Input) bool { return in.Pattern.Scaling.Horizontal() }, cfg.DirectMatch, cfg.PartialMatch),
		},
		{
			ID:          "compute.scheduled_scaling",
			Domain:      models.DomainCompute,
			Service:     models.ServiceEC2,
			Title:       "Schedule Capacity for Seasonal Peaks",
			Description: "Scale the fleet on a calendar so off-season months run on minimum capacity",
			Risk:        models.RiskLow,
			Complexity:  models.ComplexityMedium,
			Impact:      "Removes idle capacity outside the seasonal peak",
			Steps: []string{
				"Identify seasonal peaks from last year's traffic",
				"Create scheduled scaling actions for peak and off-peak months",
				"Pre-warm capacity a week before each known peak",
				"Review the schedule after every season",
			},
			When:    func(in *Input) bool { return in.Pattern.Traffic == models.TrafficSeasonal && hasInstances(in) },
			Savings: share(models.ServiceEC2, cfg.ScheduledScaling),
			Match:   weight(cfg.DirectMatch),
		},
		{
			ID:          "compute.reserved_capacity",
			Domain:      models.DomainCompute,
			Service:     models.ServiceEC2,
			Title:       "Commit to Reserved Instances or a Savings Plan",
			Description: "Steady traffic keeps the baseline fleet busy around the clock, which suits a one-year commitment",
			Risk:        models.RiskMedium,
			Complexity:  models.ComplexityLow,
			Impact:      "Lower hourly rate in exchange for a one-year commitment",
			Steps: []string{
				"Confirm the baseline instance count over the last 30 days",
				"Compare Compute Savings Plan and Reserved Instance pricing",
				"Purchase a one-year no-upfront commitment for the baseline",
				"Track commitment utilization monthly in Cost Explorer",
			},
			When:    func(in *Input) bool { return in.Pattern.Traffic == models.TrafficSteady && hasInstances(in) },
			Savings: share(models.ServiceEC2, cfg.ReservedCapacity),
			Match:   weightIf(func(in *Input) bool { return in.Pattern.Compute != models.UtilizationLow }, cfg.DirectMatch, cfg.PartialMatch),
		},
		{
			ID:          "compute.right_sizing",
			Domain:      models.DomainCompute,
			Service:     models.ServiceEC2,
			Title:       "Right-size Underutilized Instances",
			Description: "Expected load per instance is low; a smaller instance size covers it",
			Describe: func(in *Input) string {
				return fmt.Sprintf("%d x %s serve only %d users; move to the next smaller size",
					in.Profile.CurrentInfra.InstanceCount, in.Profile.CurrentInfra.InstanceType, in.Profile.ExpectedUsers)
			},
			Risk:       models.RiskMedium,
			Complexity: models.ComplexityLow,
			Impact:     "Reduces capacity headroom, monitor closely after the change",
			Steps: []string{
				"Monitor CPU and memory utilization for one week",
				"Launch a test instance one size smaller",
				"Run load tests to verify performance",
				"Gradually migrate production traffic",
			},
			When:    func(in *Input) bool { return in.Pattern.Compute == models.UtilizationLow && hasInstances(in) },
			Savings: share(models.ServiceEC2, cfg.RightSizing),
			Match:   weight(cfg.DirectMatch),
		},
		{
			ID:          "compute.graviton",
			Domain:      models.DomainCompute,
			Service:     models.ServiceEC2,
			Title:       "Migrate to ARM-based Graviton Instances",
			Description: "Switch to the Graviton equivalent of the current instance family",
			Describe: func(in *Input) string {
				arm, _ := armEquivalent(in.Profile.CurrentInfra.InstanceType)
				return fmt.Sprintf("Switch from %s to %s", in.Profile.CurrentInfra.InstanceType, arm)
			},
			Risk:       models.RiskLow,
			Complexity: models.ComplexityLow,
			Impact:     "About 20% lower price with comparable performance",
			Steps: []string{
				"Verify application compatibility with ARM64",
				"Update container images to multi-arch builds",
				"Launch Graviton instances alongside the current fleet",
				"Gradually migrate traffic using the load balancer",
			},
			When: func(in *Input) bool {
				_, ok := armEquivalent(in.Profile.CurrentInfra.InstanceType)
				return ok && hasInstances(in)
			},
			Savings: share(models.ServiceEC2, cfg.Graviton),
			Match:   weight(cfg.GenericMatch),
		},
		{
			ID:          "compute.spot_instances",
			Domain:      models.DomainCompute,
			Service:     models.ServiceEC2,
			Title:       "Use Spot Instances for Background Jobs",
			Description: "Run interruptible batch and analytics work on spot capacity",
			Risk:        models.RiskMedium,
			Complexity:  models.ComplexityMedium,
			Impact:      "Up to 70% lower cost for interruptible workloads",
			Steps: []string{
				"Identify fault-tolerant background workloads",
				"Implement checkpointing for long-running jobs",
				"Create a spot fleet request with multiple instance types",
				"Set up interruption handling and fallback to on-demand",
			},
			When:    func(in *Input) bool { return hasInstances(in) && anyFeature(in, cfg.BatchKeywords) },
			Savings: share(models.ServiceEC2, cfg.SpotInstances),
			Match:   weight(cfg.DirectMatch),
		},
	}
}
