package models

import "time"

// BudgetStatus compares the estimated cost against the budget
type BudgetStatus string

const (
	BudgetWithin BudgetStatus = "Within Budget"
	BudgetAtRisk BudgetStatus = "At Risk"
	BudgetOver   BudgetStatus = "Over Budget"
)

// ClassifyBudget returns Within when the estimate leaves at least
// margin*budget headroom, At Risk when it fits with less headroom and
// Over when it exceeds the budget.
func ClassifyBudget(estimated, budget, margin float64) BudgetStatus {
	switch {
	case estimated > budget:
		return BudgetOver
	case estimated <= budget*(1-margin):
		return BudgetWithin
	default:
		return BudgetAtRisk
	}
}

// ExternalStatus records what happened to the external source in a run
type ExternalStatus string

const (
	ExternalDisabled ExternalStatus = "disabled"
	ExternalOK       ExternalStatus = "ok"
	ExternalEmpty    ExternalStatus = "empty"
	ExternalTimeout  ExternalStatus = "timeout"
	ExternalFailed   ExternalStatus = "failed"
)

// Diagnostics explains how the final list was assembled
type Diagnostics struct {
	ExternalSource     ExternalStatus `json:"external_source" yaml:"external_source"`
	ExternalError      string         `json:"external_error,omitempty" yaml:"external_error,omitempty"`
	ExternalRawBlocks  int            `json:"external_raw_blocks" yaml:"external_raw_blocks"`
	ExternalAccepted   int            `json:"external_accepted" yaml:"external_accepted"`
	ExternalDropped    map[string]int `json:"external_dropped,omitempty" yaml:"external_dropped,omitempty"`
	RuleCandidates     int            `json:"rule_candidates" yaml:"rule_candidates"`
	RejectedCandidates int            `json:"rejected_candidates" yaml:"rejected_candidates"`
	DuplicatesRemoved  int            `json:"duplicates_removed" yaml:"duplicates_removed"`
	FilteredHighRisk   int            `json:"filtered_high_risk" yaml:"filtered_high_risk"`
	Truncated          int            `json:"truncated" yaml:"truncated"`
}

// ExternalSkipped reports whether the external source did not contribute
// to the run because it was disabled, timed out or failed.
func (d Diagnostics) ExternalSkipped() bool {
	return d.ExternalSource != ExternalOK && d.ExternalSource != ExternalEmpty
}

// RoadmapPhase is one ordered step of the implementation roadmap
type RoadmapPhase struct {
	Phase             int     `json:"phase" yaml:"phase"`
	Name              string  `json:"name" yaml:"name"`
	Timeline          string  `json:"timeline" yaml:"timeline"`
	RecommendationIDs []int   `json:"recommendation_ids" yaml:"recommendation_ids"`
	Savings           float64 `json:"savings" yaml:"savings"`
}

// Roadmap partitions the ranked recommendations into three phases
type Roadmap struct {
	Phases []RoadmapPhase `json:"phases" yaml:"phases"`
}

// OptimizationReport is the result of one pipeline run
type OptimizationReport struct {
	RunID                 string             `json:"run_id" yaml:"run_id"`
	GeneratedAt           time.Time          `json:"generated_at" yaml:"generated_at"`
	Project               string             `json:"project" yaml:"project"`
	Region                string             `json:"region" yaml:"region"`
	Budget                float64            `json:"budget" yaml:"budget"`
	EstimatedCost         float64            `json:"estimated_cost" yaml:"estimated_cost"`
	Status                BudgetStatus       `json:"status" yaml:"status"`
	CostBreakdown         map[string]float64 `json:"cost_breakdown" yaml:"cost_breakdown"`
	UsagePatterns         UsagePattern       `json:"usage_patterns" yaml:"usage_patterns"`
	TotalPotentialSavings float64            `json:"total_potential_savings" yaml:"total_potential_savings"`
	Recommendations       []*Recommendation  `json:"recommendations" yaml:"recommendations"`
	QuickWins             []*Recommendation  `json:"quick_wins" yaml:"quick_wins"`
	HighImpact            []*Recommendation  `json:"high_impact" yaml:"high_impact"`
	Roadmap               Roadmap            `json:"roadmap" yaml:"roadmap"`
	ServiceGroups         map[string][]int   `json:"service_groups" yaml:"service_groups"`
	Summary               string             `json:"summary" yaml:"summary"`
	Diagnostics           Diagnostics        `json:"diagnostics" yaml:"diagnostics"`
}

// OptimizedCost is the estimate after every recommendation is applied
func (r *OptimizationReport) OptimizedCost() float64 {
	c := r.EstimatedCost - r.TotalPotentialSavings
	if c < 0 {
		return 0
	}
	return c
}
