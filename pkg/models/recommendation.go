package models

import "strings"

// RiskLevel represents the risk of applying a recommendation
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ComplexityLevel represents the effort needed to apply a recommendation
type ComplexityLevel string

const (
	ComplexityLow    ComplexityLevel = "Low"
	ComplexityMedium ComplexityLevel = "Medium"
	ComplexityHigh   ComplexityLevel = "High"
)

// Ordinal maps Low/Medium/High to 0/1/2. Unknown values rank as Medium.
func (r RiskLevel) Ordinal() int {
	return levelOrdinal(string(r))
}

// Ordinal maps Low/Medium/High to 0/1/2. Unknown values rank as Medium.
func (c ComplexityLevel) Ordinal() int {
	return levelOrdinal(string(c))
}

func levelOrdinal(v string) int {
	switch strings.ToLower(v) {
	case "low":
		return 0
	case "high":
		return 2
	default:
		return 1
	}
}

// ParseRiskLevel parses a case-insensitive level name
func ParseRiskLevel(v string) (RiskLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "low":
		return RiskLow, true
	case "medium", "moderate":
		return RiskMedium, true
	case "high":
		return RiskHigh, true
	}
	return "", false
}

// ParseComplexityLevel parses a case-insensitive level name
func ParseComplexityLevel(v string) (ComplexityLevel, bool) {
	r, ok := ParseRiskLevel(v)
	return ComplexityLevel(r), ok
}

// Domain groups recommendations by the infrastructure area they touch.
// Deduplication only compares candidates within one domain.
type Domain string

const (
	DomainCompute    Domain = "compute"
	DomainDatabase   Domain = "database"
	DomainStorage    Domain = "storage"
	DomainNetwork    Domain = "network"
	DomainMonitoring Domain = "monitoring"
	DomainGeneral    Domain = "general"
)

// Source identifies where a recommendation came from
type Source string

const (
	SourceRules    Source = "rules"
	SourceExternal Source = "external"
)

// Recommendation is a single cost-saving action. Candidates and ranked
// results share this shape: ID is set by the merger, Score by the ranker.
type Recommendation struct {
	ID                  int             `json:"id" yaml:"id"`
	Title               string          `json:"title" yaml:"title"`
	Service             string          `json:"service" yaml:"service"`
	Domain              Domain          `json:"domain" yaml:"domain"`
	Description         string          `json:"description,omitempty" yaml:"description,omitempty"`
	ExpectedSavings     float64         `json:"expected_savings_inr" yaml:"expected_savings_inr"`
	Risk                RiskLevel       `json:"risk" yaml:"risk"`
	Complexity          ComplexityLevel `json:"complexity" yaml:"complexity"`
	Impact              string          `json:"impact" yaml:"impact"`
	ImplementationSteps []string        `json:"implementation_steps" yaml:"implementation_steps"`
	WorkloadMatch       float64         `json:"workload_match" yaml:"workload_match"`
	Score               *float64        `json:"score,omitempty" yaml:"score,omitempty"`
	Source              Source          `json:"source" yaml:"source"`
	RuleID              string          `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
}

// ScoreValue returns the assigned score, zero before ranking
func (r *Recommendation) ScoreValue() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// Clone returns a deep copy
func (r *Recommendation) Clone() *Recommendation {
	c := *r
	c.ImplementationSteps = append([]string(nil), r.ImplementationSteps...)
	if r.Score != nil {
		s := *r.Score
		c.Score = &s
	}
	return &c
}
