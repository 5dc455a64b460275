package recommender

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/logging"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// Input is everything a rule may look at
type Input struct {
	Profile *models.ProjectProfile
	Pattern models.UsagePattern
	Costs   *models.CostEstimate
}

// Rule pairs a predicate with the recommendation it produces.
// Savings is evaluated against the current cost estimate and Match
// returns the rule's workload-match weight for the detected pattern.
type Rule struct {
	ID          string
	Domain      models.Domain
	Service     string
	Title       string
	Description string
	// Describe overrides Description when the text depends on the input
	Describe   func(in *Input) string
	Risk       models.RiskLevel
	Complexity models.ComplexityLevel
	Impact     string
	Steps      []string

	When    func(in *Input) bool
	Savings func(in *Input) float64
	Match   func(in *Input) float64
}

// Generate builds the candidate recommendation for in
func (r Rule) Generate(in *Input) *models.Recommendation {
	rec := &models.Recommendation{
		Title:               r.Title,
		Service:             r.Service,
		Domain:              r.Domain,
		Description:         r.Description,
		ExpectedSavings:     math.Round(r.Savings(in)*100) / 100,
		Risk:                r.Risk,
		Complexity:          r.Complexity,
		Impact:              r.Impact,
		ImplementationSteps: append([]string(nil), r.Steps...),
		Source:              models.SourceRules,
		RuleID:              r.ID,
	}
	if r.Describe != nil {
		rec.Description = r.Describe(in)
	}
	if r.Match != nil {
		rec.WorkloadMatch = r.Match(in)
	}
	return rec
}

// Result is the output of one rule evaluation pass
type Result struct {
	Candidates []*models.Recommendation
	// Rejected counts generated candidates that failed validation
	Rejected int
}

// Recommender evaluates the rule table against a profile
type Recommender struct {
	rules []Rule
	log   logrus.FieldLogger
}

// New creates a recommender over the built-in rule table
func New(cfg config.RulesConfig, log logrus.FieldLogger) *Recommender {
	return NewWithRules(DefaultRules(cfg), log)
}

// NewWithRules creates a recommender over a custom rule table
func NewWithRules(rules []Rule, log logrus.FieldLogger) *Recommender {
	return &Recommender{
		rules: rules,
		log:   logging.OrDiscard(log),
	}
}

// DefaultRules returns every built-in rule grouped by domain
func DefaultRules(cfg config.RulesConfig) []Rule {
	var rules []Rule
	rules = append(rules, computeRules(cfg)...)
	rules = append(rules, databaseRules(cfg)...)
	rules = append(rules, storageRules(cfg)...)
	rules = append(rules, networkRules(cfg)...)
	rules = append(rules, monitoringRules(cfg)...)
	return rules
}

// Evaluate runs every rule whose predicate holds. Candidates with invalid
// savings or no steps are rejected and logged; later candidates repeating
// an earlier title are skipped. Output order follows the rule table.
func (r *Recommender) Evaluate(in Input) Result {
	var result Result
	seen := make(map[string]bool)

	for _, rule := range r.rules {
		if !rule.When(&in) {
			continue
		}

		rec := rule.Generate(&in)
		if err := check(rec); err != "" {
			result.Rejected++
			r.log.WithFields(logrus.Fields{
				"rule":    rule.ID,
				"savings": rec.ExpectedSavings,
			}).Errorf("Rejected rule candidate: %s", err)
			continue
		}

		key := strings.ToLower(strings.TrimSpace(rec.Title))
		if seen[key] {
			r.log.WithField("rule", rule.ID).Debug("Skipped rule candidate with repeated title")
			continue
		}
		seen[key] = true

		result.Candidates = append(result.Candidates, rec)
	}

	r.log.WithFields(logrus.Fields{
		"candidates": len(result.Candidates),
		"rejected":   result.Rejected,
	}).Debug("Evaluated rules")

	return result
}

func check(rec *models.Recommendation) string {
	switch {
	case math.IsNaN(rec.ExpectedSavings) || math.IsInf(rec.ExpectedSavings, 0):
		return "savings is not a finite number"
	case rec.ExpectedSavings < 0:
		return "negative savings"
	case strings.TrimSpace(rec.Title) == "":
		return "empty title"
	case len(rec.ImplementationSteps) == 0:
		return "no implementation steps"
	}
	return ""
}

// share returns a savings function taking fraction of one service's cost
func share(service string, fraction float64) func(*Input) float64 {
	return func(in *Input) float64 {
		return in.Costs.Cost(service) * fraction
	}
}

// weight returns a constant workload-match function
func weight(w float64) func(*Input) float64 {
	return func(*Input) float64 { return w }
}

// weightIf returns hit when cond holds, miss otherwise
func weightIf(cond func(*Input) bool, hit, miss float64) func(*Input) float64 {
	return func(in *Input) float64 {
		if cond(in) {
			return hit
		}
		return miss
	}
}

func always(*Input) bool { return true }

func hasDatabase(in *Input) bool {
	return in.Profile.CurrentInfra.HasDatabase()
}

func hasInstances(in *Input) bool {
	return in.Profile.CurrentInfra.InstanceCount > 0
}

// anyFeature reports whether any feature contains one of the keywords
func anyFeature(in *Input, keywords []string) bool {
	for _, f := range in.Profile.LowerFeatures() {
		for _, k := range keywords {
			if strings.Contains(f, strings.ToLower(k)) {
				return true
			}
		}
	}
	return false
}
