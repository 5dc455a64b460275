package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opscart/cloud-cost-optimizer/pkg/analyzer"
	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/logging"
	"github.com/opscart/cloud-cost-optimizer/pkg/merger"
	"github.com/opscart/cloud-cost-optimizer/pkg/metrics"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
	"github.com/opscart/cloud-cost-optimizer/pkg/normalizer"
	"github.com/opscart/cloud-cost-optimizer/pkg/pricing"
	"github.com/opscart/cloud-cost-optimizer/pkg/ranker"
	"github.com/opscart/cloud-cost-optimizer/pkg/recommender"
	"github.com/opscart/cloud-cost-optimizer/pkg/reporter"
	"github.com/opscart/cloud-cost-optimizer/pkg/textgen"
)

// Request is one optimization run
type Request struct {
	Profile *models.ProjectProfile
	// NumRecommendations is clamped to the configured bounds; zero selects
	// the default
	NumRecommendations int
	ExcludeHighRisk    bool
	DisableExternal    bool
}

// Optimizer runs the recommendation pipeline. It keeps no state between
// runs, so one Optimizer may serve concurrent calls.
type Optimizer struct {
	cfg        *config.Config
	estimator  pricing.Estimator
	source     textgen.Source
	analyzer   *analyzer.Analyzer
	rules      *recommender.Recommender
	normalizer *normalizer.Normalizer
	merger     *merger.Merger
	ranker     *ranker.Ranker
	metrics    *metrics.Metrics
	log        logrus.FieldLogger
	now        func() time.Time
}

// New creates an optimizer over cfg. The config must not be modified
// while the optimizer is in use.
func New(cfg *config.Config, opts ...Option) (*Optimizer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := &Optimizer{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	o.log = logging.OrDiscard(o.log)
	if o.estimator == nil {
		o.estimator = pricing.NewStaticEstimator(nil, o.log)
	}
	if o.source == nil {
		o.source = textgen.New(cfg.External, o.log)
	}

	o.analyzer = analyzer.New(cfg.Analyzer, o.log)
	o.rules = recommender.New(cfg.Rules, o.log)
	o.normalizer = normalizer.New(cfg.Normalizer, o.log)
	o.merger = merger.New(cfg.Dedup, o.log)
	o.ranker = ranker.New(cfg.Scoring, cfg.Classification, o.log)

	return o, nil
}

// Estimator returns the cost estimator in use
func (o *Optimizer) Estimator() pricing.Estimator {
	return o.estimator
}

// Patterns validates the profile and returns its usage pattern
func (o *Optimizer) Patterns(profile *models.ProjectProfile) (models.UsagePattern, error) {
	if err := o.validate(profile); err != nil {
		return models.UsagePattern{}, err
	}
	return o.analyzer.Extract(profile), nil
}

// Estimate validates the profile and prices it
func (o *Optimizer) Estimate(ctx context.Context, profile *models.ProjectProfile) (*models.CostEstimate, error) {
	if err := o.validate(profile); err != nil {
		return nil, err
	}
	return o.estimator.Estimate(ctx, profile)
}

// Optimize runs the full pipeline. The only error is a
// *models.ValidationError for a bad profile; problems with the external
// source are reported in the report's diagnostics.
func (o *Optimizer) Optimize(ctx context.Context, req Request) (*models.OptimizationReport, error) {
	profile := req.Profile
	if err := o.validate(profile); err != nil {
		return nil, err
	}

	log := o.log.WithField("project", profile.ProjectName)
	n := o.cfg.ClampRecommendations(req.NumRecommendations)

	start := time.Now()
	estimate := o.estimate(ctx, profile, log)
	status := models.ClassifyBudget(estimate.Total, profile.Budget, o.cfg.Report.BudgetAtRiskMargin)
	o.metrics.ObserveStage("estimate", time.Since(start))

	start = time.Now()
	pattern := o.analyzer.Extract(profile)
	o.metrics.ObserveStage("analyze", time.Since(start))

	start = time.Now()
	ruleRes := o.rules.Evaluate(recommender.Input{Profile: profile, Pattern: pattern, Costs: estimate})
	o.metrics.ObserveStage("rules", time.Since(start))
	o.metrics.AddCandidates(models.SourceRules, len(ruleRes.Candidates))
	o.metrics.AddDropped("invariant", ruleRes.Rejected)

	titles := make([]string, 0, len(ruleRes.Candidates))
	for _, c := range ruleRes.Candidates {
		titles = append(titles, c.Title)
	}

	start = time.Now()
	ext := o.collectExternal(ctx, textgen.Request{
		Profile:        profile,
		Costs:          estimate,
		Pattern:        pattern,
		Status:         status,
		Count:          n,
		ExistingTitles: titles,
	}, req.DisableExternal)
	o.metrics.ObserveStage("external", time.Since(start))
	o.metrics.ExternalOutcome(ext.status)
	o.metrics.AddCandidates(models.SourceExternal, len(ext.candidates))
	for reason, count := range ext.stats.Dropped {
		o.metrics.AddDropped(reason, count)
	}

	start = time.Now()
	merged := o.merger.Merge(ruleRes.Candidates, ext.candidates)
	o.metrics.AddDuplicates(merged.Removed)

	ranked := o.ranker.Rank(merged.Pool, estimate.Total)
	filtered := 0
	if req.ExcludeHighRisk || !o.cfg.Report.IncludeHighRisk {
		kept := ranker.FilterByRisk(ranked, models.RiskMedium)
		filtered = len(ranked) - len(kept)
		ranked = kept
	}
	truncated := 0
	if len(ranked) > n {
		truncated = len(ranked) - n
		ranked = ranked[:n]
	}
	o.metrics.ObserveStage("rank", time.Since(start))

	report := &models.OptimizationReport{
		RunID:                 uuid.NewString(),
		GeneratedAt:           o.now(),
		Project:               profile.ProjectName,
		Region:                profile.Region,
		Budget:                profile.Budget,
		EstimatedCost:         estimate.Total,
		Status:                status,
		CostBreakdown:         estimate.Services,
		UsagePatterns:         pattern,
		TotalPotentialSavings: ranker.TotalSavings(ranked),
		Recommendations:       ranked,
		QuickWins:             o.ranker.QuickWins(ranked),
		HighImpact:            o.ranker.HighImpact(ranked),
		Roadmap:               o.ranker.Roadmap(ranked),
		ServiceGroups:         ranker.GroupByService(ranked),
		Diagnostics: models.Diagnostics{
			ExternalSource:     ext.status,
			ExternalRawBlocks:  ext.stats.Seen,
			ExternalAccepted:   ext.stats.Accepted,
			ExternalDropped:    ext.stats.Dropped,
			RuleCandidates:     len(ruleRes.Candidates),
			RejectedCandidates: ruleRes.Rejected,
			DuplicatesRemoved:  merged.Removed,
			FilteredHighRisk:   filtered,
			Truncated:          truncated,
		},
	}
	if ext.err != nil {
		report.Diagnostics.ExternalError = ext.err.Error()
	}
	report.Summary = reporter.Summary(report)
	o.metrics.ObserveReport(report)

	log.WithFields(logrus.Fields{
		"status":          status,
		"recommendations": len(ranked),
		"savings":         report.TotalPotentialSavings,
		"external":        ext.status,
	}).Info("Optimization complete")

	return report, nil
}

func (o *Optimizer) validate(profile *models.ProjectProfile) error {
	if profile == nil {
		return fmt.Errorf("project profile is required")
	}
	return profile.Validate(o.estimator.Regions()...)
}

// estimate prices the profile. A failing estimator yields an empty
// estimate so the rules still run.
func (o *Optimizer) estimate(ctx context.Context, profile *models.ProjectProfile, log logrus.FieldLogger) *models.CostEstimate {
	est, err := o.estimator.Estimate(ctx, profile)
	if err == nil && est != nil {
		if est.Services == nil {
			est.Services = map[string]float64{}
		}
		return est
	}

	log.WithError(err).WithField("estimator", o.estimator.Name()).Error("Cost estimation failed")
	return &models.CostEstimate{
		Services:        map[string]float64{},
		Budget:          profile.Budget,
		RemainingBudget: profile.Budget,
		Region:          profile.Region,
	}
}
