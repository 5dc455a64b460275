package analyzer

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/logging"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// Analyzer derives usage patterns from a project profile. It holds no
// state between calls and the same profile always yields the same pattern.
type Analyzer struct {
	cfg config.AnalyzerConfig
	log logrus.FieldLogger
}

func New(cfg config.AnalyzerConfig, log logrus.FieldLogger) *Analyzer {
	return &Analyzer{
		cfg: cfg,
		log: logging.OrDiscard(log),
	}
}

// Extract classifies traffic, database load, storage access, scaling need
// and compute utilization for the profile
func (a *Analyzer) Extract(profile *models.ProjectProfile) models.UsagePattern {
	features := profile.LowerFeatures()
	compute := a.computeUtilization(profile)

	pattern := models.UsagePattern{
		Traffic:       profile.TrafficPattern,
		DatabaseLoad:  a.databaseLoad(profile, features),
		StorageAccess: a.storageAccess(features),
		Compute:       compute,
		Scaling:       a.scalingNeed(profile, compute),
		PeakHours:     a.peakHours(profile, features),
	}

	a.log.WithFields(logrus.Fields{
		"project":        profile.ProjectName,
		"database_load":  pattern.DatabaseLoad,
		"storage_access": pattern.StorageAccess,
		"scaling":        pattern.Scaling,
		"compute":        pattern.Compute,
	}).Debug("Extracted usage pattern")

	return pattern
}

// computeUtilization compares expected users per instance with the
// configured thresholds. A profile with no instances is fully loaded.
func (a *Analyzer) computeUtilization(p *models.ProjectProfile) models.ComputeUtilization {
	instances := p.CurrentInfra.InstanceCount
	if instances <= 0 {
		return models.UtilizationHigh
	}

	perInstance := float64(p.ExpectedUsers) / float64(instances)
	switch {
	case perInstance < a.cfg.LowUsersPerInstance:
		return models.UtilizationLow
	case perInstance > a.cfg.HighUsersPerInstance:
		return models.UtilizationHigh
	default:
		return models.UtilizationNormal
	}
}

// instanceNeed is the number of instances the expected users call for
func (a *Analyzer) instanceNeed(p *models.ProjectProfile) int {
	need := int(math.Ceil(float64(p.ExpectedUsers) / a.cfg.UsersPerInstanceCapacity))
	if need < 1 {
		need = 1
	}
	return need
}

func (a *Analyzer) scalingNeed(p *models.ProjectProfile, compute models.ComputeUtilization) models.ScalingNeed {
	variable := p.TrafficPattern == models.TrafficBursty || p.TrafficPattern == models.TrafficPeakHours
	horizontal := variable && p.CurrentInfra.InstanceCount <= a.instanceNeed(p)
	vertical := compute == models.UtilizationHigh && p.CurrentInfra.InstanceCount <= a.cfg.VerticalMaxInstances

	switch {
	case horizontal && vertical:
		return models.ScalingBoth
	case horizontal:
		return models.ScalingHorizontal
	case vertical:
		return models.ScalingVertical
	default:
		return models.ScalingNone
	}
}
