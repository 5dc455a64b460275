package pricing

import (
	"context"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/opscart/cloud-cost-optimizer/pkg/logging"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// StaticEstimator prices a profile from a fixed catalog
type StaticEstimator struct {
	catalog *Catalog
	log     logrus.FieldLogger
}

// NewStaticEstimator creates an estimator over catalog, or the built-in
// catalog when nil
func NewStaticEstimator(catalog *Catalog, log logrus.FieldLogger) *StaticEstimator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &StaticEstimator{
		catalog: catalog,
		log:     logging.OrDiscard(log),
	}
}

func (s *StaticEstimator) Name() string {
	return "static"
}

func (s *StaticEstimator) Regions() []string {
	return s.catalog.Regions()
}

// Estimate computes the per-service monthly cost. It only fails for
// regions missing from the catalog.
func (s *StaticEstimator) Estimate(ctx context.Context, profile *models.ProjectProfile) (*models.CostEstimate, error) {
	multiplier, err := s.catalog.RegionMultiplier(profile.Region)
	if err != nil {
		return nil, err
	}

	services := map[string]float64{
		models.ServiceEC2:          s.computeCost(profile, multiplier),
		models.ServiceRDS:          s.databaseCost(profile, multiplier),
		models.ServiceStorage:      s.storageCost(profile, multiplier),
		models.ServiceLoadBalancer: s.loadBalancerCost(profile, multiplier),
		models.ServiceCDN:          s.cdnCost(profile, multiplier),
		models.ServiceMonitoring:   s.monitoringCost(profile, multiplier),
		models.ServiceDataTransfer: s.dataTransferCost(profile, multiplier),
	}

	var total float64
	for name, cost := range services {
		services[name] = round2(cost)
		total += services[name]
	}
	total = round2(total)

	estimate := &models.CostEstimate{
		Services:        services,
		Total:           total,
		Budget:          profile.Budget,
		RemainingBudget: round2(profile.Budget - total),
		Region:          profile.Region,
	}
	if profile.Budget > 0 {
		estimate.UtilizationPercent = round2(total / profile.Budget * 100)
	}

	s.log.WithFields(logrus.Fields{
		"project": profile.ProjectName,
		"region":  profile.Region,
		"total":   total,
	}).Debug("Estimated monthly cost")

	return estimate, nil
}

func (s *StaticEstimator) computeCost(p *models.ProjectProfile, multiplier float64) float64 {
	infra := p.CurrentInfra
	return s.catalog.ComputePrice(infra.InstanceType) * float64(infra.InstanceCount) * multiplier
}

// databaseCost includes attached block storage, which is not region adjusted
func (s *StaticEstimator) databaseCost(p *models.ProjectProfile, multiplier float64) float64 {
	if !p.CurrentInfra.HasDatabase() {
		return 0
	}
	instance := s.catalog.DatabasePrice(p.CurrentInfra.DatabaseClass) * multiplier
	return instance + s.catalog.Assumptions.DatabaseStorageGB*s.catalog.BlockStoragePerGB
}

func (s *StaticEstimator) storageCost(p *models.ProjectProfile, multiplier float64) float64 {
	gb := float64(p.CurrentInfra.StorageGB)
	if gb == 0 {
		gb = float64(s.catalog.Assumptions.DefaultStorageGB)
	}
	for keyword, factor := range s.catalog.Assumptions.StorageGrowth {
		if hasFeature(p, keyword) {
			gb *= factor
		}
	}
	return gb * s.catalog.ObjectStoragePerGB * multiplier
}

func (s *StaticEstimator) loadBalancerCost(p *models.ProjectProfile, multiplier float64) float64 {
	if !p.CurrentInfra.LoadBalancer {
		return 0
	}
	cost := s.catalog.LoadBalancer
	if m, ok := s.catalog.TrafficMultipliers[p.TrafficPattern]; ok {
		cost *= m
	}
	return cost * multiplier
}

func (s *StaticEstimator) cdnCost(p *models.ProjectProfile, multiplier float64) float64 {
	if !p.CurrentInfra.CDN {
		return 0
	}
	gb := float64(p.ExpectedUsers) * s.catalog.Assumptions.CDNMBPerUser / 1024
	return gb * s.catalog.CDNPerGB * multiplier
}

func (s *StaticEstimator) monitoringCost(p *models.ProjectProfile, multiplier float64) float64 {
	level := strings.ToLower(p.CurrentInfra.Monitoring)
	base, ok := s.catalog.Monitoring[level]
	if !ok {
		base = s.catalog.Monitoring["basic"]
	}
	metrics := float64(s.catalog.Assumptions.BaseMetrics + len(p.Features))
	return (base + metrics*s.catalog.CustomMetric) * multiplier
}

func (s *StaticEstimator) dataTransferCost(p *models.ProjectProfile, multiplier float64) float64 {
	gb := float64(p.ExpectedUsers) * s.catalog.Assumptions.TransferMBPerUser / 1024
	billable := math.Max(0, gb-s.catalog.Assumptions.FreeTransferGB)
	return billable * s.catalog.DataTransferPerGB * multiplier
}

func hasFeature(p *models.ProjectProfile, keyword string) bool {
	for _, f := range p.LowerFeatures() {
		if strings.Contains(f, keyword) {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
