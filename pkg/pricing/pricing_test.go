package pricing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

func foodieHub() *models.ProjectProfile {
	return &models.ProjectProfile{
		ProjectName:    "FoodieHub",
		Budget:         150000,
		ExpectedUsers:  10000,
		TrafficPattern: models.TrafficPeakHours,
		Region:         "ap-south-1",
		TechStack:      models.TechStack{Backend: "Node.js", Frontend: "React", Database: "PostgreSQL"},
		Features:       []string{"Food delivery", "Order tracking"},
		CurrentInfra: models.CurrentInfrastructure{
			InstanceCount: 2,
			InstanceType:  "t3.medium",
			DatabaseClass: "db.t3.medium",
			LoadBalancer:  true,
		},
	}
}

func TestStaticEstimatorBreakdown(t *testing.T) {
	estimator := NewStaticEstimator(nil, nil)
	assert.Equal(t, "static", estimator.Name())

	est, err := estimator.Estimate(context.Background(), foodieHub())
	require.NoError(t, err)

	assert.Equal(t, 56000.0, est.Cost(models.ServiceEC2))
	assert.Equal(t, 40600.0, est.Cost(models.ServiceRDS))
	assert.Equal(t, 200.0, est.Cost(models.ServiceStorage))
	assert.Equal(t, 2600.0, est.Cost(models.ServiceLoadBalancer))
	assert.Equal(t, 0.0, est.Cost(models.ServiceCDN))
	assert.Equal(t, 1250.0, est.Cost(models.ServiceMonitoring))
	assert.Equal(t, 6135.94, est.Cost(models.ServiceDataTransfer))
	assert.InDelta(t, 106785.94, est.Total, 0.001)
	assert.InDelta(t, 150000-106785.94, est.RemainingBudget, 0.001)
	assert.InDelta(t, 71.19, est.UtilizationPercent, 0.001)
}

func TestStaticEstimatorRegionMultiplier(t *testing.T) {
	p := foodieHub()
	p.Region = "us-east-1"

	est, err := NewStaticEstimator(nil, nil).Estimate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 53200.0, est.Cost(models.ServiceEC2))
	// attached database storage is not region adjusted
	assert.Equal(t, 38600.0, est.Cost(models.ServiceRDS))
}

func TestStaticEstimatorOptionalServices(t *testing.T) {
	p := foodieHub()
	p.CurrentInfra.DatabaseClass = ""
	p.CurrentInfra.LoadBalancer = false
	p.CurrentInfra.CDN = true
	p.CurrentInfra.Monitoring = "advanced"
	p.CurrentInfra.StorageGB = 500
	p.Features = append(p.Features, "Image uploads")

	est, err := NewStaticEstimator(nil, nil).Estimate(context.Background(), p)
	require.NoError(t, err)

	assert.Zero(t, est.Cost(models.ServiceRDS))
	assert.Zero(t, est.Cost(models.ServiceLoadBalancer))
	assert.InDelta(t, 10000*50.0/1024*5, est.Cost(models.ServiceCDN), 0.01)
	assert.Equal(t, 3000.0+6*50, est.Cost(models.ServiceMonitoring))
	assert.Equal(t, 2000.0, est.Cost(models.ServiceStorage))
}

func TestStaticEstimatorUnknownTypesUseDefaults(t *testing.T) {
	p := foodieHub()
	p.CurrentInfra.InstanceType = "m7i.metal"
	p.CurrentInfra.DatabaseClass = "db.r6g.16xlarge"

	est, err := NewStaticEstimator(nil, nil).Estimate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 56000.0, est.Cost(models.ServiceEC2))
	assert.Equal(t, 40600.0, est.Cost(models.ServiceRDS))
}

func TestStaticEstimatorUnknownRegion(t *testing.T) {
	p := foodieHub()
	p.Region = "mars-north-1"

	_, err := NewStaticEstimator(nil, nil).Estimate(context.Background(), p)
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestCatalogRegionsSorted(t *testing.T) {
	assert.Equal(t, []string{"ap-south-1", "ap-southeast-1", "eu-west-1", "us-east-1"}, DefaultCatalog().Regions())
}

func TestLoadCatalogOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	content := `
compute:
  t3.medium: 30000
region_multipliers:
  ap-south-1: 1.0
  me-central-1: 1.2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	estimator, err := NewEstimator(&Config{CatalogFile: path}, nil)
	require.NoError(t, err)
	assert.Contains(t, estimator.Regions(), "me-central-1")

	p := foodieHub()
	p.Region = "me-central-1"
	est, err := estimator.Estimate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 72000.0, est.Cost(models.ServiceEC2))
}

func TestLoadCatalogStoragePrices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	content := `
object_storage_per_gb: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	estimator, err := NewEstimator(&Config{CatalogFile: path}, nil)
	require.NoError(t, err)

	est, err := estimator.Estimate(context.Background(), foodieHub())
	require.NoError(t, err)
	assert.Equal(t, 400.0, est.Cost(models.ServiceStorage))
}

func TestNewEstimatorUnknownProvider(t *testing.T) {
	_, err := NewEstimator(&Config{Provider: "oracle"}, nil)
	assert.Error(t, err)
}
