package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

func newTestAnalyzer() *Analyzer {
	return New(config.DefaultConfig().Analyzer, nil)
}

func profile(traffic models.TrafficPattern, users, instances int, features ...string) *models.ProjectProfile {
	return &models.ProjectProfile{
		ProjectName:    "test-project",
		Budget:         50000,
		ExpectedUsers:  users,
		TrafficPattern: traffic,
		Region:         "ap-south-1",
		Features:       features,
		CurrentInfra: models.CurrentInfrastructure{
			InstanceCount: instances,
			InstanceType:  "t3.medium",
			DatabaseClass: "db.t3.medium",
		},
	}
}

func TestExtractFoodDelivery(t *testing.T) {
	p := profile(models.TrafficPeakHours, 10000, 2, "Food delivery", "Order tracking")

	pattern := newTestAnalyzer().Extract(p)

	assert.Equal(t, models.TrafficPeakHours, pattern.Traffic)
	assert.Equal(t, []int{12, 13, 19, 20, 21}, pattern.PeakHours)
	assert.Equal(t, models.DatabaseWriteHeavy, pattern.DatabaseLoad)
	assert.Equal(t, models.StorageWarm, pattern.StorageAccess)
	assert.Equal(t, models.UtilizationNormal, pattern.Compute)
	assert.Equal(t, models.ScalingNone, pattern.Scaling)
}

func TestExtractDatabaseLoad(t *testing.T) {
	a := newTestAnalyzer()
	tests := []struct {
		name     string
		features []string
		want     models.DatabaseLoad
	}{
		{"search and browsing", []string{"Product search", "Catalog browsing"}, models.DatabaseReadHeavy},
		{"uploads and tracking", []string{"Photo upload", "GPS tracking"}, models.DatabaseWriteHeavy},
		{"one of each", []string{"Search", "Upload"}, models.DatabaseBalanced},
		{"no signals", []string{"User profiles"}, models.DatabaseBalanced},
		{"bias not reached", []string{"Search", "Dashboard", "Upload", "Tracking"}, models.DatabaseBalanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile(models.TrafficSteady, 1000, 1, tt.features...)
			assert.Equal(t, tt.want, a.Extract(p).DatabaseLoad)
		})
	}
}

func TestExtractDatabaseLoad_NoDatabase(t *testing.T) {
	p := profile(models.TrafficSteady, 1000, 1, "Product search", "Catalog browsing")
	p.CurrentInfra.DatabaseClass = ""

	assert.Equal(t, models.DatabaseNone, newTestAnalyzer().Extract(p).DatabaseLoad)
}

func TestExtractStorageAccess(t *testing.T) {
	a := newTestAnalyzer()

	assert.Equal(t, models.StorageHot, a.Extract(profile(models.TrafficSteady, 1000, 1, "Image gallery", "Video streaming")).StorageAccess)
	assert.Equal(t, models.StorageCold, a.Extract(profile(models.TrafficSteady, 1000, 1, "Archive of invoices", "Monthly reporting")).StorageAccess)
	assert.Equal(t, models.StorageWarm, a.Extract(profile(models.TrafficSteady, 1000, 1, "Chat")).StorageAccess)
}

func TestExtractScalingAndUtilization(t *testing.T) {
	a := newTestAnalyzer()

	busy := a.Extract(profile(models.TrafficBursty, 100000, 2))
	assert.Equal(t, models.UtilizationHigh, busy.Compute)
	assert.Equal(t, models.ScalingBoth, busy.Scaling)

	outgrown := a.Extract(profile(models.TrafficPeakHours, 60000, 5))
	assert.Equal(t, models.UtilizationNormal, outgrown.Compute)
	assert.Equal(t, models.ScalingHorizontal, outgrown.Scaling)

	steadyHot := a.Extract(profile(models.TrafficSteady, 50000, 1))
	assert.Equal(t, models.ScalingVertical, steadyHot.Scaling)

	idle := a.Extract(profile(models.TrafficSteady, 1000, 4))
	assert.Equal(t, models.UtilizationLow, idle.Compute)
	assert.Equal(t, models.ScalingNone, idle.Scaling)

	none := a.Extract(profile(models.TrafficSteady, 1000, 0))
	assert.Equal(t, models.UtilizationHigh, none.Compute)
}

func TestExtractPeakHours(t *testing.T) {
	a := newTestAnalyzer()

	assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15, 16, 17}, a.Extract(profile(models.TrafficPeakHours, 1000, 1, "User profiles")).PeakHours)
	assert.Empty(t, a.Extract(profile(models.TrafficBursty, 1000, 1, "Food delivery")).PeakHours)

	both := a.Extract(profile(models.TrafficPeakHours, 1000, 1, "Food delivery", "Shopping cart")).PeakHours
	assert.Equal(t, []int{12, 13, 18, 19, 20, 21, 22}, both)
}

func TestExtractIsDeterministic(t *testing.T) {
	a := newTestAnalyzer()
	p := profile(models.TrafficPeakHours, 25000, 3, "Food delivery", "Image uploads", "Analytics dashboard")

	assert.Equal(t, a.Extract(p), a.Extract(p))
}
