package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// Catalog holds monthly list prices in a single currency
type Catalog struct {
	Currency string `yaml:"currency"`

	// Monthly price per instance or database class
	Compute  map[string]float64 `yaml:"compute"`
	Database map[string]float64 `yaml:"database"`

	ObjectStoragePerGB float64 `yaml:"object_storage_per_gb"`
	BlockStoragePerGB  float64 `yaml:"block_storage_per_gb"`

	LoadBalancer      float64 `yaml:"load_balancer"`
	CDNPerGB          float64 `yaml:"cdn_per_gb"`
	DataTransferPerGB float64 `yaml:"data_transfer_per_gb"`

	Monitoring   map[string]float64 `yaml:"monitoring"`
	CustomMetric float64            `yaml:"custom_metric"`

	RegionMultipliers map[string]float64 `yaml:"region_multipliers"`
	// Load balancer capacity multiplier per traffic pattern
	TrafficMultipliers map[models.TrafficPattern]float64 `yaml:"traffic_multipliers"`

	Assumptions Assumptions `yaml:"assumptions"`
}

// Assumptions fill in what a profile does not say
type Assumptions struct {
	DefaultComputePrice  float64 `yaml:"default_compute_price"`
	DefaultDatabasePrice float64 `yaml:"default_database_price"`
	DefaultStorageGB     int     `yaml:"default_storage_gb"`
	DatabaseStorageGB    float64 `yaml:"database_storage_gb"`
	CDNMBPerUser         float64 `yaml:"cdn_mb_per_user"`
	TransferMBPerUser    float64 `yaml:"transfer_mb_per_user"`
	FreeTransferGB       float64 `yaml:"free_transfer_gb"`
	// Base metrics every deployment publishes, plus one per feature
	BaseMetrics int `yaml:"base_metrics"`
	// Storage growth factors for features matching these keywords
	StorageGrowth map[string]float64 `yaml:"storage_growth"`
}

// DefaultCatalog returns the built-in INR price list
func DefaultCatalog() *Catalog {
	return &Catalog{
		Currency: "INR",
		Compute: map[string]float64{
			"t3.nano":    3500,
			"t3.micro":   7000,
			"t3.small":   14000,
			"t3.medium":  28000,
			"t3.large":   56000,
			"t3.xlarge":  112000,
			"t3.2xlarge": 224000,
			"t4g.nano":   2800,
			"t4g.micro":  5600,
			"t4g.small":  11200,
			"t4g.medium": 22400,
			"t4g.large":  44800,
		},
		Database: map[string]float64{
			"db.t3.micro":  10000,
			"db.t3.small":  20000,
			"db.t3.medium": 40000,
			"db.t3.large":  80000,
			"db.t3.xlarge": 160000,
		},
		ObjectStoragePerGB: 2,
		BlockStoragePerGB:  6,
		LoadBalancer:       2000,
		CDNPerGB:           5,
		DataTransferPerGB:  7,
		Monitoring: map[string]float64{
			"basic":    1000,
			"advanced": 3000,
		},
		CustomMetric: 50,
		RegionMultipliers: map[string]float64{
			"ap-south-1":     1.0,
			"us-east-1":      0.95,
			"eu-west-1":      1.05,
			"ap-southeast-1": 1.08,
		},
		TrafficMultipliers: map[models.TrafficPattern]float64{
			models.TrafficPeakHours: 1.3,
			models.TrafficBursty:    1.5,
		},
		Assumptions: Assumptions{
			DefaultComputePrice:  28000,
			DefaultDatabasePrice: 40000,
			DefaultStorageGB:     100,
			DatabaseStorageGB:    100,
			CDNMBPerUser:         50,
			TransferMBPerUser:    100,
			FreeTransferGB:       100,
			BaseMetrics:          3,
			StorageGrowth: map[string]float64{
				"image":     2,
				"analytics": 1.5,
			},
		},
	}
}

// LoadCatalog reads a YAML price list and overlays it on the defaults
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	catalog := DefaultCatalog()
	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if len(catalog.RegionMultipliers) == 0 {
		return nil, fmt.Errorf("catalog %s defines no regions", path)
	}
	return catalog, nil
}

// Regions lists the priced regions, sorted
func (c *Catalog) Regions() []string {
	return sets.List(sets.KeySet(c.RegionMultipliers))
}

// RegionMultiplier returns the price multiplier for a region
func (c *Catalog) RegionMultiplier(region string) (float64, error) {
	m, ok := c.RegionMultipliers[region]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	return m, nil
}

// ComputePrice returns the monthly price of one instance
func (c *Catalog) ComputePrice(instanceType string) float64 {
	if p, ok := c.Compute[instanceType]; ok {
		return p
	}
	return c.Assumptions.DefaultComputePrice
}

// DatabasePrice returns the monthly price of one database instance
func (c *Catalog) DatabasePrice(class string) float64 {
	if p, ok := c.Database[class]; ok {
		return p
	}
	return c.Assumptions.DefaultDatabasePrice
}
