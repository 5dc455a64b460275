package pricing

import (
	"context"
	"errors"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// ErrUnknownRegion is returned when a region has no price multiplier
var ErrUnknownRegion = errors.New("unknown region")

// Estimator projects the monthly cost of a project profile
type Estimator interface {
	Estimate(ctx context.Context, profile *models.ProjectProfile) (*models.CostEstimate, error)
	// Regions lists the regions the estimator can price, sorted
	Regions() []string
	Name() string
}

// Config selects and tunes an estimator
type Config struct {
	Provider    string
	CatalogFile string
}
