package pricing

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewEstimator creates an estimator from config
func NewEstimator(config *Config, log logrus.FieldLogger) (Estimator, error) {
	provider := "static"
	if config != nil && config.Provider != "" {
		provider = config.Provider
	}

	switch provider {
	case "static", "default":
		catalog := DefaultCatalog()
		if config != nil && config.CatalogFile != "" {
			loaded, err := LoadCatalog(config.CatalogFile)
			if err != nil {
				return nil, err
			}
			catalog = loaded
		}
		return NewStaticEstimator(catalog, log), nil
	default:
		return nil, fmt.Errorf("unknown pricing provider: %s", provider)
	}
}
