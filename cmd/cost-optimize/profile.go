package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
	"github.com/opscart/cloud-cost-optimizer/pkg/pricing"
)

// loadProfile reads a project profile from a YAML or JSON file
func loadProfile(path string) (*models.ProjectProfile, error) {
	if path == "" {
		return nil, errors.New("a profile file is required (-f)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile models.ProjectProfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&profile); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("profile %s is empty", path)
		}
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &profile, nil
}

func newEstimator(pricingFile string, a *app) (pricing.Estimator, error) {
	return pricing.NewEstimator(&pricing.Config{CatalogFile: pricingFile}, a.log)
}
