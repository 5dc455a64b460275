package optimizer

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opscart/cloud-cost-optimizer/pkg/metrics"
	"github.com/opscart/cloud-cost-optimizer/pkg/pricing"
	"github.com/opscart/cloud-cost-optimizer/pkg/textgen"
)

// Option customizes an Optimizer
type Option func(*Optimizer)

// WithSource replaces the configured external recommendation source
func WithSource(src textgen.Source) Option {
	return func(o *Optimizer) {
		o.source = src
	}
}

// WithEstimator replaces the built-in static cost estimator
func WithEstimator(e pricing.Estimator) Option {
	return func(o *Optimizer) {
		o.estimator = e
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Optimizer) {
		o.log = log
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Optimizer) {
		o.metrics = m
	}
}

// WithClock fixes the report timestamp source
func WithClock(now func() time.Time) Option {
	return func(o *Optimizer) {
		o.now = now
	}
}
