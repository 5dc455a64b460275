package textgen

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

var (
	// ErrSourceDisabled is returned by a source that is switched off
	ErrSourceDisabled = errors.New("text generation source disabled")
	// ErrEmptyResponse is returned when the source produced no text
	ErrEmptyResponse = errors.New("text generation source returned no text")
)

// Request carries the context a source needs to propose recommendations
type Request struct {
	Profile *models.ProjectProfile
	Costs   *models.CostEstimate
	Pattern models.UsagePattern
	Status  models.BudgetStatus
	// Count is how many recommendations to ask for
	Count int
	// ExistingTitles are rule recommendations the source should not repeat
	ExistingTitles []string
}

// Source produces free-text recommendation blocks. The returned sequence
// may be lazy and can be abandoned at any point.
type Source interface {
	Generate(ctx context.Context, req Request) (iter.Seq[string], error)
	Name() string
}

// SourceError wraps a failure of a named source
type SourceError struct {
	Source string
	Op     string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source: %s: %v", e.Source, e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Disabled is a source that never produces anything
type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) Generate(context.Context, Request) (iter.Seq[string], error) {
	return nil, ErrSourceDisabled
}

// New creates the configured source, or Disabled when switched off
func New(cfg config.ExternalConfig, log logrus.FieldLogger) Source {
	if !cfg.Enabled {
		return Disabled{}
	}
	return NewHTTPSource(cfg, log)
}
