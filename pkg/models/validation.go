package models

import (
	"errors"
	"math"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ValidationError reports every problem found in a project profile
type ValidationError struct {
	Errors field.ErrorList
}

func (e *ValidationError) Error() string {
	return "invalid project profile: " + e.Errors.ToAggregate().Error()
}

// IsValidationError reports whether err wraps a *ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Validate checks the profile's required fields and ranges. When regions
// is non-empty the profile's region must be one of them.
func (p *ProjectProfile) Validate(regions ...string) error {
	var errs field.ErrorList
	root := field.NewPath("profile")

	if strings.TrimSpace(p.ProjectName) == "" {
		errs = append(errs, field.Required(root.Child("project_name"), "project name is required"))
	}
	if math.IsNaN(p.Budget) || math.IsInf(p.Budget, 0) || p.Budget <= 0 {
		errs = append(errs, field.Invalid(root.Child("budget"), p.Budget, "must be a positive amount"))
	}
	if p.ExpectedUsers <= 0 {
		errs = append(errs, field.Invalid(root.Child("expected_users"), p.ExpectedUsers, "must be positive"))
	}
	if p.TrafficPattern == "" {
		errs = append(errs, field.Required(root.Child("traffic_pattern"), ""))
	} else if !p.TrafficPattern.Valid() {
		valid := make([]string, 0, len(TrafficPatterns))
		for _, t := range TrafficPatterns {
			valid = append(valid, string(t))
		}
		errs = append(errs, field.NotSupported(root.Child("traffic_pattern"), p.TrafficPattern, valid))
	}

	if strings.TrimSpace(p.Region) == "" {
		errs = append(errs, field.Required(root.Child("region"), ""))
	} else if len(regions) > 0 && !sets.New(regions...).Has(p.Region) {
		errs = append(errs, field.NotSupported(root.Child("region"), p.Region, sets.List(sets.New(regions...))))
	}

	stack := root.Child("tech_stack")
	if strings.TrimSpace(p.TechStack.Backend) == "" {
		errs = append(errs, field.Required(stack.Child("backend"), ""))
	}
	if strings.TrimSpace(p.TechStack.Frontend) == "" {
		errs = append(errs, field.Required(stack.Child("frontend"), ""))
	}
	if strings.TrimSpace(p.TechStack.Database) == "" {
		errs = append(errs, field.Required(stack.Child("database"), ""))
	}

	infra := root.Child("current_infra")
	if p.CurrentInfra.InstanceCount < 0 {
		errs = append(errs, field.Invalid(infra.Child("instance_count"), p.CurrentInfra.InstanceCount, "must not be negative"))
	}
	if p.CurrentInfra.InstanceCount > 0 && strings.TrimSpace(p.CurrentInfra.InstanceType) == "" {
		errs = append(errs, field.Required(infra.Child("instance_type"), "required when instances are provisioned"))
	}
	if p.CurrentInfra.StorageGB < 0 {
		errs = append(errs, field.Invalid(infra.Child("storage_gb"), p.CurrentInfra.StorageGB, "must not be negative"))
	}
	switch strings.ToLower(p.CurrentInfra.Monitoring) {
	case "", "basic", "advanced":
	default:
		errs = append(errs, field.NotSupported(infra.Child("monitoring"), p.CurrentInfra.Monitoring, []string{"basic", "advanced"}))
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
