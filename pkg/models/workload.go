package models

import "strings"

// TrafficPattern describes the shape of incoming traffic over time
type TrafficPattern string

const (
	TrafficSteady    TrafficPattern = "STEADY"
	TrafficBursty    TrafficPattern = "BURSTY"
	TrafficPeakHours TrafficPattern = "PEAK_HOURS"
	TrafficSeasonal  TrafficPattern = "SEASONAL"
)

// TrafficPatterns lists every accepted traffic pattern
var TrafficPatterns = []TrafficPattern{TrafficSteady, TrafficBursty, TrafficPeakHours, TrafficSeasonal}

// UnmarshalText accepts any casing and '-' or ' ' as separators.
// Unknown values are kept so validation can report them.
func (t *TrafficPattern) UnmarshalText(text []byte) error {
	v := strings.ToUpper(strings.TrimSpace(string(text)))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	*t = TrafficPattern(v)
	return nil
}

// Valid reports whether t is a known traffic pattern
func (t TrafficPattern) Valid() bool {
	for _, p := range TrafficPatterns {
		if p == t {
			return true
		}
	}
	return false
}

// TechStack names the technologies a project is built on
type TechStack struct {
	Backend  string `json:"backend" yaml:"backend"`
	Frontend string `json:"frontend" yaml:"frontend"`
	Database string `json:"database" yaml:"database"`
	Cache    string `json:"cache,omitempty" yaml:"cache,omitempty"`
	Storage  string `json:"storage,omitempty" yaml:"storage,omitempty"`
	Auth     string `json:"auth,omitempty" yaml:"auth,omitempty"`
}

// CurrentInfrastructure describes what is provisioned today
type CurrentInfrastructure struct {
	InstanceCount int    `json:"instance_count" yaml:"instance_count"`
	InstanceType  string `json:"instance_type" yaml:"instance_type"`
	// DatabaseClass is empty when the project runs no managed database
	DatabaseClass string `json:"database_class,omitempty" yaml:"database_class,omitempty"`
	LoadBalancer  bool   `json:"load_balancer" yaml:"load_balancer"`
	CDN           bool   `json:"cdn" yaml:"cdn"`

	// Optional; estimators apply defaults when zero or empty
	StorageGB  int    `json:"storage_gb,omitempty" yaml:"storage_gb,omitempty"`
	Monitoring string `json:"monitoring,omitempty" yaml:"monitoring,omitempty"`
}

// HasDatabase reports whether a managed database is provisioned
func (c CurrentInfrastructure) HasDatabase() bool {
	return strings.TrimSpace(c.DatabaseClass) != ""
}

// ProjectProfile is the validated description of one project.
// It is read-only once handed to the pipeline.
type ProjectProfile struct {
	ProjectName    string                `json:"project_name" yaml:"project_name"`
	Budget         float64               `json:"budget" yaml:"budget"`
	ExpectedUsers  int                   `json:"expected_users" yaml:"expected_users"`
	TrafficPattern TrafficPattern        `json:"traffic_pattern" yaml:"traffic_pattern"`
	Region         string                `json:"region" yaml:"region"`
	TechStack      TechStack             `json:"tech_stack" yaml:"tech_stack"`
	Features       []string              `json:"features" yaml:"features"`
	CurrentInfra   CurrentInfrastructure `json:"current_infra" yaml:"current_infra"`
}

// LowerFeatures returns the feature list lowercased and trimmed
func (p *ProjectProfile) LowerFeatures() []string {
	out := make([]string, 0, len(p.Features))
	for _, f := range p.Features {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
