package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Analyzer       AnalyzerConfig       `yaml:"analyzer" json:"analyzer"`
	Rules          RulesConfig          `yaml:"rules" json:"rules"`
	Normalizer     NormalizerConfig     `yaml:"normalizer" json:"normalizer"`
	Dedup          DedupConfig          `yaml:"dedup" json:"dedup"`
	Scoring        ScoringConfig        `yaml:"scoring" json:"scoring"`
	Classification ClassificationConfig `yaml:"classification" json:"classification"`
	Report         ReportConfig         `yaml:"report" json:"report"`
	External       ExternalConfig       `yaml:"external" json:"external"`
	Logging        LoggingConfig        `yaml:"logging" json:"logging"`
}

// PeakWindow maps feature keywords to the hours they usually peak at
type PeakWindow struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Hours    []int    `yaml:"hours" json:"hours"`
}

// AnalyzerConfig tunes usage pattern extraction
type AnalyzerConfig struct {
	// Users per instance below this is LOW utilization, above High is HIGH
	LowUsersPerInstance  float64 `yaml:"low_users_per_instance" json:"low_users_per_instance"`
	HighUsersPerInstance float64 `yaml:"high_users_per_instance" json:"high_users_per_instance"`
	// Users a single instance can serve; sets the current instance need
	UsersPerInstanceCapacity float64 `yaml:"users_per_instance_capacity" json:"users_per_instance_capacity"`
	// Highly utilized fleets up to this size should scale up
	VerticalMaxInstances int `yaml:"vertical_max_instances" json:"vertical_max_instances"`

	ReadKeywords        []string `yaml:"read_keywords" json:"read_keywords"`
	WriteKeywords       []string `yaml:"write_keywords" json:"write_keywords"`
	HotStorageKeywords  []string `yaml:"hot_storage_keywords" json:"hot_storage_keywords"`
	ColdStorageKeywords []string `yaml:"cold_storage_keywords" json:"cold_storage_keywords"`
	// One side must outscore the other by this factor to win
	LoadBiasRatio float64 `yaml:"load_bias_ratio" json:"load_bias_ratio"`

	PeakWindows      []PeakWindow `yaml:"peak_windows" json:"peak_windows"`
	DefaultPeakHours []int        `yaml:"default_peak_hours" json:"default_peak_hours"`
}

// RulesConfig holds the savings fraction of each rule and match weights
type RulesConfig struct {
	AutoscalingBursty    float64 `yaml:"autoscaling_bursty" json:"autoscaling_bursty"`
	AutoscalingPeakHours float64 `yaml:"autoscaling_peak_hours" json:"autoscaling_peak_hours"`
	ScheduledScaling     float64 `yaml:"scheduled_scaling" json:"scheduled_scaling"`
	ReservedCapacity     float64 `yaml:"reserved_capacity" json:"reserved_capacity"`
	RightSizing          float64 `yaml:"right_sizing" json:"right_sizing"`
	Graviton             float64 `yaml:"graviton" json:"graviton"`
	SpotInstances        float64 `yaml:"spot_instances" json:"spot_instances"`
	ReadReplicas         float64 `yaml:"read_replicas" json:"read_replicas"`
	QueryCaching         float64 `yaml:"query_caching" json:"query_caching"`
	WriteBatching        float64 `yaml:"write_batching" json:"write_batching"`
	ConnectionPooling    float64 `yaml:"connection_pooling" json:"connection_pooling"`
	// Flat monthly amount, capped at the database cost
	StorageAutoscaling  float64 `yaml:"storage_autoscaling" json:"storage_autoscaling"`
	LifecyclePolicy     float64 `yaml:"lifecycle_policy" json:"lifecycle_policy"`
	MediaCompression    float64 `yaml:"media_compression" json:"media_compression"`
	IntelligentTiering  float64 `yaml:"intelligent_tiering" json:"intelligent_tiering"`
	CDN                 float64 `yaml:"cdn" json:"cdn"`
	VPCEndpoints        float64 `yaml:"vpc_endpoints" json:"vpc_endpoints"`
	LoadBalancerRemoval float64 `yaml:"load_balancer_removal" json:"load_balancer_removal"`
	LogRetention        float64 `yaml:"log_retention" json:"log_retention"`
	MetricSampling      float64 `yaml:"metric_sampling" json:"metric_sampling"`

	MetricSamplingMinUsers int `yaml:"metric_sampling_min_users" json:"metric_sampling_min_users"`

	// Workload match weights: a rule addressing the detected pattern
	// directly, one that partially fits it, and generic hygiene rules
	DirectMatch  float64 `yaml:"direct_match" json:"direct_match"`
	PartialMatch float64 `yaml:"partial_match" json:"partial_match"`
	GenericMatch float64 `yaml:"generic_match" json:"generic_match"`

	MediaKeywords    []string `yaml:"media_keywords" json:"media_keywords"`
	BatchKeywords    []string `yaml:"batch_keywords" json:"batch_keywords"`
	SPAFrameworks    []string `yaml:"spa_frameworks" json:"spa_frameworks"`
	LogHeavyKeywords []string `yaml:"log_heavy_keywords" json:"log_heavy_keywords"`
}

// NormalizerConfig controls parsing of externally generated text
type NormalizerConfig struct {
	WorkloadMatch  float64 `yaml:"workload_match" json:"workload_match"`
	MaxSteps       int     `yaml:"max_steps" json:"max_steps"`
	MinStepLength  int     `yaml:"min_step_length" json:"min_step_length"`
	MaxTitleLength int     `yaml:"max_title_length" json:"max_title_length"`
}

// DedupConfig controls title similarity in the merger
type DedupConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" json:"similarity_threshold"`
}

// ScoringConfig holds the ranking weights
type ScoringConfig struct {
	SavingsWeight    float64 `yaml:"savings_weight" json:"savings_weight"`
	RiskWeight       float64 `yaml:"risk_weight" json:"risk_weight"`
	ComplexityWeight float64 `yaml:"complexity_weight" json:"complexity_weight"`
	WorkloadWeight   float64 `yaml:"workload_weight" json:"workload_weight"`
	// Upper bound of the normalized savings term
	SavingsScale float64 `yaml:"savings_scale" json:"savings_scale"`
}

// ClassificationConfig holds the quick-win and high-impact thresholds
type ClassificationConfig struct {
	QuickWinMinSavings   float64 `yaml:"quick_win_min_savings" json:"quick_win_min_savings"`
	HighImpactMinSavings float64 `yaml:"high_impact_min_savings" json:"high_impact_min_savings"`
}

// ReportConfig controls report assembly
type ReportConfig struct {
	DefaultRecommendations int     `yaml:"default_recommendations" json:"default_recommendations"`
	MaxRecommendations     int     `yaml:"max_recommendations" json:"max_recommendations"`
	BudgetAtRiskMargin     float64 `yaml:"budget_at_risk_margin" json:"budget_at_risk_margin"`
	IncludeHighRisk        bool    `yaml:"include_high_risk" json:"include_high_risk"`
	Format                 string  `yaml:"format" json:"format"`
}

// ExternalConfig configures the text-generation recommendation source
type ExternalConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	Endpoint    string        `yaml:"endpoint" json:"endpoint"`
	Model       string        `yaml:"model" json:"model"`
	APIKey      string        `yaml:"api_key" json:"-"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens"`
	Temperature float64       `yaml:"temperature" json:"temperature"`
	// Outbound request rate limit
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
	MaxAttempts       int     `yaml:"max_attempts" json:"max_attempts"`
	// Rule titles passed to the prompt so the source avoids repeating them
	BaselineTitles int `yaml:"baseline_titles" json:"baseline_titles"`
}

// LoggingConfig configures the logrus logger
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// DefaultConfig returns the built-in configuration without environment overrides
func DefaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			LowUsersPerInstance:      2000,
			HighUsersPerInstance:     20000,
			UsersPerInstanceCapacity: 10000,
			VerticalMaxInstances:     2,
			ReadKeywords: []string{
				"analytics", "dashboard", "reporting", "search", "catalog", "browse",
				"browsing", "feed", "listing", "recommendation",
			},
			WriteKeywords: []string{
				"upload", "tracking", "logging", "real-time", "realtime", "ingest",
				"chat", "messaging", "payment", "checkout", "iot",
			},
			HotStorageKeywords: []string{
				"image", "video", "media", "photo", "stream", "real-time", "cdn",
			},
			ColdStorageKeywords: []string{
				"archive", "backup", "historical", "logs", "reporting", "compliance", "audit",
			},
			LoadBiasRatio: 1.5,
			PeakWindows: []PeakWindow{
				{Name: "meal-times", Keywords: []string{"food", "delivery", "restaurant", "order tracking", "meal"}, Hours: []int{12, 13, 19, 20, 21}},
				{Name: "evening-shopping", Keywords: []string{"ecommerce", "e-commerce", "shop", "cart", "checkout"}, Hours: []int{18, 19, 20, 21, 22}},
				{Name: "entertainment", Keywords: []string{"video", "game", "gaming", "streaming"}, Hours: []int{19, 20, 21, 22, 23}},
				{Name: "office-hours", Keywords: []string{"business", "crm", "erp", "b2b", "enterprise"}, Hours: []int{9, 10, 11, 14, 15, 16}},
			},
			DefaultPeakHours: []int{9, 10, 11, 12, 13, 14, 15, 16, 17},
		},
		Rules: RulesConfig{
			AutoscalingBursty:      0.25,
			AutoscalingPeakHours:   0.20,
			ScheduledScaling:       0.15,
			ReservedCapacity:       0.30,
			RightSizing:            0.30,
			Graviton:               0.20,
			SpotInstances:          0.40,
			ReadReplicas:           0.15,
			QueryCaching:           0.20,
			WriteBatching:          0.10,
			ConnectionPooling:      0.10,
			StorageAutoscaling:     1500,
			LifecyclePolicy:        0.60,
			MediaCompression:       0.30,
			IntelligentTiering:     0.40,
			CDN:                    0.50,
			VPCEndpoints:           0.30,
			LoadBalancerRemoval:    1.0,
			LogRetention:           0.40,
			MetricSampling:         0.30,
			MetricSamplingMinUsers: 50000,
			DirectMatch:            1.0,
			PartialMatch:           0.6,
			GenericMatch:           0.3,
			MediaKeywords:          []string{"image", "video", "photo", "media", "upload", "stream", "gallery"},
			BatchKeywords:          []string{"batch", "analytics", "report", "etl", "processing", "ml", "training"},
			SPAFrameworks:          []string{"react", "angular", "vue", "svelte", "next"},
			LogHeavyKeywords:       []string{"logging", "audit", "tracking", "monitoring"},
		},
		Normalizer: NormalizerConfig{
			WorkloadMatch:  0.5,
			MaxSteps:       5,
			MinStepLength:  10,
			MaxTitleLength: 120,
		},
		Dedup: DedupConfig{
			SimilarityThreshold: 0.6,
		},
		Scoring: ScoringConfig{
			SavingsWeight:    0.5,
			RiskWeight:       0.3,
			ComplexityWeight: 0.2,
			WorkloadWeight:   1.0,
			SavingsScale:     10,
		},
		Classification: ClassificationConfig{
			QuickWinMinSavings:   1000,
			HighImpactMinSavings: 10000,
		},
		Report: ReportConfig{
			DefaultRecommendations: 15,
			MaxRecommendations:     50,
			BudgetAtRiskMargin:     0.05,
			IncludeHighRisk:        true,
			Format:                 "text",
		},
		External: ExternalConfig{
			Enabled:           false,
			Endpoint:          "http://localhost:8080/v1/completions",
			Model:             "mistral-7b-instruct",
			Timeout:           30 * time.Second,
			MaxTokens:         2048,
			Temperature:       0.7,
			RequestsPerSecond: 1,
			Burst:             1,
			MaxAttempts:       3,
			BaselineTitles:    5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// NewConfig creates a new configuration with defaults and environment overrides
func NewConfig() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	c.External.Enabled = getEnvBool("COST_OPTIMIZER_EXTERNAL_ENABLED", c.External.Enabled)
	c.External.Endpoint = getEnv("COST_OPTIMIZER_EXTERNAL_ENDPOINT", c.External.Endpoint)
	c.External.Model = getEnv("COST_OPTIMIZER_EXTERNAL_MODEL", c.External.Model)
	c.External.APIKey = getEnv("COST_OPTIMIZER_EXTERNAL_API_KEY", c.External.APIKey)
	c.External.Timeout = getEnvDuration("COST_OPTIMIZER_EXTERNAL_TIMEOUT", c.External.Timeout)
	c.Report.Format = getEnv("COST_OPTIMIZER_OUTPUT_FORMAT", c.Report.Format)
	c.Logging.Level = getEnv("COST_OPTIMIZER_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("COST_OPTIMIZER_LOG_FORMAT", c.Logging.Format)
	c.Logging.File = getEnv("COST_OPTIMIZER_LOG_FILE", c.Logging.File)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ClampRecommendations resolves a requested recommendation count.
// Zero or negative selects the default; the result is within [1, max].
func (c *Config) ClampRecommendations(n int) int {
	if n <= 0 {
		n = c.Report.DefaultRecommendations
	}
	if n < 1 {
		n = 1
	}
	if n > c.Report.MaxRecommendations {
		n = c.Report.MaxRecommendations
	}
	return n
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	a := c.Analyzer
	if a.LowUsersPerInstance <= 0 || a.HighUsersPerInstance <= a.LowUsersPerInstance {
		return fmt.Errorf("analyzer: need 0 < low_users_per_instance < high_users_per_instance")
	}
	if a.UsersPerInstanceCapacity <= 0 {
		return fmt.Errorf("analyzer: users_per_instance_capacity must be positive")
	}
	if a.LoadBiasRatio < 1 {
		return fmt.Errorf("analyzer: load_bias_ratio must be >= 1.0")
	}
	for _, w := range a.PeakWindows {
		if err := validHours(w.Hours); err != nil {
			return fmt.Errorf("analyzer: peak window %q: %w", w.Name, err)
		}
	}
	if err := validHours(a.DefaultPeakHours); err != nil {
		return fmt.Errorf("analyzer: default_peak_hours: %w", err)
	}

	for name, v := range c.Rules.fractions() {
		if v < 0 || v > 1 {
			return fmt.Errorf("rules: %s must be within [0, 1], got %v", name, v)
		}
	}
	if c.Rules.StorageAutoscaling < 0 {
		return fmt.Errorf("rules: storage_autoscaling must not be negative")
	}

	if c.Normalizer.MaxSteps < 1 {
		return fmt.Errorf("normalizer: max_steps must be at least 1")
	}
	if c.Dedup.SimilarityThreshold <= 0 || c.Dedup.SimilarityThreshold > 1 {
		return fmt.Errorf("dedup: similarity_threshold must be within (0, 1]")
	}

	s := c.Scoring
	if s.SavingsWeight < 0 || s.RiskWeight < 0 || s.ComplexityWeight < 0 || s.WorkloadWeight < 0 {
		return fmt.Errorf("scoring: weights must not be negative")
	}
	if s.SavingsScale <= 0 {
		return fmt.Errorf("scoring: savings_scale must be positive")
	}

	if c.Classification.QuickWinMinSavings < 0 || c.Classification.HighImpactMinSavings < 0 {
		return fmt.Errorf("classification: thresholds must not be negative")
	}

	r := c.Report
	if r.MaxRecommendations < 1 {
		return fmt.Errorf("report: max_recommendations must be at least 1")
	}
	if r.BudgetAtRiskMargin < 0 || r.BudgetAtRiskMargin >= 1 {
		return fmt.Errorf("report: budget_at_risk_margin must be within [0, 1)")
	}

	e := c.External
	if e.Enabled && e.Endpoint == "" {
		return fmt.Errorf("external: endpoint must be set when the external source is enabled")
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("external: timeout must be positive")
	}
	if e.RequestsPerSecond <= 0 || e.Burst < 1 {
		return fmt.Errorf("external: requests_per_second and burst must be positive")
	}
	if e.MaxAttempts < 1 {
		return fmt.Errorf("external: max_attempts must be at least 1")
	}
	return nil
}

func (r RulesConfig) fractions() map[string]float64 {
	return map[string]float64{
		"autoscaling_bursty":     r.AutoscalingBursty,
		"autoscaling_peak_hours": r.AutoscalingPeakHours,
		"scheduled_scaling":      r.ScheduledScaling,
		"reserved_capacity":      r.ReservedCapacity,
		"right_sizing":           r.RightSizing,
		"graviton":               r.Graviton,
		"spot_instances":         r.SpotInstances,
		"read_replicas":          r.ReadReplicas,
		"query_caching":          r.QueryCaching,
		"write_batching":         r.WriteBatching,
		"connection_pooling":     r.ConnectionPooling,
		"lifecycle_policy":       r.LifecyclePolicy,
		"media_compression":      r.MediaCompression,
		"intelligent_tiering":    r.IntelligentTiering,
		"cdn":                    r.CDN,
		"vpc_endpoints":          r.VPCEndpoints,
		"load_balancer_removal":  r.LoadBalancerRemoval,
		"log_retention":          r.LogRetention,
		"metric_sampling":        r.MetricSampling,
		"direct_match":           r.DirectMatch,
		"partial_match":          r.PartialMatch,
		"generic_match":          r.GenericMatch,
	}
}

func validHours(hours []int) error {
	for _, h := range hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("hour %d out of range [0, 23]", h)
		}
	}
	return nil
}
