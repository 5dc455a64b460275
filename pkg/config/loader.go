package config

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load builds the configuration from defaults, an optional config file
// and COST_OPTIMIZER_* environment variables, in that order of precedence.
// The file may be YAML, JSON or TOML; only the keys it sets are overridden.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := mergeSettings(v.AllSettings(), cfg); err != nil {
			return nil, fmt.Errorf("failed to merge config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// mergeSettings overlays the settings map onto target. Fields absent from
// the map keep their current value; lists present in the map replace the
// defaults entirely.
func mergeSettings(settings map[string]interface{}, target *Config) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return yaml.Unmarshal(data, target)
}
