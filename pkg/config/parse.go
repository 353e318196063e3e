package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseConfigYAML parses a Config from YAML bytes, applies defaults and
// validates it. This is used for APIs where config is provided as payload
// (not via filesystem).
func ParseConfigYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// ParseConfigYAMLString parses a Config from a YAML string and validates it.
func ParseConfigYAMLString(yamlText string) (*Config, error) {
	return ParseConfigYAML([]byte(yamlText))
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Study.Direction == "" {
		cfg.Study.Direction = "minimize"
	}
	if cfg.Study.NWorkers == 0 {
		cfg.Study.NWorkers = 1
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Sampler == nil {
		cfg.Sampler = &SamplerConfig{Kind: "random"}
	}
	if cfg.Pruner == nil {
		cfg.Pruner = &PrunerConfig{Kind: "median", MinTrials: 5}
	}
	if cfg.Pruner.Kind == "percentile" && cfg.Pruner.MinTrials == 0 {
		cfg.Pruner.MinTrials = 1
	}
}
