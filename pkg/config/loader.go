package config

import (
	"fmt"
	"os"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.Study.Direction != "minimize" && cfg.Study.Direction != "maximize" {
		return fmt.Errorf("invalid direction: %s (must be minimize or maximize)", cfg.Study.Direction)
	}
	if cfg.Study.NTrials < 0 {
		return fmt.Errorf("n_trials cannot be negative, got %d", cfg.Study.NTrials)
	}
	if cfg.Study.NWorkers < 1 {
		return fmt.Errorf("n_workers must be positive, got %d", cfg.Study.NWorkers)
	}

	switch cfg.Storage.Backend {
	case "memory":
	case "badger":
		if cfg.Storage.Path == "" {
			return fmt.Errorf("badger backend requires a path")
		}
	case "mysql":
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("mysql backend requires a dsn")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be memory, badger, or mysql)", cfg.Storage.Backend)
	}

	if cfg.Sampler != nil {
		if cfg.Sampler.Kind != "random" {
			return fmt.Errorf("invalid sampler kind: %s (must be random)", cfg.Sampler.Kind)
		}
	}

	if cfg.Pruner != nil {
		switch cfg.Pruner.Kind {
		case "none", "median":
		case "percentile":
			if cfg.Pruner.Percentile < 0 || cfg.Pruner.Percentile > 100 {
				return fmt.Errorf("pruner percentile must be between 0 and 100, got %f", cfg.Pruner.Percentile)
			}
		default:
			return fmt.Errorf("invalid pruner kind: %s (must be none, median, or percentile)", cfg.Pruner.Kind)
		}
		if cfg.Pruner.MinTrials < 0 {
			return fmt.Errorf("pruner min_trials cannot be negative, got %d", cfg.Pruner.MinTrials)
		}
		if cfg.Pruner.MinSteps < 0 {
			return fmt.Errorf("pruner min_steps cannot be negative, got %d", cfg.Pruner.MinSteps)
		}
	}

	if cfg.Hub != nil {
		if cfg.Hub.Addr == "" {
			return fmt.Errorf("hub addr cannot be empty")
		}
		if cfg.Hub.GroupSize < 1 {
			return fmt.Errorf("hub group_size must be positive, got %d", cfg.Hub.GroupSize)
		}
	}

	return nil
}
