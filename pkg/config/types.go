package config

// Config represents the top-level optimization configuration
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Study    Study          `yaml:"study"`
	Storage  Storage        `yaml:"storage"`
	Sampler  *SamplerConfig `yaml:"sampler,omitempty"`
	Pruner   *PrunerConfig  `yaml:"pruner,omitempty"`
	Hub      *Hub           `yaml:"hub,omitempty"`
}

// Study identifies the study a worker attaches to
type Study struct {
	Name      string `yaml:"name"`
	Direction string `yaml:"direction"` // minimize or maximize
	NTrials   int    `yaml:"n_trials"`
	NWorkers  int    `yaml:"n_workers,omitempty"`
}

// Storage selects and configures the storage backend
type Storage struct {
	Backend string `yaml:"backend"` // memory, badger, or mysql
	Path    string `yaml:"path,omitempty"`
	DSN     string `yaml:"dsn,omitempty"`
}

// SamplerConfig configures the parameter sampler
type SamplerConfig struct {
	Kind string `yaml:"kind"` // random
	Seed int64  `yaml:"seed,omitempty"`
}

// PrunerConfig configures early stopping
type PrunerConfig struct {
	Kind       string  `yaml:"kind"` // median, percentile, or none
	Percentile float64 `yaml:"percentile,omitempty"`
	MinTrials  int     `yaml:"min_trials,omitempty"`
	MinSteps   int64   `yaml:"min_steps,omitempty"`
}

// Hub configures the coordination hub for worker groups
type Hub struct {
	Addr      string `yaml:"addr"`
	GroupSize int    `yaml:"group_size"`
}
