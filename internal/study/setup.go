package study

import (
	"context"
	"fmt"

	"github.com/chris-chris/optuna/internal/pruner"
	"github.com/chris-chris/optuna/internal/sampler"
	"github.com/chris-chris/optuna/internal/storage"
	"github.com/chris-chris/optuna/pkg/config"
)

// FromConfig builds a storage backend from the configuration and opens the
// configured study on it. The caller owns the returned storage and closes
// it when done with the study.
func FromConfig(ctx context.Context, cfg *config.Config) (*Study, storage.Storage, error) {
	store, err := openStorage(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	st, err := Open(ctx, store, cfg.Study.Name, storage.StudyDirection(cfg.Study.Direction))
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	if cfg.Sampler != nil {
		st.WithSampler(sampler.NewRandom(cfg.Sampler.Seed))
	}
	if cfg.Pruner != nil {
		p, err := buildPruner(cfg.Pruner)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		st.WithPruner(p)
	}
	return st, store, nil
}

func openStorage(cfg config.Storage) (storage.Storage, error) {
	switch cfg.Backend {
	case "", "memory":
		return storage.NewInMemory(), nil
	case "badger":
		return storage.NewBadger(cfg.Path)
	case "mysql":
		return storage.NewRDB(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

func buildPruner(cfg *config.PrunerConfig) (pruner.Pruner, error) {
	switch cfg.Kind {
	case "none":
		return pruner.NewNop(), nil
	case "", "median":
		return pruner.NewMedian(cfg.MinTrials, cfg.MinSteps), nil
	case "percentile":
		return pruner.NewPercentile(cfg.Percentile, cfg.MinTrials, cfg.MinSteps)
	default:
		return nil, fmt.Errorf("unknown pruner kind: %s", cfg.Kind)
	}
}
