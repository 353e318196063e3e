package sampler

import (
	"fmt"

	"github.com/chris-chris/optuna/internal/storage"
	"github.com/chris-chris/optuna/pkg/distribution"
	"github.com/chris-chris/optuna/pkg/utils"
)

// Random draws independently from each parameter's own distribution,
// ignoring history. It is the bootstrap strategy and the baseline every
// other sampler is compared against.
//
// The draw for a given (study, trial, parameter) is deterministic in the
// base seed, so re-sampling after a crash replay reproduces the same value.
type Random struct {
	seed int64
}

// NewRandom creates a random sampler. A zero seed picks a time-based seed at
// each draw, which trades reproducibility for fresh randomness.
func NewRandom(seed int64) *Random {
	return &Random{seed: seed}
}

func (s *Random) Sample(study storage.StudySummary, trial storage.FrozenTrial, name string, dist distribution.Distribution, history []storage.FrozenTrial) (float64, error) {
	var rng *utils.RandSource
	if s.seed == 0 {
		rng = utils.NewRandSource(0)
	} else {
		rng = utils.NewRandSource(utils.DeriveSeed(s.seed, study.ID, trial.Number, name))
	}

	switch d := dist.(type) {
	case distribution.Uniform:
		return rng.UniformFloat64(d.Low, d.High), nil
	case distribution.LogUniform:
		if d.Low <= 0 {
			return 0, fmt.Errorf("loguniform low must be positive, got %g", d.Low)
		}
		return rng.LogUniformFloat64(d.Low, d.High), nil
	case distribution.Discrete:
		return d.Round(rng.UniformFloat64(d.Low, d.High)), nil
	case distribution.Int:
		return float64(d.Low + rng.Int64n(d.High-d.Low+1)), nil
	case distribution.Categorical:
		if len(d.Choices) == 0 {
			return 0, fmt.Errorf("categorical distribution has no choices")
		}
		return float64(rng.Intn(len(d.Choices))), nil
	default:
		return 0, fmt.Errorf("unsupported distribution type %T", dist)
	}
}
