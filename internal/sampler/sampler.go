// Package sampler defines the parameter-proposal strategy contract and the
// random reference sampler. Samplers are pure functions of the history
// snapshot handed to them: they keep no mutable state between calls, so a
// crash replay with the same seed and history proposes the same values.
package sampler

import (
	"github.com/chris-chris/optuna/internal/storage"
	"github.com/chris-chris/optuna/pkg/distribution"
)

// Sampler proposes a value for one requested parameter.
//
// The returned value is in the parameter's internal representation and must
// fall inside dist. history is the study's trial snapshot at the time of the
// call; it may be empty (the bootstrap case), in which case the sampler must
// still produce a valid value.
type Sampler interface {
	Sample(study storage.StudySummary, trial storage.FrozenTrial, name string, dist distribution.Distribution, history []storage.FrozenTrial) (float64, error)
}
