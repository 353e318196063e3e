package study

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/chris-chris/optuna/internal/storage"
	"github.com/chris-chris/optuna/pkg/distribution"
)

// Trial is the in-memory handle a worker uses to drive one storage-backed
// trial: suggest parameters, report intermediate values, consult the
// pruner. It holds no authoritative state; every operation re-reads or
// writes through the study's storage.
type Trial struct {
	study  *Study
	id     int64
	number int64
}

// ID returns the storage-global trial identifier.
func (t *Trial) ID() int64 { return t.id }

// Number returns the per-study trial number.
func (t *Trial) Number() int64 { return t.number }

// SuggestFloat suggests a value for a continuous parameter sampled
// uniformly from [low, high).
func (t *Trial) SuggestFloat(ctx context.Context, name string, low, high float64) (float64, error) {
	if low > high {
		return 0, fmt.Errorf("parameter %q: low %g > high %g", name, low, high)
	}
	return t.suggest(ctx, name, distribution.Uniform{Low: low, High: high})
}

// SuggestLogFloat suggests a value for a continuous parameter sampled
// uniformly in the log domain of [low, high). low must be positive.
func (t *Trial) SuggestLogFloat(ctx context.Context, name string, low, high float64) (float64, error) {
	if low <= 0 {
		return 0, fmt.Errorf("parameter %q: log-uniform low must be positive, got %g", name, low)
	}
	if low > high {
		return 0, fmt.Errorf("parameter %q: low %g > high %g", name, low, high)
	}
	return t.suggest(ctx, name, distribution.LogUniform{Low: low, High: high})
}

// SuggestDiscreteFloat suggests a value from the grid low, low+q, ...,
// high. When the range is not divisible by q, high is lowered to the last
// grid point and a warning is logged.
func (t *Trial) SuggestDiscreteFloat(ctx context.Context, name string, low, high, q float64) (float64, error) {
	if q <= 0 {
		return 0, fmt.Errorf("parameter %q: q must be positive, got %g", name, q)
	}
	if low > high {
		return 0, fmt.Errorf("parameter %q: low %g > high %g", name, low, high)
	}
	adjusted := low + math.Floor((high-low)/q)*q
	if adjusted != high {
		t.study.log.Warn("discrete range not divisible by q, high adjusted",
			"param", name, "high", high, "adjusted", adjusted)
		high = adjusted
	}
	return t.suggest(ctx, name, distribution.Discrete{Low: low, High: high, Q: q})
}

// SuggestInt suggests an integer from [low, high], both ends inclusive.
func (t *Trial) SuggestInt(ctx context.Context, name string, low, high int64) (int64, error) {
	if low > high {
		return 0, fmt.Errorf("parameter %q: low %d > high %d", name, low, high)
	}
	internal, err := t.suggest(ctx, name, distribution.Int{Low: low, High: high})
	if err != nil {
		return 0, err
	}
	return int64(internal), nil
}

// SuggestCategorical suggests one of the given choices.
func (t *Trial) SuggestCategorical(ctx context.Context, name string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("parameter %q: no choices given", name)
	}
	dist := distribution.Categorical{Choices: choices}
	internal, err := t.suggest(ctx, name, dist)
	if err != nil {
		return "", err
	}
	return dist.Choices[int(internal)], nil
}

// suggest samples a parameter lazily: the sampler runs only on the first
// request for a name, and the drawn value is persisted before it is
// returned. A later request for the same name returns the recorded value,
// so a crash replay resumes with identical parameters.
func (t *Trial) suggest(ctx context.Context, name string, dist distribution.Distribution) (float64, error) {
	if existing, ok, err := t.recorded(ctx, name, dist); err != nil {
		return 0, err
	} else if ok {
		return existing, nil
	}

	var internal float64
	if dist.Single() {
		internal = singleValue(dist)
	} else {
		frozen, err := t.study.store.GetTrial(ctx, t.id)
		if err != nil {
			return 0, fmt.Errorf("failed to read trial %d: %w", t.id, err)
		}
		summary, err := t.study.store.GetStudy(ctx, t.study.id)
		if err != nil {
			return 0, fmt.Errorf("failed to read study: %w", err)
		}
		history, err := t.study.Trials(ctx)
		if err != nil {
			return 0, err
		}
		internal, err = t.study.sampler.Sample(summary, frozen, name, dist, history)
		if err != nil {
			return 0, fmt.Errorf("sampler failed for parameter %q: %w", name, err)
		}
		if !dist.Contains(internal) {
			return 0, fmt.Errorf("sampler produced %g outside the domain of parameter %q", internal, name)
		}
	}

	err := t.study.store.SetTrialParam(ctx, t.id, name, internal, dist)
	if errors.Is(err, storage.ErrAlreadySet) {
		// A concurrent suggest for the same name won the race; use the
		// recorded value instead of ours.
		existing, ok, rerr := t.recorded(ctx, name, dist)
		if rerr != nil {
			return 0, rerr
		}
		if ok {
			return existing, nil
		}
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("failed to persist parameter %q: %w", name, err)
	}
	return internal, nil
}

// recorded returns the already-persisted value for name, checking that the
// requested distribution matches the recorded descriptor.
func (t *Trial) recorded(ctx context.Context, name string, dist distribution.Distribution) (float64, bool, error) {
	frozen, err := t.study.store.GetTrial(ctx, t.id)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read trial %d: %w", t.id, err)
	}
	internal, ok := frozen.Params[name]
	if !ok {
		return 0, false, nil
	}
	if recorded, ok := frozen.Distributions[name]; ok {
		if err := distribution.CheckCompatible(recorded, dist); err != nil {
			return 0, false, fmt.Errorf("parameter %q: %w", name, err)
		}
	}
	return internal, true, nil
}

// Report records an intermediate objective value at the given step. Steps
// must be strictly increasing; storage rejects anything else.
func (t *Trial) Report(ctx context.Context, step int64, value float64) error {
	if err := t.study.store.SetTrialIntermediateValue(ctx, t.id, step, value); err != nil {
		return fmt.Errorf("failed to report step %d: %w", step, err)
	}
	return nil
}

// ShouldPrune asks the study's pruner whether this trial should stop early,
// based on its last reported step. The caller is expected to return
// ErrTrialPruned from the objective when the answer is true.
func (t *Trial) ShouldPrune(ctx context.Context) (bool, error) {
	frozen, err := t.study.store.GetTrial(ctx, t.id)
	if err != nil {
		return false, fmt.Errorf("failed to read trial %d: %w", t.id, err)
	}
	comparison, err := t.study.Trials(ctx)
	if err != nil {
		return false, err
	}
	return t.study.pruner.ShouldPrune(t.study.direction, frozen, comparison)
}

// SetUserAttr sets a user attribute on the trial record.
func (t *Trial) SetUserAttr(ctx context.Context, key string, value any) error {
	return t.study.store.SetTrialUserAttr(ctx, t.id, key, value)
}

// Params returns the externally-represented parameters recorded so far.
func (t *Trial) Params(ctx context.Context) (map[string]any, error) {
	frozen, err := t.study.store.GetTrial(ctx, t.id)
	if err != nil {
		return nil, fmt.Errorf("failed to read trial %d: %w", t.id, err)
	}
	out := make(map[string]any, len(frozen.Params))
	for name := range frozen.Params {
		if v, ok := frozen.ParamExternal(name); ok {
			out[name] = v
		}
	}
	return out, nil
}

// singleValue returns the internal representation of a degenerate
// single-point distribution.
func singleValue(dist distribution.Distribution) float64 {
	switch d := dist.(type) {
	case distribution.Uniform:
		return d.Low
	case distribution.LogUniform:
		return d.Low
	case distribution.Discrete:
		return d.Low
	case distribution.Int:
		return float64(d.Low)
	case distribution.Categorical:
		return 0
	default:
		return 0
	}
}
