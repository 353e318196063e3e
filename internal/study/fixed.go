package study

import (
	"context"
	"fmt"
	"sync"

	"github.com/chris-chris/optuna/pkg/distribution"
)

// FixedTrial replays a pre-defined parameter set through the suggest API
// without touching storage. It is useful for re-running an objective with
// the parameters of a finished trial, e.g. when deploying the best result.
type FixedTrial struct {
	mu        sync.Mutex
	params    map[string]any
	suggested map[string]distribution.Distribution
}

// NewFixedTrial creates a trial that answers every suggestion from the
// given parameter map. Values must use external representation: float64 for
// continuous and discrete parameters, int64 for integers, string for
// categorical choices.
func NewFixedTrial(params map[string]any) *FixedTrial {
	return &FixedTrial{
		params:    params,
		suggested: make(map[string]distribution.Distribution),
	}
}

// SuggestFloat returns the fixed value for a continuous parameter.
func (t *FixedTrial) SuggestFloat(ctx context.Context, name string, low, high float64) (float64, error) {
	return t.lookupFloat(name, distribution.Uniform{Low: low, High: high})
}

// SuggestLogFloat returns the fixed value for a log-uniform parameter.
func (t *FixedTrial) SuggestLogFloat(ctx context.Context, name string, low, high float64) (float64, error) {
	return t.lookupFloat(name, distribution.LogUniform{Low: low, High: high})
}

// SuggestDiscreteFloat returns the fixed value for a discrete parameter.
func (t *FixedTrial) SuggestDiscreteFloat(ctx context.Context, name string, low, high, q float64) (float64, error) {
	return t.lookupFloat(name, distribution.Discrete{Low: low, High: high, Q: q})
}

// SuggestInt returns the fixed value for an integer parameter.
func (t *FixedTrial) SuggestInt(ctx context.Context, name string, low, high int64) (int64, error) {
	v, err := t.lookup(name, distribution.Int{Low: low, High: high})
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("parameter %q: expected integer, got %T", name, v)
	}
}

// SuggestCategorical returns the fixed choice for a categorical parameter.
func (t *FixedTrial) SuggestCategorical(ctx context.Context, name string, choices []string) (string, error) {
	dist := distribution.Categorical{Choices: choices}
	v, err := t.lookup(name, dist)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q: expected string, got %T", name, v)
	}
	for _, c := range choices {
		if c == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("parameter %q: value %q is not among the choices %v", name, s, choices)
}

// Report is a no-op: a fixed trial has no storage record.
func (t *FixedTrial) Report(ctx context.Context, step int64, value float64) error {
	return nil
}

// ShouldPrune always answers false.
func (t *FixedTrial) ShouldPrune(ctx context.Context) (bool, error) {
	return false, nil
}

// Params returns the parameters requested through the suggest API so far.
func (t *FixedTrial) Params() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]any, len(t.suggested))
	for name := range t.suggested {
		out[name] = t.params[name]
	}
	return out
}

func (t *FixedTrial) lookupFloat(name string, dist distribution.Distribution) (float64, error) {
	v, err := t.lookup(name, dist)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("parameter %q: expected float64, got %T", name, v)
	}
	return f, nil
}

func (t *FixedTrial) lookup(name string, dist distribution.Distribution) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.params[name]
	if !ok {
		return nil, fmt.Errorf("parameter %q is not defined for this fixed trial", name)
	}
	if prev, seen := t.suggested[name]; seen {
		if err := distribution.CheckCompatible(prev, dist); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
	}
	t.suggested[name] = dist
	return v, nil
}
