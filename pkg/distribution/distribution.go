// Package distribution defines the search-space descriptors attached to
// sampled parameters. A descriptor is persisted next to each parameter value
// so that a study can be reopened later and values converted back to their
// external representation.
package distribution

import (
	"fmt"
	"math"
)

// Kind identifies the concrete distribution type.
type Kind string

const (
	KindUniform     Kind = "uniform"
	KindLogUniform  Kind = "loguniform"
	KindDiscrete    Kind = "discrete"
	KindInt         Kind = "int"
	KindCategorical Kind = "categorical"
)

// Distribution describes the domain a parameter is sampled from.
//
// Parameter values are stored in an internal float64 representation:
// continuous and integer values are stored as-is, categorical values are
// stored as the index into the choice list.
type Distribution interface {
	// Kind returns the distribution type.
	Kind() Kind

	// Contains reports whether the internal representation falls inside
	// the distribution's domain.
	Contains(internal float64) bool

	// Single reports whether the domain contains exactly one value, in
	// which case sampling is skipped entirely.
	Single() bool

	// External converts the internal representation to the value handed
	// back to the caller.
	External(internal float64) any
}

// Uniform is a continuous uniform distribution over [Low, High).
type Uniform struct {
	Low  float64
	High float64
}

func (d Uniform) Kind() Kind { return KindUniform }
func (d Uniform) Contains(v float64) bool { return d.Low <= v && v <= d.High }
func (d Uniform) Single() bool { return d.Low == d.High }
func (d Uniform) External(v float64) any { return v }

// LogUniform is a continuous distribution over [Low, High) that is uniform
// in the log domain. Low must be positive.
type LogUniform struct {
	Low  float64
	High float64
}

func (d LogUniform) Kind() Kind { return KindLogUniform }
func (d LogUniform) Contains(v float64) bool { return d.Low <= v && v <= d.High }
func (d LogUniform) Single() bool { return d.Low == d.High }
func (d LogUniform) External(v float64) any { return v }

// Discrete is a uniform distribution over {Low, Low+Q, Low+2Q, ..., High}.
type Discrete struct {
	Low  float64
	High float64
	Q    float64
}

func (d Discrete) Kind() Kind { return KindDiscrete }
func (d Discrete) Contains(v float64) bool { return d.Low <= v && v <= d.High }
func (d Discrete) Single() bool { return d.Low == d.High }
func (d Discrete) External(v float64) any { return v }

// Round snaps an arbitrary draw in [Low, High] to the nearest grid point.
func (d Discrete) Round(v float64) float64 {
	if d.Q <= 0 {
		return v
	}
	k := math.Round((v - d.Low) / d.Q)
	snapped := d.Low + k*d.Q
	if snapped > d.High {
		snapped = d.High
	}
	if snapped < d.Low {
		snapped = d.Low
	}
	return snapped
}

// Int is a uniform distribution over the integers in [Low, High].
type Int struct {
	Low  int64
	High int64
}

func (d Int) Kind() Kind { return KindInt }
func (d Int) Contains(v float64) bool {
	return float64(d.Low) <= v && v <= float64(d.High) && v == math.Trunc(v)
}
func (d Int) Single() bool { return d.Low == d.High }
func (d Int) External(v float64) any { return int64(v) }

// Categorical is a uniform distribution over an explicit choice list. The
// internal representation is the choice index.
type Categorical struct {
	Choices []string
}

func (d Categorical) Kind() Kind { return KindCategorical }
func (d Categorical) Contains(v float64) bool {
	idx := int(v)
	return v == math.Trunc(v) && idx >= 0 && idx < len(d.Choices)
}
func (d Categorical) Single() bool { return len(d.Choices) == 1 }
func (d Categorical) External(v float64) any {
	idx := int(v)
	if idx < 0 || idx >= len(d.Choices) {
		return ""
	}
	return d.Choices[idx]
}

// CheckCompatible reports an error when a parameter is re-suggested under a
// descriptor that does not match the one recorded at first sampling.
func CheckCompatible(recorded, requested Distribution) error {
	if recorded.Kind() != requested.Kind() {
		return fmt.Errorf("distribution kind mismatch: recorded %s, requested %s",
			recorded.Kind(), requested.Kind())
	}
	if !Equal(recorded, requested) {
		return fmt.Errorf("distribution changed: recorded %+v, requested %+v", recorded, requested)
	}
	return nil
}
