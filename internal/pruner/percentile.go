package pruner

import (
	"fmt"

	"github.com/chris-chris/optuna/internal/storage"
	"github.com/chris-chris/optuna/pkg/utils"
)

// Percentile prunes a trial whose latest reported value is strictly worse
// than the given percentile of the comparison trials' values at the same
// step. The comparison set is only consulted once at least MinTrials of
// them have reported that step; before that the pruner fails open.
type Percentile struct {
	// Pct is the percentile of comparison values a trial must beat,
	// measured from the best end of the study's direction. 25 keeps
	// the best quartile alive.
	Pct float64
	// MinTrials is the minimum number of comparison trials that must
	// have reported the step before any pruning happens.
	MinTrials int
	// MinSteps is the number of initial steps that are never pruned,
	// giving every trial a warmup window.
	MinSteps int64
}

// NewPercentile creates a percentile pruner.
func NewPercentile(pct float64, minTrials int, minSteps int64) (*Percentile, error) {
	if pct < 0 || pct > 100 {
		return nil, fmt.Errorf("percentile must be in [0, 100], got %g", pct)
	}
	if minTrials < 1 {
		minTrials = 1
	}
	return &Percentile{Pct: pct, MinTrials: minTrials, MinSteps: minSteps}, nil
}

// NewMedian creates the median-stopping rule: prune a trial whose value is
// worse than the median of the comparison trials at the same step.
func NewMedian(minTrials int, minSteps int64) *Percentile {
	return &Percentile{Pct: 50, MinTrials: minTrials, MinSteps: minSteps}
}

func (p *Percentile) ShouldPrune(direction storage.StudyDirection, trial storage.FrozenTrial, comparison []storage.FrozenTrial) (bool, error) {
	step := trial.LastStep()
	if step < 0 {
		// Nothing reported yet.
		return false, nil
	}
	if step < p.MinSteps {
		return false, nil
	}
	value, ok := trial.IntermediateValues[step]
	if !ok {
		return false, nil
	}

	peers := make([]float64, 0, len(comparison))
	for _, other := range comparison {
		if other.ID == trial.ID {
			continue
		}
		if other.State == storage.TrialFailed {
			continue
		}
		if v, reported := other.IntermediateValues[step]; reported {
			peers = append(peers, v)
		}
	}
	if len(peers) == 0 || len(peers) < p.MinTrials {
		return false, nil
	}

	// Cutoff is taken from the best end of the direction: a trial is
	// pruned only when strictly worse than it, so ties survive.
	switch direction {
	case storage.DirectionMaximize:
		cutoff := utils.Percentile(peers, 100-p.Pct)
		return value < cutoff, nil
	default:
		cutoff := utils.Percentile(peers, p.Pct)
		return value > cutoff, nil
	}
}
