// Package pruner defines the early-stopping strategy contract and the
// reference policies: a no-op pruner and a percentile (median) pruner.
// Pruners are pure functions of the snapshots handed to them.
package pruner

import (
	"github.com/chris-chris/optuna/internal/storage"
)

// Pruner decides whether a running trial should be stopped early based on
// its latest intermediate report and the other trials of the study.
//
// The decision is advisory: the caller transitions the trial to PRUNED
// through storage, which enforces that a pruned trial accepts no further
// reports. Whenever the comparison data is missing or tied, pruners must
// fail open and keep the trial running.
type Pruner interface {
	ShouldPrune(direction storage.StudyDirection, trial storage.FrozenTrial, comparison []storage.FrozenTrial) (bool, error)
}

// Nop never prunes.
type Nop struct{}

// NewNop creates a pruner that keeps every trial running to completion.
func NewNop() *Nop { return &Nop{} }

func (p *Nop) ShouldPrune(direction storage.StudyDirection, trial storage.FrozenTrial, comparison []storage.FrozenTrial) (bool, error) {
	return false, nil
}
