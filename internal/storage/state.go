package storage

import "fmt"

// TrialState represents the lifecycle state of a trial.
type TrialState string

const (
	// TrialRunning is the initial state of every trial.
	TrialRunning TrialState = "running"
	// TrialComplete means the objective finished and a final value was set.
	TrialComplete TrialState = "complete"
	// TrialPruned means the trial was stopped early by a pruner decision.
	TrialPruned TrialState = "pruned"
	// TrialFailed means the objective raised an error or the worker gave up.
	TrialFailed TrialState = "failed"
)

// IsTerminal reports whether no further transitions are allowed.
func (s TrialState) IsTerminal() bool {
	switch s {
	case TrialComplete, TrialPruned, TrialFailed:
		return true
	}
	return false
}

// Valid reports whether s is a known state.
func (s TrialState) Valid() bool {
	switch s {
	case TrialRunning, TrialComplete, TrialPruned, TrialFailed:
		return true
	}
	return false
}

// CheckTransition validates a state change against the trial state machine.
// The only legal transitions are RUNNING to one of the terminal states; a
// terminal state absorbs nothing, and RUNNING to RUNNING is not a transition.
// Backends call this inside their atomic write path so that concurrent
// terminal transitions are arbitrated by storage, never by callers.
func CheckTransition(from, to TrialState) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, to)
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: trial is already %s", ErrInvalidTransition, from)
	}
	if !to.IsTerminal() {
		return fmt.Errorf("%w: cannot transition %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// StudyDirection is the optimization direction of a study.
type StudyDirection string

const (
	// DirectionMinimize treats lower objective values as better.
	DirectionMinimize StudyDirection = "minimize"
	// DirectionMaximize treats higher objective values as better.
	DirectionMaximize StudyDirection = "maximize"
)

// Valid reports whether d is a known direction.
func (d StudyDirection) Valid() bool {
	return d == DirectionMinimize || d == DirectionMaximize
}
