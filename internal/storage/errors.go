package storage

import "errors"

// Integrity errors are contract violations and must surface to the caller
// unchanged; retrying them would break the immutability and monotonicity
// invariants. ErrStorageUnavailable is the only error in this file that a
// caller may retry, and only for idempotent reads.
var (
	// ErrDuplicateStudy is returned when a study name collides and reuse
	// was not requested.
	ErrDuplicateStudy = errors.New("duplicate study name")

	// ErrStudyNotFound is returned for lookups of unknown studies.
	ErrStudyNotFound = errors.New("study not found")

	// ErrTrialNotFound is returned for lookups of unknown trials.
	ErrTrialNotFound = errors.New("trial not found")

	// ErrAlreadySet is returned when a parameter that already has a
	// recorded value is set again with a different value or distribution.
	ErrAlreadySet = errors.New("trial parameter already set")

	// ErrNonMonotonicStep is returned when an intermediate value is
	// reported at a step not strictly greater than the last recorded one.
	ErrNonMonotonicStep = errors.New("intermediate step is not strictly increasing")

	// ErrInvalidTransition is returned for illegal trial state changes,
	// including any transition out of a terminal state.
	ErrInvalidTransition = errors.New("invalid trial state transition")

	// ErrTrialNotRunning is returned when a mutating call requires the
	// RUNNING precondition and the trial has already reached a terminal
	// state.
	ErrTrialNotRunning = errors.New("trial is not running")

	// ErrStorageUnavailable signals a transient backend I/O failure.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNoTrials is returned by aggregate queries over a study with no
	// completed trials.
	ErrNoTrials = errors.New("study has no completed trials")
)
