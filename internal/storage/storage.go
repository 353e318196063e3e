// Package storage is the durable record of studies and trials and the sole
// source of truth for everything above it. All mutation goes through the
// Storage interface; Trial and Study objects are transient views over the
// snapshots it returns.
//
// Three backends are provided: an in-memory store for single-process use and
// testing, an embedded Badger store that survives process restarts, and a
// GORM/MySQL store for multi-process deployments sharing one database.
package storage

import (
	"context"
	"time"

	"github.com/chris-chris/optuna/pkg/distribution"
)

// StudySummary is a read-only snapshot of a study record.
type StudySummary struct {
	ID        int64
	Name      string
	Direction StudyDirection
	UserAttrs map[string]any
	CreatedAt time.Time
}

// FrozenTrial is a read-only snapshot of a trial record. A snapshot is
// always internally consistent: readers never observe a partially applied
// write.
type FrozenTrial struct {
	// ID is the storage-global trial identifier. It may be sparse.
	ID int64
	// Number is the per-study trial number: gapless, strictly increasing,
	// assigned atomically at creation and never reused.
	Number int64
	// StudyID is the owning study. Immutable after creation.
	StudyID int64

	State TrialState
	// Value is the final objective value. Only meaningful once the trial
	// is complete.
	Value float64

	// Params holds sampled values in internal representation, keyed by
	// parameter name. Each entry is write-once.
	Params map[string]float64
	// Distributions holds the descriptor recorded alongside each sampled
	// value, for reproducibility.
	Distributions map[string]distribution.Distribution

	// IntermediateValues maps report step to reported value. Steps are
	// strictly increasing in the order they were appended.
	IntermediateValues map[int64]float64

	UserAttrs   map[string]any
	SystemAttrs map[string]any

	StartedAt   time.Time
	CompletedAt time.Time
}

// LastStep returns the highest reported intermediate step, or -1 when the
// trial has no intermediate values.
func (t FrozenTrial) LastStep() int64 {
	last := int64(-1)
	for step := range t.IntermediateValues {
		if step > last {
			last = step
		}
	}
	return last
}

// ParamExternal returns the external representation of a sampled parameter.
func (t FrozenTrial) ParamExternal(name string) (any, bool) {
	internal, ok := t.Params[name]
	if !ok {
		return nil, false
	}
	dist, ok := t.Distributions[name]
	if !ok {
		return internal, true
	}
	return dist.External(internal), true
}

// Storage is the coordination core's persistence contract. Every operation
// must be safe under concurrent invocation from independent processes
// against the same backing store; writes for a single trial are atomic with
// respect to each other.
type Storage interface {
	// CreateStudy records a new study. When name is empty a unique one is
	// generated. If the name already exists and loadIfExists is true, the
	// existing study is returned; otherwise the call fails with
	// ErrDuplicateStudy.
	CreateStudy(ctx context.Context, name string, direction StudyDirection, loadIfExists bool) (StudySummary, error)

	// GetStudy returns the study snapshot for the given identifier.
	GetStudy(ctx context.Context, studyID int64) (StudySummary, error)

	// SetStudyUserAttr sets a user attribute on a study.
	SetStudyUserAttr(ctx context.Context, studyID int64, key string, value any) error

	// CreateTrial atomically allocates the next trial number for the
	// study and records the trial in state RUNNING with no parameters.
	// The same number is never handed out twice, even under concurrent
	// callers in different processes.
	CreateTrial(ctx context.Context, studyID int64) (FrozenTrial, error)

	// SetTrialParam records a sampled parameter. A parameter is
	// write-once per (trial, name): re-issuing the identical value and
	// distribution succeeds silently, anything else fails with
	// ErrAlreadySet. The trial must be RUNNING.
	SetTrialParam(ctx context.Context, trialID int64, name string, internal float64, dist distribution.Distribution) error

	// SetTrialValue records the final objective value. The trial must be
	// RUNNING.
	SetTrialValue(ctx context.Context, trialID int64, value float64) error

	// SetTrialIntermediateValue appends an intermediate report. The step
	// must be strictly greater than the trial's last recorded step and
	// the trial must be RUNNING.
	SetTrialIntermediateValue(ctx context.Context, trialID int64, step int64, value float64) error

	// SetTrialState applies a state transition, arbitrating concurrent
	// terminal transitions so that exactly one caller wins.
	SetTrialState(ctx context.Context, trialID int64, state TrialState) error

	// FinishTrial records the final value and applies the terminal
	// transition in one atomic step. Folding the two writes together means
	// a caller that loses the transition race can never overwrite the
	// winner's value first. The value is only recorded for COMPLETE.
	FinishTrial(ctx context.Context, trialID int64, value float64, state TrialState) error

	// SetTrialUserAttr sets a user attribute on a trial.
	SetTrialUserAttr(ctx context.Context, trialID int64, key string, value any) error

	// SetTrialSystemAttr sets a system attribute on a trial. The core
	// uses system attributes to record failure reasons.
	SetTrialSystemAttr(ctx context.Context, trialID int64, key string, value any) error

	// GetTrial returns a consistent snapshot of one trial.
	GetTrial(ctx context.Context, trialID int64) (FrozenTrial, error)

	// GetTrials returns a page of trial snapshots ordered by number,
	// starting at offset. It is the restartable form of GetAllTrials for
	// large studies.
	GetTrials(ctx context.Context, studyID int64, offset, limit int) ([]FrozenTrial, error)

	// GetAllTrials returns every trial of a study ordered by number.
	GetAllTrials(ctx context.Context, studyID int64) ([]FrozenTrial, error)

	// Close releases backend resources.
	Close() error
}

// cloneTrial deep-copies a trial snapshot so callers can never alias the
// backend's live record.
func cloneTrial(t FrozenTrial) FrozenTrial {
	out := t
	out.Params = make(map[string]float64, len(t.Params))
	for k, v := range t.Params {
		out.Params[k] = v
	}
	out.Distributions = make(map[string]distribution.Distribution, len(t.Distributions))
	for k, v := range t.Distributions {
		out.Distributions[k] = v
	}
	out.IntermediateValues = make(map[int64]float64, len(t.IntermediateValues))
	for k, v := range t.IntermediateValues {
		out.IntermediateValues[k] = v
	}
	out.UserAttrs = cloneAttrs(t.UserAttrs)
	out.SystemAttrs = cloneAttrs(t.SystemAttrs)
	return out
}

func cloneAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
