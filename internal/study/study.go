// Package study orchestrates trial creation and execution. A Study binds a
// Sampler and a Pruner to a Storage backend, hands out Trial handles to
// workers, and answers aggregate queries over the trial history.
package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chris-chris/optuna/internal/pruner"
	"github.com/chris-chris/optuna/internal/sampler"
	"github.com/chris-chris/optuna/internal/storage"
	"github.com/chris-chris/optuna/pkg/logger"
	"github.com/chris-chris/optuna/pkg/utils"
)

// ErrTrialPruned is returned by an objective to signal that it honored a
// pruning decision. Optimize records the trial as PRUNED, not failed.
var ErrTrialPruned = errors.New("trial pruned")

// failedReasonKey is the system attribute a failing trial's error is
// recorded under.
const failedReasonKey = "failed_reason"

// Objective evaluates one trial and returns its final value. It requests
// parameters through the trial handle as it needs them, so later parameters
// may depend on values suggested earlier in the same call.
type Objective func(ctx context.Context, trial *Trial) (float64, error)

// Study is a handle on one named optimization run. It holds no authoritative
// state: every query and mutation goes through storage, so any number of
// Study handles in any number of processes may attach to the same record.
type Study struct {
	id        int64
	name      string
	direction storage.StudyDirection

	store   storage.Storage
	sampler sampler.Sampler
	pruner  pruner.Pruner
	log     *slog.Logger

	backoff     utils.BackoffStrategy
	maxAttempts int
}

// Create records a new study. It fails with storage.ErrDuplicateStudy when
// the name is taken; an empty name gets a generated one.
func Create(ctx context.Context, store storage.Storage, name string, direction storage.StudyDirection) (*Study, error) {
	return build(ctx, store, name, direction, false)
}

// Open attaches to an existing study by name, creating it when absent. Use
// it to reopen a study from a later process against the same storage.
func Open(ctx context.Context, store storage.Storage, name string, direction storage.StudyDirection) (*Study, error) {
	return build(ctx, store, name, direction, true)
}

func build(ctx context.Context, store storage.Storage, name string, direction storage.StudyDirection, loadIfExists bool) (*Study, error) {
	summary, err := store.CreateStudy(ctx, name, direction, loadIfExists)
	if err != nil {
		return nil, fmt.Errorf("failed to create study: %w", err)
	}
	return &Study{
		id:          summary.ID,
		name:        summary.Name,
		direction:   summary.Direction,
		store:       store,
		sampler:     sampler.NewRandom(0),
		pruner:      pruner.NewMedian(5, 0),
		log:         logger.With("study", summary.Name),
		backoff:     utils.NewExponentialBackoff(100*time.Millisecond, 5*time.Second, 2.0, true),
		maxAttempts: 3,
	}, nil
}

// WithSampler replaces the default random sampler.
func (s *Study) WithSampler(sm sampler.Sampler) *Study {
	s.sampler = sm
	return s
}

// WithPruner replaces the default median pruner.
func (s *Study) WithPruner(p pruner.Pruner) *Study {
	s.pruner = p
	return s
}

// ID returns the storage identifier of the study.
func (s *Study) ID() int64 { return s.id }

// Name returns the study name.
func (s *Study) Name() string { return s.name }

// Direction returns the optimization direction.
func (s *Study) Direction() storage.StudyDirection { return s.direction }

// Ask creates a new RUNNING trial and returns its handle. Every call
// allocates a fresh trial number; resuming an orphaned RUNNING trial after
// a crash is the caller's decision, made by inspecting Trials.
func (s *Study) Ask(ctx context.Context) (*Trial, error) {
	frozen, err := s.store.CreateTrial(ctx, s.id)
	if err != nil {
		return nil, fmt.Errorf("failed to create trial: %w", err)
	}
	s.log.Debug("trial created", "trial", frozen.Number)
	return &Trial{study: s, id: frozen.ID, number: frozen.Number}, nil
}

// Tell records a trial's final value and terminal state. Value and state
// are written in one storage operation, so a Tell losing the terminal
// arbitration cannot overwrite the winner's value.
func (s *Study) Tell(ctx context.Context, trialID int64, value float64, state storage.TrialState) error {
	if !state.IsTerminal() {
		return fmt.Errorf("%w: tell requires a terminal state, got %s", storage.ErrInvalidTransition, state)
	}
	if err := s.store.FinishTrial(ctx, trialID, value, state); err != nil {
		return fmt.Errorf("failed to finish trial: %w", err)
	}
	return nil
}

// Fail records a trial as failed, attaching reason as the failure cause. A
// racing terminal transition is tolerated: when another worker already
// finished the trial there is nothing left to record.
func (s *Study) Fail(ctx context.Context, trialID int64, reason string) error {
	if reason != "" {
		if err := s.store.SetTrialSystemAttr(ctx, trialID, failedReasonKey, reason); err != nil {
			s.log.Warn("failed to record failure reason", "trial", trialID, "error", err)
		}
	}
	err := s.store.SetTrialState(ctx, trialID, storage.TrialFailed)
	if err != nil && !errors.Is(err, storage.ErrInvalidTransition) {
		return err
	}
	return nil
}

// BestTrial returns the completed trial with the extremal value for the
// study's direction. It fails with storage.ErrNoTrials when nothing has
// completed yet.
func (s *Study) BestTrial(ctx context.Context) (storage.FrozenTrial, error) {
	trials, err := s.Trials(ctx)
	if err != nil {
		return storage.FrozenTrial{}, err
	}

	best := storage.FrozenTrial{}
	found := false
	for _, t := range trials {
		if t.State != storage.TrialComplete {
			continue
		}
		if !found || s.better(t.Value, best.Value) {
			best = t
			found = true
		}
	}
	if !found {
		return storage.FrozenTrial{}, fmt.Errorf("%w: study %q", storage.ErrNoTrials, s.name)
	}
	return best, nil
}

// Trials returns all trials of the study ordered by number, retrying
// transient storage failures with backoff. Reads are idempotent, so the
// retry cannot violate any invariant.
func (s *Study) Trials(ctx context.Context) ([]storage.FrozenTrial, error) {
	var trials []storage.FrozenTrial
	var err error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		trials, err = s.store.GetAllTrials(ctx, s.id)
		if err == nil || !errors.Is(err, storage.ErrStorageUnavailable) {
			return trials, err
		}
		s.log.Warn("storage unavailable, retrying read", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.backoff.NextDelay(attempt)):
		}
	}
	return nil, fmt.Errorf("failed to read trials: %w", err)
}

// SetUserAttr sets a user attribute on the study record.
func (s *Study) SetUserAttr(ctx context.Context, key string, value any) error {
	return s.store.SetStudyUserAttr(ctx, s.id, key, value)
}

// Optimize runs the objective nTrials times sequentially. A pruned or
// failed trial is recorded and the run continues; only storage-level errors
// on trial creation abort the loop.
func (s *Study) Optimize(ctx context.Context, objective Objective, nTrials int) error {
	for i := 0; i < nTrials; i++ {
		if err := s.runTrial(ctx, objective); err != nil {
			return err
		}
	}
	return nil
}

// OptimizeParallel runs the objective nTrials times across nWorkers
// concurrent workers sharing this study's storage.
func (s *Study) OptimizeParallel(ctx context.Context, objective Objective, nTrials, nWorkers int) error {
	if nWorkers <= 1 {
		return s.Optimize(ctx, objective, nTrials)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(nWorkers)
	for i := 0; i < nTrials; i++ {
		g.Go(func() error {
			return s.runTrial(gctx, objective)
		})
	}
	return g.Wait()
}

func (s *Study) runTrial(ctx context.Context, objective Objective) error {
	trial, err := s.Ask(ctx)
	if err != nil {
		return err
	}

	value, objErr := objective(ctx, trial)
	switch {
	case objErr == nil:
		if err := s.Tell(ctx, trial.ID(), value, storage.TrialComplete); err != nil {
			return err
		}
		s.log.Info("trial complete", "trial", trial.Number(), "value", value)
	case errors.Is(objErr, ErrTrialPruned):
		if err := s.store.SetTrialState(ctx, trial.ID(), storage.TrialPruned); err != nil {
			// The pruning transition may already have been applied by
			// a racing worker; re-check before treating it as fatal.
			if !errors.Is(err, storage.ErrInvalidTransition) {
				return err
			}
		}
		s.log.Info("trial pruned", "trial", trial.Number())
	default:
		if err := s.Fail(ctx, trial.ID(), objErr.Error()); err != nil {
			return err
		}
		s.log.Warn("trial failed", "trial", trial.Number(), "error", objErr)
	}
	return nil
}

// better reports whether a beats b for the study's direction.
func (s *Study) better(a, b float64) bool {
	if s.direction == storage.DirectionMaximize {
		return a > b
	}
	return a < b
}
