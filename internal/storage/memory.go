package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chris-chris/optuna/pkg/distribution"
	"github.com/chris-chris/optuna/pkg/utils"
)

// InMemory is a single-process Storage backend. It provides the full
// consistency contract under concurrent goroutines, which makes it the
// reference backend for tests and for workers that do not share a study
// with any other process.
type InMemory struct {
	mu sync.RWMutex

	studies      map[int64]*StudySummary
	studyByName  map[string]int64
	trials       map[int64]*FrozenTrial
	trialsByStud map[int64][]int64

	nextStudyID int64
	nextTrialID int64
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		studies:      make(map[int64]*StudySummary),
		studyByName:  make(map[string]int64),
		trials:       make(map[int64]*FrozenTrial),
		trialsByStud: make(map[int64][]int64),
	}
}

func (s *InMemory) CreateStudy(ctx context.Context, name string, direction StudyDirection, loadIfExists bool) (StudySummary, error) {
	if !direction.Valid() {
		return StudySummary{}, fmt.Errorf("invalid study direction: %q", direction)
	}
	if name == "" {
		name = utils.GenerateStudyName()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.studyByName[name]; exists {
		if !loadIfExists {
			return StudySummary{}, fmt.Errorf("%w: %s", ErrDuplicateStudy, name)
		}
		existing := *s.studies[id]
		existing.UserAttrs = cloneAttrs(s.studies[id].UserAttrs)
		return existing, nil
	}

	s.nextStudyID++
	summary := &StudySummary{
		ID:        s.nextStudyID,
		Name:      name,
		Direction: direction,
		UserAttrs: make(map[string]any),
		CreatedAt: time.Now().UTC(),
	}
	s.studies[summary.ID] = summary
	s.studyByName[name] = summary.ID

	out := *summary
	out.UserAttrs = cloneAttrs(summary.UserAttrs)
	return out, nil
}

func (s *InMemory) GetStudy(ctx context.Context, studyID int64) (StudySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.studies[studyID]
	if !ok {
		return StudySummary{}, fmt.Errorf("%w: id %d", ErrStudyNotFound, studyID)
	}
	out := *summary
	out.UserAttrs = cloneAttrs(summary.UserAttrs)
	return out, nil
}

func (s *InMemory) SetStudyUserAttr(ctx context.Context, studyID int64, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.studies[studyID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrStudyNotFound, studyID)
	}
	summary.UserAttrs[key] = value
	return nil
}

func (s *InMemory) CreateTrial(ctx context.Context, studyID int64) (FrozenTrial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.studies[studyID]; !ok {
		return FrozenTrial{}, fmt.Errorf("%w: id %d", ErrStudyNotFound, studyID)
	}

	s.nextTrialID++
	trial := &FrozenTrial{
		ID:                 s.nextTrialID,
		Number:             int64(len(s.trialsByStud[studyID])),
		StudyID:            studyID,
		State:              TrialRunning,
		Params:             make(map[string]float64),
		Distributions:      make(map[string]distribution.Distribution),
		IntermediateValues: make(map[int64]float64),
		UserAttrs:          make(map[string]any),
		SystemAttrs:        make(map[string]any),
		StartedAt:          time.Now().UTC(),
	}
	s.trials[trial.ID] = trial
	s.trialsByStud[studyID] = append(s.trialsByStud[studyID], trial.ID)
	return cloneTrial(*trial), nil
}

func (s *InMemory) SetTrialParam(ctx context.Context, trialID int64, name string, internal float64, dist distribution.Distribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trial, err := s.running(trialID)
	if err != nil {
		return err
	}
	if existing, ok := trial.Params[name]; ok {
		if existing == internal && distribution.Equal(trial.Distributions[name], dist) {
			// Identical re-issue, e.g. a crash replay. Nothing to record.
			return nil
		}
		return fmt.Errorf("%w: trial %d parameter %q", ErrAlreadySet, trialID, name)
	}
	trial.Params[name] = internal
	trial.Distributions[name] = dist
	return nil
}

func (s *InMemory) SetTrialValue(ctx context.Context, trialID int64, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trial, err := s.running(trialID)
	if err != nil {
		return err
	}
	trial.Value = value
	return nil
}

func (s *InMemory) SetTrialIntermediateValue(ctx context.Context, trialID int64, step int64, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trial, err := s.running(trialID)
	if err != nil {
		return err
	}
	if last := trial.LastStep(); step <= last {
		return fmt.Errorf("%w: step %d <= last step %d", ErrNonMonotonicStep, step, last)
	}
	trial.IntermediateValues[step] = value
	return nil
}

func (s *InMemory) SetTrialState(ctx context.Context, trialID int64, state TrialState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trial, ok := s.trials[trialID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrTrialNotFound, trialID)
	}
	if err := CheckTransition(trial.State, state); err != nil {
		return err
	}
	trial.State = state
	trial.CompletedAt = time.Now().UTC()
	return nil
}

func (s *InMemory) FinishTrial(ctx context.Context, trialID int64, value float64, state TrialState) error {
	if !state.IsTerminal() {
		return fmt.Errorf("%w: finish requires a terminal state, got %s", ErrInvalidTransition, state)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trial, ok := s.trials[trialID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrTrialNotFound, trialID)
	}
	if err := CheckTransition(trial.State, state); err != nil {
		return err
	}
	if state == TrialComplete {
		trial.Value = value
	}
	trial.State = state
	trial.CompletedAt = time.Now().UTC()
	return nil
}

func (s *InMemory) SetTrialUserAttr(ctx context.Context, trialID int64, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trial, ok := s.trials[trialID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrTrialNotFound, trialID)
	}
	trial.UserAttrs[key] = value
	return nil
}

func (s *InMemory) SetTrialSystemAttr(ctx context.Context, trialID int64, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trial, ok := s.trials[trialID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrTrialNotFound, trialID)
	}
	trial.SystemAttrs[key] = value
	return nil
}

func (s *InMemory) GetTrial(ctx context.Context, trialID int64) (FrozenTrial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trial, ok := s.trials[trialID]
	if !ok {
		return FrozenTrial{}, fmt.Errorf("%w: id %d", ErrTrialNotFound, trialID)
	}
	return cloneTrial(*trial), nil
}

func (s *InMemory) GetTrials(ctx context.Context, studyID int64, offset, limit int) ([]FrozenTrial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.studies[studyID]; !ok {
		return nil, fmt.Errorf("%w: id %d", ErrStudyNotFound, studyID)
	}
	ids := s.trialsByStud[studyID]
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return nil, nil
	}
	end := len(ids)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]FrozenTrial, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, cloneTrial(*s.trials[id]))
	}
	return out, nil
}

func (s *InMemory) GetAllTrials(ctx context.Context, studyID int64) ([]FrozenTrial, error) {
	return s.GetTrials(ctx, studyID, 0, 0)
}

func (s *InMemory) Close() error { return nil }

// running returns the live trial record iff the trial exists and is still
// RUNNING. Callers must hold the write lock.
func (s *InMemory) running(trialID int64) (*FrozenTrial, error) {
	trial, ok := s.trials[trialID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrTrialNotFound, trialID)
	}
	if trial.State != TrialRunning {
		return nil, fmt.Errorf("%w: trial %d is %s", ErrTrialNotRunning, trialID, trial.State)
	}
	return trial, nil
}
