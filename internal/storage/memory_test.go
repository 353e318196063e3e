package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/chris-chris/optuna/pkg/distribution"
)

func TestCreateStudyDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	first, err := s.CreateStudy(ctx, "tuning", DirectionMinimize, false)
	if err != nil {
		t.Fatalf("CreateStudy failed: %v", err)
	}

	if _, err := s.CreateStudy(ctx, "tuning", DirectionMinimize, false); !errors.Is(err, ErrDuplicateStudy) {
		t.Fatalf("expected ErrDuplicateStudy, got %v", err)
	}

	loaded, err := s.CreateStudy(ctx, "tuning", DirectionMinimize, true)
	if err != nil {
		t.Fatalf("CreateStudy(loadIfExists) failed: %v", err)
	}
	if loaded.ID != first.ID {
		t.Errorf("loadIfExists returned study %d, want %d", loaded.ID, first.ID)
	}
}

func TestCreateStudyGeneratedName(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	summary, err := s.CreateStudy(ctx, "", DirectionMaximize, false)
	if err != nil {
		t.Fatalf("CreateStudy failed: %v", err)
	}
	if !strings.HasPrefix(summary.Name, "no-name-") {
		t.Errorf("generated name %q should have no-name- prefix", summary.Name)
	}
}

func TestCreateStudyInvalidDirection(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	if _, err := s.CreateStudy(ctx, "x", StudyDirection("sideways"), false); err == nil {
		t.Fatal("expected error for invalid direction")
	}
}

func TestTrialNumbersContiguous(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, err := s.CreateStudy(ctx, "numbers", DirectionMinimize, false)
	if err != nil {
		t.Fatalf("CreateStudy failed: %v", err)
	}

	const n = 64
	var wg sync.WaitGroup
	numbers := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trial, err := s.CreateTrial(ctx, study.ID)
			if err != nil {
				t.Errorf("CreateTrial failed: %v", err)
				return
			}
			numbers <- trial.Number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool)
	for num := range numbers {
		if seen[num] {
			t.Fatalf("trial number %d allocated twice", num)
		}
		seen[num] = true
	}
	for i := int64(0); i < n; i++ {
		if !seen[i] {
			t.Errorf("trial number %d missing, allocation left a gap", i)
		}
	}
}

func TestTrialNumbersPerStudy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	a, _ := s.CreateStudy(ctx, "a", DirectionMinimize, false)
	b, _ := s.CreateStudy(ctx, "b", DirectionMinimize, false)

	ta, err := s.CreateTrial(ctx, a.ID)
	if err != nil {
		t.Fatalf("CreateTrial failed: %v", err)
	}
	tb, err := s.CreateTrial(ctx, b.ID)
	if err != nil {
		t.Fatalf("CreateTrial failed: %v", err)
	}
	if ta.Number != 0 || tb.Number != 0 {
		t.Errorf("first trial numbers = %d, %d; want 0, 0", ta.Number, tb.Number)
	}
}

func TestSetTrialParamWriteOnce(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, _ := s.CreateStudy(ctx, "params", DirectionMinimize, false)
	trial, _ := s.CreateTrial(ctx, study.ID)

	dist := distribution.Uniform{Low: 0, High: 1}
	if err := s.SetTrialParam(ctx, trial.ID, "lr", 0.3, dist); err != nil {
		t.Fatalf("first SetTrialParam failed: %v", err)
	}

	// Identical re-issue is a silent success.
	if err := s.SetTrialParam(ctx, trial.ID, "lr", 0.3, dist); err != nil {
		t.Fatalf("identical re-issue failed: %v", err)
	}

	// A different value for the same name is rejected.
	if err := s.SetTrialParam(ctx, trial.ID, "lr", 0.4, dist); !errors.Is(err, ErrAlreadySet) {
		t.Fatalf("expected ErrAlreadySet, got %v", err)
	}

	// Same value under a different distribution is rejected too.
	if err := s.SetTrialParam(ctx, trial.ID, "lr", 0.3, distribution.Uniform{Low: 0, High: 2}); !errors.Is(err, ErrAlreadySet) {
		t.Fatalf("expected ErrAlreadySet for changed distribution, got %v", err)
	}

	got, err := s.GetTrial(ctx, trial.ID)
	if err != nil {
		t.Fatalf("GetTrial failed: %v", err)
	}
	if got.Params["lr"] != 0.3 {
		t.Errorf("stored param = %g, want 0.3", got.Params["lr"])
	}
}

func TestSetTrialParamRequiresRunning(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, _ := s.CreateStudy(ctx, "done", DirectionMinimize, false)
	trial, _ := s.CreateTrial(ctx, study.ID)

	if err := s.SetTrialState(ctx, trial.ID, TrialComplete); err != nil {
		t.Fatalf("SetTrialState failed: %v", err)
	}
	err := s.SetTrialParam(ctx, trial.ID, "lr", 0.3, distribution.Uniform{Low: 0, High: 1})
	if !errors.Is(err, ErrTrialNotRunning) {
		t.Fatalf("expected ErrTrialNotRunning, got %v", err)
	}
}

func TestIntermediateValuesMonotonic(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, _ := s.CreateStudy(ctx, "steps", DirectionMinimize, false)
	trial, _ := s.CreateTrial(ctx, study.ID)

	if err := s.SetTrialIntermediateValue(ctx, trial.ID, 1, 0.9); err != nil {
		t.Fatalf("step 1 failed: %v", err)
	}
	if err := s.SetTrialIntermediateValue(ctx, trial.ID, 3, 0.5); err != nil {
		t.Fatalf("step 3 failed: %v", err)
	}
	if err := s.SetTrialIntermediateValue(ctx, trial.ID, 3, 0.4); !errors.Is(err, ErrNonMonotonicStep) {
		t.Fatalf("repeated step: expected ErrNonMonotonicStep, got %v", err)
	}
	if err := s.SetTrialIntermediateValue(ctx, trial.ID, 2, 0.6); !errors.Is(err, ErrNonMonotonicStep) {
		t.Fatalf("backward step: expected ErrNonMonotonicStep, got %v", err)
	}

	got, _ := s.GetTrial(ctx, trial.ID)
	if got.LastStep() != 3 {
		t.Errorf("LastStep = %d, want 3", got.LastStep())
	}
}

func TestTerminalTransitionArbitration(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, _ := s.CreateStudy(ctx, "arbitration", DirectionMinimize, false)
	trial, _ := s.CreateTrial(ctx, study.ID)

	if err := s.SetTrialState(ctx, trial.ID, TrialComplete); err != nil {
		t.Fatalf("first transition failed: %v", err)
	}
	if err := s.SetTrialState(ctx, trial.ID, TrialPruned); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second transition: expected ErrInvalidTransition, got %v", err)
	}

	got, _ := s.GetTrial(ctx, trial.ID)
	if got.State != TrialComplete {
		t.Errorf("state = %s, want %s", got.State, TrialComplete)
	}
}

func TestConcurrentTerminalTransitionsOneWinner(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, _ := s.CreateStudy(ctx, "race", DirectionMinimize, false)
	trial, _ := s.CreateTrial(ctx, study.ID)

	states := []TrialState{TrialComplete, TrialPruned, TrialFailed}
	var wg sync.WaitGroup
	results := make(chan error, len(states))
	for _, state := range states {
		wg.Add(1)
		go func(st TrialState) {
			defer wg.Done()
			results <- s.SetTrialState(ctx, trial.ID, st)
		}(state)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("loser got %v, want ErrInvalidTransition", err)
		}
	}
	if wins != 1 {
		t.Errorf("terminal transition had %d winners, want exactly 1", wins)
	}
}

func TestGetTrialsOrderingAndPaging(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, _ := s.CreateStudy(ctx, "paging", DirectionMinimize, false)
	for i := 0; i < 10; i++ {
		if _, err := s.CreateTrial(ctx, study.ID); err != nil {
			t.Fatalf("CreateTrial failed: %v", err)
		}
	}

	all, err := s.GetAllTrials(ctx, study.ID)
	if err != nil {
		t.Fatalf("GetAllTrials failed: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("got %d trials, want 10", len(all))
	}
	for i, trial := range all {
		if trial.Number != int64(i) {
			t.Errorf("position %d holds number %d, order broken", i, trial.Number)
		}
	}

	page, err := s.GetTrials(ctx, study.ID, 4, 3)
	if err != nil {
		t.Fatalf("GetTrials failed: %v", err)
	}
	if len(page) != 3 || page[0].Number != 4 || page[2].Number != 6 {
		t.Errorf("page = %+v, want numbers 4..6", pageNumbers(page))
	}

	// A negative offset is clamped to the start, not a panic.
	page, err = s.GetTrials(ctx, study.ID, -1, 2)
	if err != nil {
		t.Fatalf("GetTrials with negative offset failed: %v", err)
	}
	if len(page) != 2 || page[0].Number != 0 || page[1].Number != 1 {
		t.Errorf("page = %+v, want numbers 0..1", pageNumbers(page))
	}
}

func TestFinishTrialArbitratesValue(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, _ := s.CreateStudy(ctx, "finish-race", DirectionMinimize, false)

	for i := 0; i < 20; i++ {
		trial, err := s.CreateTrial(ctx, study.ID)
		if err != nil {
			t.Fatalf("CreateTrial failed: %v", err)
		}

		type outcome struct {
			value float64
			err   error
		}
		results := make(chan outcome, 2)
		var wg sync.WaitGroup
		for _, v := range []float64{1.0, 2.0} {
			wg.Add(1)
			go func(v float64) {
				defer wg.Done()
				results <- outcome{value: v, err: s.FinishTrial(ctx, trial.ID, v, TrialComplete)}
			}(v)
		}
		wg.Wait()
		close(results)

		var winner float64
		wins := 0
		for r := range results {
			if r.err == nil {
				winner = r.value
				wins++
			} else if !errors.Is(r.err, ErrInvalidTransition) {
				t.Fatalf("loser got %v, want ErrInvalidTransition", r.err)
			}
		}
		if wins != 1 {
			t.Fatalf("finish had %d winners, want exactly 1", wins)
		}

		got, err := s.GetTrial(ctx, trial.ID)
		if err != nil {
			t.Fatalf("GetTrial failed: %v", err)
		}
		if got.Value != winner {
			t.Fatalf("trial value = %g, want the winner's %g", got.Value, winner)
		}
	}
}

func TestFinishTrialRejectsNonTerminal(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, _ := s.CreateStudy(ctx, "finish-running", DirectionMinimize, false)
	trial, _ := s.CreateTrial(ctx, study.ID)

	if err := s.FinishTrial(ctx, trial.ID, 1.0, TrialRunning); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAttrs(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, _ := s.CreateStudy(ctx, "attrs", DirectionMinimize, false)
	trial, _ := s.CreateTrial(ctx, study.ID)

	if err := s.SetStudyUserAttr(ctx, study.ID, "dataset", "cifar10"); err != nil {
		t.Fatalf("SetStudyUserAttr failed: %v", err)
	}
	if err := s.SetTrialUserAttr(ctx, trial.ID, "host", "worker-3"); err != nil {
		t.Fatalf("SetTrialUserAttr failed: %v", err)
	}
	if err := s.SetTrialSystemAttr(ctx, trial.ID, "failed_reason", "oom"); err != nil {
		t.Fatalf("SetTrialSystemAttr failed: %v", err)
	}

	gotStudy, _ := s.GetStudy(ctx, study.ID)
	if gotStudy.UserAttrs["dataset"] != "cifar10" {
		t.Errorf("study attr = %v, want cifar10", gotStudy.UserAttrs["dataset"])
	}
	gotTrial, _ := s.GetTrial(ctx, trial.ID)
	if gotTrial.UserAttrs["host"] != "worker-3" {
		t.Errorf("trial user attr = %v", gotTrial.UserAttrs["host"])
	}
	if gotTrial.SystemAttrs["failed_reason"] != "oom" {
		t.Errorf("trial system attr = %v", gotTrial.SystemAttrs["failed_reason"])
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	if _, err := s.GetStudy(ctx, 99); !errors.Is(err, ErrStudyNotFound) {
		t.Errorf("GetStudy: expected ErrStudyNotFound, got %v", err)
	}
	if _, err := s.GetTrial(ctx, 99); !errors.Is(err, ErrTrialNotFound) {
		t.Errorf("GetTrial: expected ErrTrialNotFound, got %v", err)
	}
	if _, err := s.CreateTrial(ctx, 99); !errors.Is(err, ErrStudyNotFound) {
		t.Errorf("CreateTrial: expected ErrStudyNotFound, got %v", err)
	}
	if _, err := s.GetAllTrials(ctx, 99); !errors.Is(err, ErrStudyNotFound) {
		t.Errorf("GetAllTrials: expected ErrStudyNotFound, got %v", err)
	}
}

func TestFrozenTrialIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	study, _ := s.CreateStudy(ctx, "isolation", DirectionMinimize, false)
	trial, _ := s.CreateTrial(ctx, study.ID)
	_ = s.SetTrialParam(ctx, trial.ID, "lr", 0.5, distribution.Uniform{Low: 0, High: 1})

	snapshot, _ := s.GetTrial(ctx, trial.ID)
	snapshot.Params["lr"] = 99

	again, _ := s.GetTrial(ctx, trial.ID)
	if again.Params["lr"] != 0.5 {
		t.Error("mutating a returned snapshot leaked into the store")
	}
}

func TestCheckTransitionTable(t *testing.T) {
	tests := []struct {
		from, to TrialState
		ok       bool
	}{
		{TrialRunning, TrialComplete, true},
		{TrialRunning, TrialPruned, true},
		{TrialRunning, TrialFailed, true},
		{TrialComplete, TrialFailed, false},
		{TrialPruned, TrialComplete, false},
		{TrialFailed, TrialRunning, false},
		{TrialRunning, TrialRunning, false},
	}
	for _, tt := range tests {
		err := CheckTransition(tt.from, tt.to)
		if tt.ok && err != nil {
			t.Errorf("CheckTransition(%s, %s) = %v, want nil", tt.from, tt.to, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("CheckTransition(%s, %s) = %v, want ErrInvalidTransition", tt.from, tt.to, err)
		}
	}
}

func pageNumbers(trials []FrozenTrial) []int64 {
	out := make([]int64, len(trials))
	for i, trial := range trials {
		out[i] = trial.Number
	}
	return out
}
