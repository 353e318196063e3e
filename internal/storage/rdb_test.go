package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/chris-chris/optuna/pkg/distribution"
)

// openRDB connects to the MySQL instance named by OPTUNA_MYSQL_DSN. The
// tests are skipped when the variable is unset so the suite stays runnable
// without a database.
func openRDB(t *testing.T) *RDB {
	t.Helper()
	dsn := os.Getenv("OPTUNA_MYSQL_DSN")
	if dsn == "" {
		t.Skip("OPTUNA_MYSQL_DSN not set; skipping MySQL backend tests")
	}
	s, err := NewRDB(dsn)
	if err != nil {
		t.Fatalf("NewRDB failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestRDBStudyLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openRDB(t)
	name := uniqueName("lifecycle")

	study, err := s.CreateStudy(ctx, name, DirectionMinimize, false)
	if err != nil {
		t.Fatalf("CreateStudy failed: %v", err)
	}
	if _, err := s.CreateStudy(ctx, name, DirectionMinimize, false); !errors.Is(err, ErrDuplicateStudy) {
		t.Fatalf("expected ErrDuplicateStudy, got %v", err)
	}
	loaded, err := s.CreateStudy(ctx, name, DirectionMinimize, true)
	if err != nil {
		t.Fatalf("loadIfExists failed: %v", err)
	}
	if loaded.ID != study.ID {
		t.Errorf("loaded study id = %d, want %d", loaded.ID, study.ID)
	}
}

func TestRDBTrialContract(t *testing.T) {
	ctx := context.Background()
	s := openRDB(t)

	study, err := s.CreateStudy(ctx, uniqueName("contract"), DirectionMinimize, false)
	if err != nil {
		t.Fatalf("CreateStudy failed: %v", err)
	}
	trial, err := s.CreateTrial(ctx, study.ID)
	if err != nil {
		t.Fatalf("CreateTrial failed: %v", err)
	}
	if trial.Number != 0 {
		t.Errorf("first trial number = %d, want 0", trial.Number)
	}

	dist := distribution.Uniform{Low: 0, High: 1}
	if err := s.SetTrialParam(ctx, trial.ID, "lr", 0.3, dist); err != nil {
		t.Fatalf("SetTrialParam failed: %v", err)
	}
	if err := s.SetTrialParam(ctx, trial.ID, "lr", 0.3, dist); err != nil {
		t.Fatalf("identical re-issue failed: %v", err)
	}
	if err := s.SetTrialParam(ctx, trial.ID, "lr", 0.7, dist); !errors.Is(err, ErrAlreadySet) {
		t.Fatalf("expected ErrAlreadySet, got %v", err)
	}

	if err := s.SetTrialIntermediateValue(ctx, trial.ID, 1, 0.9); err != nil {
		t.Fatalf("step 1 failed: %v", err)
	}
	if err := s.SetTrialIntermediateValue(ctx, trial.ID, 1, 0.8); !errors.Is(err, ErrNonMonotonicStep) {
		t.Fatalf("expected ErrNonMonotonicStep, got %v", err)
	}

	if err := s.SetTrialValue(ctx, trial.ID, 0.5); err != nil {
		t.Fatalf("SetTrialValue failed: %v", err)
	}
	if err := s.SetTrialState(ctx, trial.ID, TrialComplete); err != nil {
		t.Fatalf("SetTrialState failed: %v", err)
	}
	if err := s.SetTrialState(ctx, trial.ID, TrialFailed); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	got, err := s.GetTrial(ctx, trial.ID)
	if err != nil {
		t.Fatalf("GetTrial failed: %v", err)
	}
	if got.State != TrialComplete || got.Value != 0.5 || got.Params["lr"] != 0.3 {
		t.Errorf("trial = %s/%g/%v", got.State, got.Value, got.Params)
	}

	finished, err := s.CreateTrial(ctx, study.ID)
	if err != nil {
		t.Fatalf("CreateTrial failed: %v", err)
	}
	if err := s.FinishTrial(ctx, finished.ID, 0.25, TrialComplete); err != nil {
		t.Fatalf("FinishTrial failed: %v", err)
	}
	if err := s.FinishTrial(ctx, finished.ID, 0.75, TrialComplete); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	got, err = s.GetTrial(ctx, finished.ID)
	if err != nil {
		t.Fatalf("GetTrial failed: %v", err)
	}
	if got.State != TrialComplete || got.Value != 0.25 {
		t.Errorf("finished trial = %s/%g, want complete/0.25", got.State, got.Value)
	}
}

func TestRDBTrialNumbersContiguous(t *testing.T) {
	ctx := context.Background()
	s := openRDB(t)

	study, err := s.CreateStudy(ctx, uniqueName("numbers"), DirectionMinimize, false)
	if err != nil {
		t.Fatalf("CreateStudy failed: %v", err)
	}

	const n = 16
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
