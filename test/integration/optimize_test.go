//go:build integration
// +build integration

package integration_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chris-chris/optuna/internal/coordinator"
	"github.com/chris-chris/optuna/internal/pruner"
	"github.com/chris-chris/optuna/internal/sampler"
	"github.com/chris-chris/optuna/internal/storage"
	"github.com/chris-chris/optuna/internal/study"
)

// TestIntegration_OptimizeQuadratic runs a whole study end to end against
// the in-memory backend: parallel workers minimize (x-2)^2 with pruning
// enabled and the best trial lands near the optimum.
func TestIntegration_OptimizeQuadratic(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemory()
	defer store.Close()

	st, err := study.Create(ctx, store, "quadratic", storage.DirectionMinimize)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	st.WithSampler(sampler.NewRandom(7)).WithPruner(pruner.NewMedian(3, 0))

	objective := func(ctx context.Context, trial *study.Trial) (float64, error) {
		x, err := trial.SuggestFloat(ctx, "x", -10, 10)
		if err != nil {
			return 0, err
		}
		loss := (x - 2) * (x - 2)
		// Simulated epochs with intermediate reports.
		for step := int64(1); step <= 3; step++ {
			if err := trial.Report(ctx, step, loss*float64(4-step)); err != nil {
				return 0, err
			}
			prune, err := trial.ShouldPrune(ctx)
			if err != nil {
				return 0, err
			}
			if prune {
				return 0, study.ErrTrialPruned
			}
		}
		return loss, nil
	}

	if err := st.OptimizeParallel(ctx, objective, 60, 4); err != nil {
		t.Fatalf("OptimizeParallel failed: %v", err)
	}

	trials, err := st.Trials(ctx)
	if err != nil {
		t.Fatalf("Trials failed: %v", err)
	}
	if len(trials) != 60 {
		t.Fatalf("got %d trials, want 60", len(trials))
	}
	completed, pruned := 0, 0
	for _, trial := range trials {
		switch trial.State {
		case storage.TrialComplete:
			completed++
		case storage.TrialPruned:
			pruned++
		default:
			t.Errorf("trial %d left in state %s", trial.Number, trial.State)
		}
	}
	if completed == 0 {
		t.Fatal("no trial completed")
	}

	best, err := st.BestTrial(ctx)
	if err != nil {
		t.Fatalf("BestTrial failed: %v", err)
	}
	// 60 uniform draws over [-10, 10] land within 2 of the optimum with
	// overwhelming probability.
	x := best.Params["x"]
	if x < 0 || x > 4 {
		t.Errorf("best x = %g, expected near 2", x)
	}
	if best.Value != (x-2)*(x-2) {
		t.Errorf("best value %g inconsistent with param %g", best.Value, x)
	}
}

// TestIntegration_ResumeFromBadger restarts a study from disk and verifies
// a second process picks up the history and keeps numbering gapless.
func TestIntegration_ResumeFromBadger(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	run := func(nTrials int) {
		store, err := storage.NewBadger(dir)
		if err != nil {
			t.Fatalf("NewBadger failed: %v", err)
		}
		defer store.Close()

		st, err := study.Open(ctx, store, "resumable", storage.DirectionMinimize)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		st.WithSampler(sampler.NewRandom(11)).WithPruner(pruner.NewNop())

		objective := func(ctx context.Context, trial *study.Trial) (float64, error) {
			x, err := trial.SuggestFloat(ctx, "x", 0, 1)
			if err != nil {
				return 0, err
			}
			return x, nil
		}
		if err := st.Optimize(ctx, objective, nTrials); err != nil {
			t.Fatalf("Optimize failed: %v", err)
		}
	}

	run(5)
	run(5)

	store, err := storage.NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger failed: %v", err)
	}
	defer store.Close()
	st, err := study.Open(ctx, store, "resumable", storage.DirectionMinimize)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	trials, err := st.Trials(ctx)
	if err != nil {
		t.Fatalf("Trials failed: %v", err)
	}
	if len(trials) != 10 {
		t.Fatalf("got %d trials across restarts, want 10", len(trials))
	}
	for i, trial := range trials {
		if trial.Number != int64(i) {
			t.Errorf("position %d holds number %d, numbering broke across restart", i, trial.Number)
		}
	}
	if _, err := st.BestTrial(ctx); err != nil {
		t.Fatalf("BestTrial failed: %v", err)
	}
}

// TestIntegration_CoordinatedStudy runs several coordinated trials in a
// row over a worker group: the leader owns storage, followers mirror every
// parameter, and all storage records come out terminal.
func TestIntegration_CoordinatedStudy(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemory()
	defer store.Close()

	st, err := study.Create(ctx, store, "group-study", storage.DirectionMinimize)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	st.WithSampler(sampler.NewRandom(3)).WithPruner(pruner.NewNop())

	const workers = 2
	const rounds = 5
	members := coordinator.NewLocalGroup(workers)

	var wg sync.WaitGroup
	for rank, member := range members {
		wg.Add(1)
		go func(rank int, g coordinator.GroupChannel) {
			defer wg.Done()
			var ownStudy *study.Study
			if rank == 0 {
				ownStudy = st
			}
			for round := 0; round < rounds; round++ {
				trial, err := coordinator.Begin(ctx, g, ownStudy)
				if err != nil {
					t.Errorf("rank %d round %d Begin failed: %v", rank, round, err)
					return
				}
				lr, err := trial.SuggestLogFloat(ctx, "lr", 1e-4, 1)
				if err != nil {
					t.Errorf("rank %d round %d suggest failed: %v", rank, round, err)
					return
				}
				if err := trial.Finish(ctx, lr, storage.TrialComplete); err != nil {
					t.Errorf("rank %d round %d Finish failed: %v", rank, round, err)
					return
				}
			}
		}(rank, member)
	}
	wg.Wait()

	trials, err := store.GetAllTrials(ctx, st.ID())
	if err != nil {
		t.Fatalf("GetAllTrials failed: %v", err)
	}
	if len(trials) != rounds {
		t.Fatalf("storage holds %d trials, want %d", len(trials), rounds)
	}
	for _, trial := range trials {
		if trial.State != storage.TrialComplete {
			t.Errorf("trial %d state = %s, want complete", trial.Number, trial.State)
		}
		if _, ok := trial.Params["lr"]; !ok {
			t.Errorf("trial %d missing lr param", trial.Number)
		}
	}
}

// TestIntegration_FailedTrialDoesNotAbortStudy drives a flaky objective and
// confirms failures are contained per trial.
func TestIntegration_FailedTrialDoesNotAbortStudy(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemory()
	defer store.Close()

	st, err := study.Create(ctx, store, "flaky", storage.DirectionMinimize)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	st.WithSampler(sampler.NewRandom(1)).WithPruner(pruner.NewNop())

	objective := func(ctx context.Context, trial *study.Trial) (float64, error) {
		x, err := trial.SuggestFloat(ctx, "x", 0, 1)
		if err != nil {
			return 0, err
		}
		if trial.Number()%3 == 0 {
			return 0, errors.New("transient worker crash")
		}
		return x, nil
	}

	if err := st.Optimize(ctx, objective, 9); err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	trials, _ := st.Trials(ctx)
	failed := 0
	for _, trial := range trials {
		if trial.State == storage.TrialFailed {
			failed++
			if trial.SystemAttrs["failed_reason"] != "transient worker crash" {
				t.Errorf("trial %d failed_reason = %v", trial.Number, trial.SystemAttrs["failed_reason"])
			}
		}
	}
	if failed != 3 {
		t.Errorf("%d failed trials, want 3", failed)
	}
	if _, err := st.BestTrial(ctx); err != nil {
		t.Errorf("BestTrial failed: %v", err)
	}
}
