package study

import (
	"context"
	"testing"

	"github.com/chris-chris/optuna/pkg/config"
)

func TestFromConfig(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.ParseConfigYAMLString(`
study:
  name: from-config
  direction: maximize
storage:
  backend: memory
sampler:
  kind: random
  seed: 42
pruner:
  kind: percentile
  percentile: 25
  min_trials: 3
`)
	if err != nil {
		t.Fatalf("ParseConfigYAMLString failed: %v", err)
	}

	st, store, err := FromConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	defer store.Close()

	if st.Name() != "from-config" {
		t.Errorf("study name = %q", st.Name())
	}
	if st.Direction() != "maximize" {
		t.Errorf("direction = %q, want maximize", st.Direction())
	}

	trial, err := st.Ask(ctx)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if _, err := trial.SuggestFloat(ctx, "x", 0, 1); err != nil {
		t.Fatalf("SuggestFloat failed: %v", err)
	}
}

func TestFromConfigBadBackend(t *testing.T) {
	cfg := &config.Config{
		Study:   config.Study{Name: "x", Direction: "minimize"},
		Storage: config.Storage{Backend: "etcd"},
	}
	if _, _, err := FromConfig(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestFromConfigBadger(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Study:   config.Study{Name: "on-disk", Direction: "minimize"},
		Storage: config.Storage{Backend: "badger", Path: t.TempDir()},
	}
	st, store, err := FromConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("FromConfig(badger) failed: %v", err)
	}
	defer store.Close()

	if _, err := st.Ask(ctx); err != nil {
		t.Fatalf("Ask on badger-backed study failed: %v", err)
	}
}
