package study

import (
	"context"
	"testing"
)

func TestFixedTrialReplaysParams(t *testing.T) {
	ctx := context.Background()
	fixed := NewFixedTrial(map[string]any{
		"lr":        0.01,
		"layers":    int64(4),
		"optimizer": "adam",
	})

	lr, err := fixed.SuggestFloat(ctx, "lr", 1e-5, 1)
	if err != nil {
		t.Fatalf("SuggestFloat failed: %v", err)
	}
	if lr != 0.01 {
		t.Errorf("lr = %g, want 0.01", lr)
	}

	layers, err := fixed.SuggestInt(ctx, "layers", 1, 8)
	if err != nil {
		t.Fatalf("SuggestInt failed: %v", err)
	}
	if layers != 4 {
		t.Errorf("layers = %d, want 4", layers)
	}

	opt, err := fixed.SuggestCategorical(ctx, "optimizer", []string{"sgd", "adam"})
	if err != nil {
		t.Fatalf("SuggestCategorical failed: %v", err)
	}
	if opt != "adam" {
		t.Errorf("optimizer = %q, want adam", opt)
	}

	params := fixed.Params()
	if len(params) != 3 {
		t.Errorf("Params has %d entries, want 3", len(params))
	}
}

func TestFixedTrialMissingParam(t *testing.T) {
	ctx := context.Background()
	fixed := NewFixedTrial(map[string]any{"lr": 0.01})
	if _, err := fixed.SuggestFloat(ctx, "momentum", 0, 1); err == nil {
		t.Fatal("expected error for undefined parameter")
	}
}

func TestFixedTrialTypeMismatch(t *testing.T) {
	ctx := context.Background()
	fixed := NewFixedTrial(map[string]any{
		"lr":        "not a float",
		"optimizer": "lamb",
	})
	if _, err := fixed.SuggestFloat(ctx, "lr", 0, 1); err == nil {
		t.Error("expected error for non-float value")
	}
	if _, err := fixed.SuggestCategorical(ctx, "optimizer", []string{"sgd", "adam"}); err == nil {
		t.Error("expected error for a choice outside the list")
	}
}

func TestFixedTrialNeverPrunes(t *testing.T) {
	ctx := context.Background()
	fixed := NewFixedTrial(nil)
	if err := fixed.Report(ctx, 1, 0.5); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	prune, err := fixed.ShouldPrune(ctx)
	if err != nil || prune {
		t.Errorf("ShouldPrune = %v, %v; want false, nil", prune, err)
	}
}
