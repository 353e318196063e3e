package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chris-chris/optuna/internal/storage"
	"github.com/chris-chris/optuna/internal/study"
	"github.com/chris-chris/optuna/pkg/logger"
)

// ErrGroupSync is returned when a member observes a decision that does not
// match the collective it is executing, such as a parameter for a trial it
// never joined. The group has diverged; the caller should cancel the shared
// context and call Abort so the trial is recorded as failed rather than
// left RUNNING forever.
var ErrGroupSync = errors.New("worker group out of sync")

// leaderRank is the member that owns the storage record of a coordinated
// trial. All other ranks are read-only followers.
const leaderRank = 0

type beginMsg struct {
	TrialID int64 `json:"trial_id"`
	Number  int64 `json:"number"`
}

type paramMsg struct {
	TrialID int64   `json:"trial_id"`
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Float   float64 `json:"float,omitempty"`
	Int     int64   `json:"int,omitempty"`
	Str     string  `json:"str,omitempty"`
}

type pruneMsg struct {
	TrialID int64 `json:"trial_id"`
	Prune   bool  `json:"prune"`
}

type finishMsg struct {
	TrialID int64              `json:"trial_id"`
	State   storage.TrialState `json:"state"`
}

// CoordinatedTrial drives one trial across a worker group. The leader
// samples and persists every decision through its Study; followers receive
// the same decisions over the group channel and never touch storage. Every
// member must call the same methods in the same order.
type CoordinatedTrial struct {
	group   GroupChannel
	trial   *study.Trial
	study   *study.Study
	trialID int64
	number  int64
}

// Begin starts a coordinated trial. The leader allocates a trial from the
// study and broadcasts its identity; followers may pass a nil study.
func Begin(ctx context.Context, group GroupChannel, st *study.Study) (*CoordinatedTrial, error) {
	t := &CoordinatedTrial{group: group, study: st}

	if group.Rank() == leaderRank {
		if st == nil {
			return nil, errors.New("leader requires a study")
		}
		trial, err := st.Ask(ctx)
		if err != nil {
			return nil, err
		}
		t.trial = trial
		t.trialID = trial.ID()
		t.number = trial.Number()
		if _, err := t.broadcast(ctx, beginMsg{TrialID: t.trialID, Number: t.number}); err != nil {
			t.abort(ctx, err)
			return nil, err
		}
		return t, nil
	}

	var msg beginMsg
	if err := t.receive(ctx, &msg); err != nil {
		return nil, err
	}
	t.trialID = msg.TrialID
	t.number = msg.Number
	return t, nil
}

// IsLeader reports whether this member owns the trial's storage record.
func (t *CoordinatedTrial) IsLeader() bool { return t.group.Rank() == leaderRank }

// ID returns the storage-global trial identifier.
func (t *CoordinatedTrial) ID() int64 { return t.trialID }

// Number returns the per-study trial number.
func (t *CoordinatedTrial) Number() int64 { return t.number }

// SuggestFloat suggests a continuous parameter; every member receives the
// leader's value.
func (t *CoordinatedTrial) SuggestFloat(ctx context.Context, name string, low, high float64) (float64, error) {
	return t.suggestFloat(ctx, name, "float", func(c context.Context) (float64, error) {
		return t.trial.SuggestFloat(c, name, low, high)
	})
}

// SuggestLogFloat suggests a log-uniform parameter.
func (t *CoordinatedTrial) SuggestLogFloat(ctx context.Context, name string, low, high float64) (float64, error) {
	return t.suggestFloat(ctx, name, "log_float", func(c context.Context) (float64, error) {
		return t.trial.SuggestLogFloat(c, name, low, high)
	})
}

// SuggestDiscreteFloat suggests a discretized parameter.
func (t *CoordinatedTrial) SuggestDiscreteFloat(ctx context.Context, name string, low, high, q float64) (float64, error) {
	return t.suggestFloat(ctx, name, "discrete_float", func(c context.Context) (float64, error) {
		return t.trial.SuggestDiscreteFloat(c, name, low, high, q)
	})
}

// SuggestInt suggests an integer parameter.
func (t *CoordinatedTrial) SuggestInt(ctx context.Context, name string, low, high int64) (int64, error) {
	if t.IsLeader() {
		v, err := t.trial.SuggestInt(ctx, name, low, high)
		if err != nil {
			return 0, err
		}
		if _, err := t.broadcast(ctx, paramMsg{TrialID: t.trialID, Name: name, Kind: "int", Int: v}); err != nil {
			t.abort(ctx, err)
			return 0, err
		}
		return v, nil
	}
	msg, err := t.receiveParam(ctx, name, "int")
	if err != nil {
		return 0, err
	}
	return msg.Int, nil
}

// SuggestCategorical suggests one of the given choices.
func (t *CoordinatedTrial) SuggestCategorical(ctx context.Context, name string, choices []string) (string, error) {
	if t.IsLeader() {
		v, err := t.trial.SuggestCategorical(ctx, name, choices)
		if err != nil {
			return "", err
		}
		if _, err := t.broadcast(ctx, paramMsg{TrialID: t.trialID, Name: name, Kind: "categorical", Str: v}); err != nil {
			t.abort(ctx, err)
			return "", err
		}
		return v, nil
	}
	msg, err := t.receiveParam(ctx, name, "categorical")
	if err != nil {
		return "", err
	}
	return msg.Str, nil
}

// Report records an intermediate value. Only the leader writes; followers
// are a no-op so every member can call it unconditionally.
func (t *CoordinatedTrial) Report(ctx context.Context, step int64, value float64) error {
	if !t.IsLeader() {
		return nil
	}
	return t.trial.Report(ctx, step, value)
}

// ShouldPrune asks the pruner on the leader and broadcasts the decision, so
// the whole group stops together or not at all.
func (t *CoordinatedTrial) ShouldPrune(ctx context.Context) (bool, error) {
	if t.IsLeader() {
		prune, err := t.trial.ShouldPrune(ctx)
		if err != nil {
			return false, err
		}
		if _, err := t.broadcast(ctx, pruneMsg{TrialID: t.trialID, Prune: prune}); err != nil {
			t.abort(ctx, err)
			return false, err
		}
		return prune, nil
	}

	var msg pruneMsg
	if err := t.receive(ctx, &msg); err != nil {
		return false, err
	}
	if msg.TrialID != t.trialID {
		return false, fmt.Errorf("%w: prune decision for trial %d, expected %d", ErrGroupSync, msg.TrialID, t.trialID)
	}
	return msg.Prune, nil
}

// Finish closes the trial with a terminal state. The leader writes the
// result and broadcasts it; all members then synchronize on a barrier so
// nobody outruns the group into the next trial.
func (t *CoordinatedTrial) Finish(ctx context.Context, value float64, state storage.TrialState) error {
	if t.IsLeader() {
		if err := t.study.Tell(ctx, t.trialID, value, state); err != nil {
			return err
		}
		if _, err := t.broadcast(ctx, finishMsg{TrialID: t.trialID, State: state}); err != nil {
			return err
		}
		return t.group.Barrier(ctx)
	}

	var msg finishMsg
	if err := t.receive(ctx, &msg); err != nil {
		return err
	}
	if msg.TrialID != t.trialID {
		return fmt.Errorf("%w: finish for trial %d, expected %d", ErrGroupSync, msg.TrialID, t.trialID)
	}
	return t.group.Barrier(ctx)
}

// Abort records the trial as failed after a group error. Every member calls
// it when a collective operation fails: followers have nothing to write and
// return immediately, the leader records the cause and transitions the trial
// to FAIL. The write goes through an uncancelled context so that cancelling
// the group's shared context cannot also block the failure record. A trial
// that already reached a terminal state is left alone.
func (t *CoordinatedTrial) Abort(ctx context.Context, cause error) error {
	if !t.IsLeader() {
		return nil
	}
	reason := "worker group aborted"
	if cause != nil {
		reason = cause.Error()
	}
	return t.study.Fail(context.WithoutCancel(ctx), t.trialID, reason)
}

// abort is the best-effort form used on leader-side broadcast failures.
func (t *CoordinatedTrial) abort(ctx context.Context, cause error) {
	if err := t.Abort(ctx, cause); err != nil {
		logger.Warn("failed to record aborted trial", "trial", t.trialID, "error", err)
	}
}

func (t *CoordinatedTrial) suggestFloat(ctx context.Context, name, kind string, draw func(context.Context) (float64, error)) (float64, error) {
	if t.IsLeader() {
		v, err := draw(ctx)
		if err != nil {
			return 0, err
		}
		if _, err := t.broadcast(ctx, paramMsg{TrialID: t.trialID, Name: name, Kind: kind, Float: v}); err != nil {
			t.abort(ctx, err)
			return 0, err
		}
		return v, nil
	}
	msg, err := t.receiveParam(ctx, name, kind)
	if err != nil {
		return 0, err
	}
	return msg.Float, nil
}

func (t *CoordinatedTrial) receiveParam(ctx context.Context, name, kind string) (paramMsg, error) {
	var msg paramMsg
	if err := t.receive(ctx, &msg); err != nil {
		return paramMsg{}, err
	}
	if msg.TrialID != t.trialID {
		return paramMsg{}, fmt.Errorf("%w: parameter for trial %d, expected %d", ErrGroupSync, msg.TrialID, t.trialID)
	}
	if msg.Name != name || msg.Kind != kind {
		return paramMsg{}, fmt.Errorf("%w: received %s %q, expected %s %q", ErrGroupSync, msg.Kind, msg.Name, kind, name)
	}
	return msg, nil
}

func (t *CoordinatedTrial) broadcast(ctx context.Context, msg any) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return t.group.Broadcast(ctx, leaderRank, payload)
}

func (t *CoordinatedTrial) receive(ctx context.Context, out any) error {
	payload, err := t.group.Broadcast(ctx, leaderRank, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: undecodable broadcast: %v", ErrGroupSync, err)
	}
	return nil
}
