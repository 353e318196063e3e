package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/chris-chris/optuna/pkg/distribution"
	"github.com/chris-chris/optuna/pkg/utils"
)

// Badger is an embedded durable Storage backend. Records survive process
// restarts; a later process can reopen the same directory and resume the
// study. Badger's serializable transactions provide the optimistic
// insert-with-retry protocol for trial-number allocation: a losing
// contender gets a conflict, re-reads the counter, and retries, so numbers
// stay gapless.
type Badger struct {
	db *badgerdb.DB
}

// maxTxnRetries bounds the optimistic-retry loop for conflicting writers.
const maxTxnRetries = 128

// Key layout. Trial numbers are big-endian encoded so that a prefix scan
// yields trials in number order.
//
//	study:name:<name>          -> study id (8 bytes)
//	study:id:<id>              -> studyRecord JSON
//	study:trials:<id>:<number> -> trial id (8 bytes)
//	trial:<id>                 -> trialRecord JSON
//	seq:study / seq:trial      -> counters (8 bytes)
const (
	keySeqStudy = "seq:study"
	keySeqTrial = "seq:trial"
)

type studyRecord struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Direction StudyDirection `json:"direction"`
	UserAttrs map[string]any `json:"user_attrs"`
	CreatedAt time.Time      `json:"created_at"`
	Trials    int64          `json:"trials"`
}

type intermediateEntry struct {
	Step  int64   `json:"step"`
	Value float64 `json:"value"`
}

type trialRecord struct {
	ID            int64                      `json:"id"`
	Number        int64                      `json:"number"`
	StudyID       int64                      `json:"study_id"`
	State         TrialState                 `json:"state"`
	Value         float64                    `json:"value"`
	Params        map[string]float64         `json:"params"`
	Distributions map[string]json.RawMessage `json:"distributions"`
	Intermediate  []intermediateEntry        `json:"intermediate"`
	UserAttrs     map[string]any             `json:"user_attrs"`
	SystemAttrs   map[string]any             `json:"system_attrs"`
	StartedAt     time.Time                  `json:"started_at"`
	CompletedAt   time.Time                  `json:"completed_at"`
}

// NewBadger opens (or creates) a Badger-backed store in the given
// directory.
func NewBadger(path string) (*Badger, error) {
	opts := badgerdb.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(true)
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open badger at %s: %v", ErrStorageUnavailable, path, err)
	}
	return &Badger{db: db}, nil
}

func (s *Badger) Close() error {
	return s.db.Close()
}

// update runs fn in a serializable transaction, retrying on write
// conflicts. Integrity errors from fn abort immediately.
func (s *Badger) update(fn func(txn *badgerdb.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badgerdb.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: transaction conflict persisted after %d retries: %v", ErrStorageUnavailable, maxTxnRetries, err)
}

func (s *Badger) CreateStudy(ctx context.Context, name string, direction StudyDirection, loadIfExists bool) (StudySummary, error) {
	if !direction.Valid() {
		return StudySummary{}, fmt.Errorf("invalid study direction: %q", direction)
	}
	if name == "" {
		name = utils.GenerateStudyName()
	}

	var out StudySummary
	err := s.update(func(txn *badgerdb.Txn) error {
		nameKey := []byte("study:name:" + name)
		item, err := txn.Get(nameKey)
		if err == nil {
			id, err := readInt64(item)
			if err != nil {
				return err
			}
			if !loadIfExists {
				return fmt.Errorf("%w: %s", ErrDuplicateStudy, name)
			}
			rec, err := getStudyRecord(txn, id)
			if err != nil {
				return err
			}
			out = rec.summary()
			return nil
		}
		if !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return wrapIO(err)
		}

		id, err := nextSeq(txn, keySeqStudy)
		if err != nil {
			return err
		}
		rec := studyRecord{
			ID:        id,
			Name:      name,
			Direction: direction,
			UserAttrs: make(map[string]any),
			CreatedAt: time.Now().UTC(),
		}
		if err := putStudyRecord(txn, rec); err != nil {
			return err
		}
		if err := txn.Set(nameKey, encodeInt64(id)); err != nil {
			return wrapIO(err)
		}
		out = rec.summary()
		return nil
	})
	if err != nil {
		return StudySummary{}, err
	}
	return out, nil
}

func (s *Badger) GetStudy(ctx context.Context, studyID int64) (StudySummary, error) {
	var out StudySummary
	err := s.db.View(func(txn *badgerdb.Txn) error {
		rec, err := getStudyRecord(txn, studyID)
		if err != nil {
			return err
		}
		out = rec.summary()
		return nil
	})
	if err != nil {
		return StudySummary{}, err
	}
	return out, nil
}

func (s *Badger) SetStudyUserAttr(ctx context.Context, studyID int64, key string, value any) error {
	return s.update(func(txn *badgerdb.Txn) error {
		rec, err := getStudyRecord(txn, studyID)
		if err != nil {
			return err
		}
		rec.UserAttrs[key] = value
		return putStudyRecord(txn, rec)
	})
}

func (s *Badger) CreateTrial(ctx context.Context, studyID int64) (FrozenTrial, error) {
	var out FrozenTrial
	err := s.update(func(txn *badgerdb.Txn) error {
		study, err := getStudyRecord(txn, studyID)
		if err != nil {
			return err
		}

		trialID, err := nextSeq(txn, keySeqTrial)
		if err != nil {
			return err
		}
		rec := trialRecord{
			ID:            trialID,
			Number:        study.Trials,
			StudyID:       studyID,
			State:         TrialRunning,
			Params:        make(map[string]float64),
			Distributions: make(map[string]json.RawMessage),
			UserAttrs:     make(map[string]any),
			SystemAttrs:   make(map[string]any),
			StartedAt:     time.Now().UTC(),
		}

		study.Trials++
		if err := putStudyRecord(txn, study); err != nil {
			return err
		}
		if err := putTrialRecord(txn, rec); err != nil {
			return err
		}
		if err := txn.Set(trialIndexKey(studyID, rec.Number), encodeInt64(trialID)); err != nil {
			return wrapIO(err)
		}
		out, err = rec.frozen()
		return err
	})
	if err != nil {
		return FrozenTrial{}, err
	}
	return out, nil
}

func (s *Badger) SetTrialParam(ctx context.Context, trialID int64, name string, internal float64, dist distribution.Distribution) error {
	distJSON, err := distribution.MarshalJSON(dist)
	if err != nil {
		return err
	}
	return s.updateTrial(trialID, func(rec *trialRecord) error {
		if err := rec.requireRunning(); err != nil {
			return err
		}
		if existing, ok := rec.Params[name]; ok {
			if existing == internal && string(rec.Distributions[name]) == string(distJSON) {
				return nil
			}
			return fmt.Errorf("%w: trial %d parameter %q", ErrAlreadySet, trialID, name)
		}
		rec.Params[name] = internal
		rec.Distributions[name] = distJSON
		return nil
	})
}

func (s *Badger) SetTrialValue(ctx context.Context, trialID int64, value float64) error {
	return s.updateTrial(trialID, func(rec *trialRecord) error {
		if err := rec.requireRunning(); err != nil {
			return err
		}
		rec.Value = value
		return nil
	})
}

func (s *Badger) SetTrialIntermediateValue(ctx context.Context, trialID int64, step int64, value float64) error {
	return s.updateTrial(trialID, func(rec *trialRecord) error {
		if err := rec.requireRunning(); err != nil {
			return err
		}
		if n := len(rec.Intermediate); n > 0 && step <= rec.Intermediate[n-1].Step {
			return fmt.Errorf("%w: step %d <= last step %d", ErrNonMonotonicStep, step, rec.Intermediate[n-1].Step)
		}
		rec.Intermediate = append(rec.Intermediate, intermediateEntry{Step: step, Value: value})
		return nil
	})
}

func (s *Badger) SetTrialState(ctx context.Context, trialID int64, state TrialState) error {
	return s.updateTrial(trialID, func(rec *trialRecord) error {
		if err := CheckTransition(rec.State, state); err != nil {
			return err
		}
		rec.State = state
		rec.CompletedAt = time.Now().UTC()
		return nil
	})
}

func (s *Badger) FinishTrial(ctx context.Context, trialID int64, value float64, state TrialState) error {
	if !state.IsTerminal() {
		return fmt.Errorf("%w: finish requires a terminal state, got %s", ErrInvalidTransition, state)
	}
	return s.updateTrial(trialID, func(rec *trialRecord) error {
		if err := CheckTransition(rec.State, state); err != nil {
			return err
		}
		if state == TrialComplete {
			rec.Value = value
		}
		rec.State = state
		rec.CompletedAt = time.Now().UTC()
		return nil
	})
}

func (s *Badger) SetTrialUserAttr(ctx context.Context, trialID int64, key string, value any) error {
	return s.updateTrial(trialID, func(rec *trialRecord) error {
		rec.UserAttrs[key] = value
		return nil
	})
}

func (s *Badger) SetTrialSystemAttr(ctx context.Context, trialID int64, key string, value any) error {
	return s.updateTrial(trialID, func(rec *trialRecord) error {
		rec.SystemAttrs[key] = value
		return nil
	})
}

func (s *Badger) GetTrial(ctx context.Context, trialID int64) (FrozenTrial, error) {
	var out FrozenTrial
	err := s.db.View(func(txn *badgerdb.Txn) error {
		rec, err := getTrialRecord(txn, trialID)
		if err != nil {
			return err
		}
		out, err = rec.frozen()
		return err
	})
	if err != nil {
		return FrozenTrial{}, err
	}
	return out, nil
}

func (s *Badger) GetTrials(ctx context.Context, studyID int64, offset, limit int) ([]FrozenTrial, error) {
	var out []FrozenTrial
	err := s.db.View(func(txn *badgerdb.Txn) error {
		if _, err := getStudyRecord(txn, studyID); err != nil {
			return err
		}

		prefix := []byte(fmt.Sprintf("study:trials:%d:", studyID))
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		skipped := 0
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			if limit > 0 && len(out) >= limit {
				break
			}
			trialID, err := readInt64(it.Item())
			if err != nil {
				return err
			}
			rec, err := getTrialRecord(txn, trialID)
			if err != nil {
				return err
			}
			frozen, err := rec.frozen()
			if err != nil {
				return err
			}
			out = append(out, frozen)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Badger) GetAllTrials(ctx context.Context, studyID int64) ([]FrozenTrial, error) {
	return s.GetTrials(ctx, studyID, 0, 0)
}

// updateTrial applies a read-modify-write mutation to one trial record
// inside a serializable transaction.
func (s *Badger) updateTrial(trialID int64, mutate func(rec *trialRecord) error) error {
	return s.update(func(txn *badgerdb.Txn) error {
		rec, err := getTrialRecord(txn, trialID)
		if err != nil {
			return err
		}
		if err := mutate(&rec); err != nil {
			return err
		}
		return putTrialRecord(txn, rec)
	})
}

func (r *trialRecord) requireRunning() error {
	if r.State != TrialRunning {
		return fmt.Errorf("%w: trial %d is %s", ErrTrialNotRunning, r.ID, r.State)
	}
	return nil
}

func (r studyRecord) summary() StudySummary {
	attrs := r.UserAttrs
	if attrs == nil {
		attrs = make(map[string]any)
	}
	return StudySummary{
		ID:        r.ID,
		Name:      r.Name,
		Direction: r.Direction,
		UserAttrs: attrs,
		CreatedAt: r.CreatedAt,
	}
}

func (r trialRecord) frozen() (FrozenTrial, error) {
	out := FrozenTrial{
		ID:                 r.ID,
		Number:             r.Number,
		StudyID:            r.StudyID,
		State:              r.State,
		Value:              r.Value,
		Params:             make(map[string]float64, len(r.Params)),
		Distributions:      make(map[string]distribution.Distribution, len(r.Distributions)),
		IntermediateValues: make(map[int64]float64, len(r.Intermediate)),
		UserAttrs:          r.UserAttrs,
		SystemAttrs:        r.SystemAttrs,
		StartedAt:          r.StartedAt,
		CompletedAt:        r.CompletedAt,
	}
	if out.UserAttrs == nil {
		out.UserAttrs = make(map[string]any)
	}
	if out.SystemAttrs == nil {
		out.SystemAttrs = make(map[string]any)
	}
	for k, v := range r.Params {
		out.Params[k] = v
	}
	for k, raw := range r.Distributions {
		dist, err := distribution.UnmarshalJSON(raw)
		if err != nil {
			return FrozenTrial{}, fmt.Errorf("trial %d parameter %q: %w", r.ID, k, err)
		}
		out.Distributions[k] = dist
	}
	for _, e := range r.Intermediate {
		out.IntermediateValues[e.Step] = e.Value
	}
	return out, nil
}

func getStudyRecord(txn *badgerdb.Txn, studyID int64) (studyRecord, error) {
	var rec studyRecord
	item, err := txn.Get([]byte(fmt.Sprintf("study:id:%d", studyID)))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return rec, fmt.Errorf("%w: id %d", ErrStudyNotFound, studyID)
	}
	if err != nil {
		return rec, wrapIO(err)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	if err != nil {
		return rec, wrapIO(err)
	}
	return rec, nil
}

func putStudyRecord(txn *badgerdb.Txn, rec studyRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return wrapIO(txn.Set([]byte(fmt.Sprintf("study:id:%d", rec.ID)), data))
}

func getTrialRecord(txn *badgerdb.Txn, trialID int64) (trialRecord, error) {
	var rec trialRecord
	item, err := txn.Get([]byte(fmt.Sprintf("trial:%d", trialID)))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return rec, fmt.Errorf("%w: id %d", ErrTrialNotFound, trialID)
	}
	if err != nil {
		return rec, wrapIO(err)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	if err != nil {
		return rec, wrapIO(err)
	}
	return rec, nil
}

func putTrialRecord(txn *badgerdb.Txn, rec trialRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return wrapIO(txn.Set([]byte(fmt.Sprintf("trial:%d", rec.ID)), data))
}

func trialIndexKey(studyID, number int64) []byte {
	prefix := fmt.Sprintf("study:trials:%d:", studyID)
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], uint64(number))
	return key
}

func nextSeq(txn *badgerdb.Txn, key string) (int64, error) {
	next := int64(1)
	item, err := txn.Get([]byte(key))
	if err == nil {
		cur, err := readInt64(item)
		if err != nil {
			return 0, err
		}
		next = cur + 1
	} else if !errors.Is(err, badgerdb.ErrKeyNotFound) {
		return 0, wrapIO(err)
	}
	if err := txn.Set([]byte(key), encodeInt64(next)); err != nil {
		return 0, wrapIO(err)
	}
	return next, nil
}

func encodeInt64(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

func readInt64(item *badgerdb.Item) (int64, error) {
	var v int64
	err := item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt counter value of length %d", len(val))
		}
		v = int64(binary.BigEndian.Uint64(val))
		return nil
	})
	if err != nil {
		return 0, wrapIO(err)
	}
	return v, nil
}

// wrapIO tags backend I/O failures as transient so callers can distinguish
// them from integrity errors.
func wrapIO(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
