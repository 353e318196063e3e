package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/chris-chris/optuna/pkg/distribution"
	"github.com/chris-chris/optuna/pkg/utils"
)

// RDB is a relational Storage backend for multi-process deployments: any
// number of workers on any number of hosts share one MySQL database. Trial
// records are row-locked for the duration of each mutation, so the write
// preconditions hold under arbitrary interleavings, and the unique
// (study_id, number) index backstops the gapless allocation protocol.
type RDB struct {
	db *gorm.DB
}

type studyRow struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Direction string `gorm:"type:varchar(16);not null"`
	UserAttrs string `gorm:"type:text"`
	// NextNumber is the per-study trial counter, advanced under the
	// study's row lock.
	NextNumber int64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
}

func (studyRow) TableName() string { return "studies" }

type trialRow struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Number        int64  `gorm:"uniqueIndex:idx_study_number,priority:2;not null"`
	StudyID       int64  `gorm:"uniqueIndex:idx_study_number,priority:1;index;not null"`
	State         string `gorm:"type:varchar(16);not null;index"`
	Value         float64
	Params        string `gorm:"type:text"`
	Distributions string `gorm:"type:text"`
	Intermediate  string `gorm:"type:text"`
	UserAttrs     string `gorm:"type:text"`
	SystemAttrs   string `gorm:"type:text"`
	StartedAt     time.Time
	CompletedAt   *time.Time
}

func (trialRow) TableName() string { return "trials" }

// NewRDB connects to a MySQL database given a DSN in go-sql-driver format,
// e.g. "user:pass@tcp(host:3306)/optuna?parseTime=true", and migrates the
// schema.
func NewRDB(dsn string) (*RDB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect: %v", ErrStorageUnavailable, err)
	}
	if err := db.AutoMigrate(&studyRow{}, &trialRow{}); err != nil {
		return nil, fmt.Errorf("%w: migration failed: %v", ErrStorageUnavailable, err)
	}
	return &RDB{db: db}, nil
}

func (s *RDB) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *RDB) CreateStudy(ctx context.Context, name string, direction StudyDirection, loadIfExists bool) (StudySummary, error) {
	if !direction.Valid() {
		return StudySummary{}, fmt.Errorf("invalid study direction: %q", direction)
	}
	if name == "" {
		name = utils.GenerateStudyName()
	}

	row := studyRow{
		Name:      name,
		Direction: string(direction),
		UserAttrs: "{}",
		CreatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if !loadIfExists {
			return StudySummary{}, fmt.Errorf("%w: %s", ErrDuplicateStudy, name)
		}
		if err := s.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
			return StudySummary{}, wrapRDB(err)
		}
		return row.summary()
	}
	if err != nil {
		return StudySummary{}, wrapRDB(err)
	}
	return row.summary()
}

func (s *RDB) GetStudy(ctx context.Context, studyID int64) (StudySummary, error) {
	var row studyRow
	err := s.db.WithContext(ctx).First(&row, studyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StudySummary{}, fmt.Errorf("%w: id %d", ErrStudyNotFound, studyID)
	}
	if err != nil {
		return StudySummary{}, wrapRDB(err)
	}
	return row.summary()
}

func (s *RDB) SetStudyUserAttr(ctx context.Context, studyID int64, key string, value any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row studyRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, studyID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrStudyNotFound, studyID)
		}
		if err != nil {
			return wrapRDB(err)
		}
		attrs, err := decodeAttrs(row.UserAttrs)
		if err != nil {
			return err
		}
		attrs[key] = value
		encoded, err := encodeAttrs(attrs)
		if err != nil {
			return err
		}
		return wrapRDB(tx.Model(&row).Update("user_attrs", encoded).Error)
	})
}

func (s *RDB) CreateTrial(ctx context.Context, studyID int64) (FrozenTrial, error) {
	var out FrozenTrial
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the study row so concurrent creators serialize on the
		// counter and numbers come out contiguous.
		var study studyRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&study, studyID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrStudyNotFound, studyID)
		}
		if err != nil {
			return wrapRDB(err)
		}

		row := trialRow{
			Number:        study.NextNumber,
			StudyID:       studyID,
			State:         string(TrialRunning),
			Params:        "{}",
			Distributions: "{}",
			Intermediate:  "[]",
			UserAttrs:     "{}",
			SystemAttrs:   "{}",
			StartedAt:     time.Now().UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return wrapRDB(err)
		}
		if err := tx.Model(&study).Update("next_number", study.NextNumber+1).Error; err != nil {
			return wrapRDB(err)
		}
		out, err = row.frozen()
		return err
	})
	if err != nil {
		return FrozenTrial{}, err
	}
	return out, nil
}

func (s *RDB) SetTrialParam(ctx context.Context, trialID int64, name string, internal float64, dist distribution.Distribution) error {
	distJSON, err := distribution.MarshalJSON(dist)
	if err != nil {
		return err
	}
	return s.updateTrial(ctx, trialID, func(row *trialRow) error {
		if err := row.requireRunning(); err != nil {
			return err
		}
		params, err := decodeParams(row.Params)
		if err != nil {
			return err
		}
		dists, err := decodeRawMap(row.Distributions)
		if err != nil {
			return err
		}
		if existing, ok := params[name]; ok {
			if existing == internal && string(dists[name]) == string(distJSON) {
				return nil
			}
			return fmt.Errorf("%w: trial %d parameter %q", ErrAlreadySet, trialID, name)
		}
		params[name] = internal
		dists[name] = distJSON
		if row.Params, err = encodeJSON(params); err != nil {
			return err
		}
		row.Distributions, err = encodeJSON(dists)
		return err
	})
}

func (s *RDB) SetTrialValue(ctx context.Context, trialID int64, value float64) error {
	return s.updateTrial(ctx, trialID, func(row *trialRow) error {
		if err := row.requireRunning(); err != nil {
			return err
		}
		row.Value = value
		return nil
	})
}

func (s *RDB) SetTrialIntermediateValue(ctx context.Context, trialID int64, step int64, value float64) error {
	return s.updateTrial(ctx, trialID, func(row *trialRow) error {
		if err := row.requireRunning(); err != nil {
			return err
		}
		entries, err := decodeIntermediate(row.Intermediate)
		if err != nil {
			return err
		}
		if n := len(entries); n > 0 && step <= entries[n-1].Step {
			return fmt.Errorf("%w: step %d <= last step %d", ErrNonMonotonicStep, step, entries[n-1].Step)
		}
		entries = append(entries, intermediateEntry{Step: step, Value: value})
		row.Intermediate, err = encodeJSON(entries)
		return err
	})
}

func (s *RDB) SetTrialState(ctx context.Context, trialID int64, state TrialState) error {
	return s.updateTrial(ctx, trialID, func(row *trialRow) error {
		if err := CheckTransition(TrialState(row.State), state); err != nil {
			return err
		}
		row.State = string(state)
		now := time.Now().UTC()
		row.CompletedAt = &now
		return nil
	})
}

func (s *RDB) FinishTrial(ctx context.Context, trialID int64, value float64, state TrialState) error {
	if !state.IsTerminal() {
		return fmt.Errorf("%w: finish requires a terminal state, got %s", ErrInvalidTransition, state)
	}
	return s.updateTrial(ctx, trialID, func(row *trialRow) error {
		if err := CheckTransition(TrialState(row.State), state); err != nil {
			return err
		}
		if state == TrialComplete {
			row.Value = value
		}
		row.State = string(state)
		now := time.Now().UTC()
		row.CompletedAt = &now
		return nil
	})
}

func (s *RDB) SetTrialUserAttr(ctx context.Context, trialID int64, key string, value any) error {
	return s.updateTrial(ctx, trialID, func(row *trialRow) error {
		attrs, err := decodeAttrs(row.UserAttrs)
		if err != nil {
			return err
		}
		attrs[key] = value
		row.UserAttrs, err = encodeAttrs(attrs)
		return err
	})
}

func (s *RDB) SetTrialSystemAttr(ctx context.Context, trialID int64, key string, value any) error {
	return s.updateTrial(ctx, trialID, func(row *trialRow) error {
		attrs, err := decodeAttrs(row.SystemAttrs)
		if err != nil {
			return err
		}
		attrs[key] = value
		row.SystemAttrs, err = encodeAttrs(attrs)
		return err
	})
}

func (s *RDB) GetTrial(ctx context.Context, trialID int64) (FrozenTrial, error) {
	var row trialRow
	err := s.db.WithContext(ctx).First(&row, trialID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return FrozenTrial{}, fmt.Errorf("%w: id %d", ErrTrialNotFound, trialID)
	}
	if err != nil {
		return FrozenTrial{}, wrapRDB(err)
	}
	return row.frozen()
}

func (s *RDB) GetTrials(ctx context.Context, studyID int64, offset, limit int) ([]FrozenTrial, error) {
	if _, err := s.GetStudy(ctx, studyID); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Where("study_id = ?", studyID).Order("number ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []trialRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, wrapRDB(err)
	}
	out := make([]FrozenTrial, 0, len(rows))
	for _, row := range rows {
		frozen, err := row.frozen()
		if err != nil {
			return nil, err
		}
		out = append(out, frozen)
	}
	return out, nil
}

func (s *RDB) GetAllTrials(ctx context.Context, studyID int64) ([]FrozenTrial, error) {
	return s.GetTrials(ctx, studyID, 0, 0)
}

// updateTrial runs a read-modify-write mutation against a row-locked trial.
func (s *RDB) updateTrial(ctx context.Context, trialID int64, mutate func(row *trialRow) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row trialRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, trialID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrTrialNotFound, trialID)
		}
		if err != nil {
			return wrapRDB(err)
		}
		if err := mutate(&row); err != nil {
			return err
		}
		return wrapRDB(tx.Save(&row).Error)
	})
}

func (r *trialRow) requireRunning() error {
	if TrialState(r.State) != TrialRunning {
		return fmt.Errorf("%w: trial %d is %s", ErrTrialNotRunning, r.ID, r.State)
	}
	return nil
}

func (r studyRow) summary() (StudySummary, error) {
	attrs, err := decodeAttrs(r.UserAttrs)
	if err != nil {
		return StudySummary{}, err
	}
	return StudySummary{
		ID:        r.ID,
		Name:      r.Name,
		Direction: StudyDirection(r.Direction),
		UserAttrs: attrs,
		CreatedAt: r.CreatedAt,
	}, nil
}

func (r trialRow) frozen() (FrozenTrial, error) {
	params, err := decodeParams(r.Params)
	if err != nil {
		return FrozenTrial{}, err
	}
	rawDists, err := decodeRawMap(r.Distributions)
	if err != nil {
		return FrozenTrial{}, err
	}
	entries, err := decodeIntermediate(r.Intermediate)
	if err != nil {
		return FrozenTrial{}, err
	}
	userAttrs, err := decodeAttrs(r.UserAttrs)
	if err != nil {
		return FrozenTrial{}, err
	}
	systemAttrs, err := decodeAttrs(r.SystemAttrs)
	if err != nil {
		return FrozenTrial{}, err
	}

	out := FrozenTrial{
		ID:                 r.ID,
		Number:             r.Number,
		StudyID:            r.StudyID,
		State:              TrialState(r.State),
		Value:              r.Value,
		Params:             params,
		Distributions:      make(map[string]distribution.Distribution, len(rawDists)),
		IntermediateValues: make(map[int64]float64, len(entries)),
		UserAttrs:          userAttrs,
		SystemAttrs:        systemAttrs,
		StartedAt:          r.StartedAt,
	}
	if r.CompletedAt != nil {
		out.CompletedAt = *r.CompletedAt
	}
	for k, raw := range rawDists {
		dist, err := distribution.UnmarshalJSON(raw)
		if err != nil {
			return FrozenTrial{}, fmt.Errorf("trial %d parameter %q: %w", r.ID, k, err)
		}
		out.Distributions[k] = dist
	}
	for _, e := range entries {
		out.IntermediateValues[e.Step] = e.Value
	}
	return out, nil
}

func decodeParams(data string) (map[string]float64, error) {
	out := make(map[string]float64)
	if data == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("corrupt params column: %w", err)
	}
	return out, nil
}

func decodeRawMap(data string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage)
	if data == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("corrupt distributions column: %w", err)
	}
	return out, nil
}

func decodeIntermediate(data string) ([]intermediateEntry, error) {
	var out []intermediateEntry
	if data == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("corrupt intermediate column: %w", err)
	}
	return out, nil
}

func decodeAttrs(data string) (map[string]any, error) {
	out := make(map[string]any)
	if data == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("corrupt attrs column: %w", err)
	}
	return out, nil
}

func encodeAttrs(attrs map[string]any) (string, error) {
	return encodeJSON(attrs)
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// wrapRDB tags database failures as transient.
func wrapRDB(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
