// Package preferences persists the blueprint's form state in a key-value
// store. Values that cannot be read back are discarded in favour of defaults.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/challenge-blueprint/internal/logger"
	"github.com/yourusername/challenge-blueprint/internal/metrics"
	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/storage"
)

// Storage keys.
const (
	KeyTraderProfile       = "traderProfile"
	KeyRiskStyle           = "riskStyle"
	KeyGoalInput           = "goalCalculatorInputs"
	KeyCalendarPreferences = "economicCalendarPreferences"
)

// Keys lists every key the store writes.
func Keys() []string {
	return []string{KeyTraderProfile, KeyRiskStyle, KeyGoalInput, KeyCalendarPreferences}
}

// Store reads and writes typed preferences.
type Store struct {
	kv  storage.KVStore
	log *logger.PreferenceLogger
	now func() time.Time
}

// NewStore wraps kv. A nil log discards output.
func NewStore(kv storage.KVStore, log *logrus.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		kv:  kv,
		log: logger.NewPreferenceLogger(log),
		now: time.Now,
	}
}

// LoadProfile returns the stored trader profile or DefaultTraderProfile.
func (s *Store) LoadProfile(ctx context.Context) (models.TraderProfile, error) {
	profile := models.DefaultTraderProfile()
	ok, err := s.load(ctx, KeyTraderProfile, &profile, func() error { return profile.Validate() })
	if err != nil || !ok {
		return models.DefaultTraderProfile(), err
	}
	return profile, nil
}

// LoadRiskStyle returns the stored risk style or DefaultRiskStyle.
func (s *Store) LoadRiskStyle(ctx context.Context) (models.RiskStyle, error) {
	raw, err := s.kv.Get(ctx, KeyRiskStyle)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultRiskStyle, nil
	}
	if err != nil {
		return models.DefaultRiskStyle, fmt.Errorf("failed to read %s: %w", KeyRiskStyle, err)
	}

	// Older writers stored the bare string rather than a JSON string.
	var name string
	if jsonErr := json.Unmarshal(raw, &name); jsonErr != nil {
		name = string(raw)
	}
	style, parseErr := models.ParseRiskStyle(name)
	if parseErr != nil {
		s.discard(KeyRiskStyle, parseErr)
		return models.DefaultRiskStyle, nil
	}
	return style, nil
}

// LoadGoalInput returns the stored goal-calculator input or DefaultGoalInput.
func (s *Store) LoadGoalInput(ctx context.Context) (models.GoalInput, error) {
	input := models.DefaultGoalInput()
	ok, err := s.load(ctx, KeyGoalInput, &input, func() error { return input.Validate() })
	if err != nil || !ok {
		return models.DefaultGoalInput(), err
	}
	return input, nil
}

// LoadCalendarPreferences returns the stored calendar preferences or
// DefaultCalendarPreferences.
func (s *Store) LoadCalendarPreferences(ctx context.Context) (models.CalendarPreferences, error) {
	prefs := models.DefaultCalendarPreferences()
	ok, err := s.load(ctx, KeyCalendarPreferences, &prefs, func() error { return prefs.Validate() })
	if err != nil || !ok {
		return models.DefaultCalendarPreferences(), err
	}
	if prefs.Currencies == nil {
		prefs.Currencies = []string{}
	}
	return prefs, nil
}

// SaveProfile validates and writes the trader profile.
func (s *Store) SaveProfile(ctx context.Context, profile models.TraderProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	return s.save(ctx, KeyTraderProfile, profile)
}

// SaveRiskStyle validates and writes the risk style.
func (s *Store) SaveRiskStyle(ctx context.Context, style models.RiskStyle) error {
	if !style.Valid() {
		return &models.ValidationError{Field: "riskStyle", Reason: fmt.Sprintf("unknown risk style %q", style)}
	}
	return s.save(ctx, KeyRiskStyle, style)
}

// SaveGoalInput validates and writes the goal-calculator input.
func (s *Store) SaveGoalInput(ctx context.Context, input models.GoalInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	return s.save(ctx, KeyGoalInput, input)
}

// SaveCalendarPreferences validates and writes the calendar preferences.
func (s *Store) SaveCalendarPreferences(ctx context.Context, prefs models.CalendarPreferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	return s.save(ctx, KeyCalendarPreferences, prefs)
}

// Reset deletes every stored preference.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range Keys() {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

// Sweep removes preferences not written within retention. A zero retention
// keeps everything.
func (s *Store) Sweep(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	deleted, err := s.kv.DeleteOlderThan(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep preferences: %w", err)
	}
	metrics.RecordRetentionSweep(deleted)
	s.log.LogSweep(deleted, retention.Hours())
	return deleted, nil
}

// Ping checks the underlying store.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// load decodes key into dst and runs validate. It reports false, without an
// error, when the key is absent or its value had to be discarded.
func (s *Store) load(ctx context.Context, key string, dst any, validate func() error) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.discard(key, err)
		return false, nil
	}
	if err := validate(); err != nil {
		s.discard(key, err)
		return false, nil
	}
	return true, nil
}

func (s *Store) discard(key string, reason error) {
	s.log.LogCorruptValue(key, reason.Error())
	metrics.RecordPreferenceCorrupt(key)
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	err = s.kv.Set(ctx, key, data)
	metrics.RecordPreferenceWrite(key, err)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.log.LogSaved(key, len(data))
	return nil
}
