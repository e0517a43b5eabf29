package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/challenge-blueprint/internal/logger"
	"github.com/yourusername/challenge-blueprint/internal/metrics"
	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/preferences"
)

// Snapshot is the session's current (profile, style, metrics) tuple. A new
// snapshot replaces the old one wholesale on every recompute.
type Snapshot struct {
	Version uint64                 `json:"version"`
	Profile models.TraderProfile   `json:"profile"`
	Style   models.RiskStyle       `json:"style"`
	Status  models.MetricsStatus   `json:"status"`
	Field   string                 `json:"field,omitempty"`
	Metrics models.StrategyMetrics `json:"metrics"`
}

// Session holds one user's blueprint form. Edits are validated immediately
// and recomputed after the debounce delay; Submit persists and recomputes at once.
type Session struct {
	ID uuid.UUID

	svc       *SimulationService
	prefs     *preferences.Store
	debouncer *Debouncer
	onUpdate  func(Snapshot)
	logger    *logrus.Entry

	// publishMu serializes recomputes so snapshots reach onUpdate in
	// version order.
	publishMu sync.Mutex

	mu       sync.RWMutex
	profile  models.TraderProfile
	style    models.RiskStyle
	snapshot Snapshot
	closed   bool
}

// NewSession loads the stored profile and style, computes the first snapshot
// and returns the session. onUpdate, if set, receives every new snapshot.
func NewSession(
	ctx context.Context,
	svc *SimulationService,
	prefs *preferences.Store,
	delay time.Duration,
	onUpdate func(Snapshot),
	log *logrus.Logger,
) (*Session, error) {
	if log == nil {
		log = logger.Discard()
	}
	profile, err := prefs.LoadProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trader profile: %w", err)
	}
	style, err := prefs.LoadRiskStyle(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load risk style: %w", err)
	}

	id := uuid.New()
	s := &Session{
		ID:        id,
		svc:       svc,
		prefs:     prefs,
		debouncer: NewDebouncer(delay),
		onUpdate:  onUpdate,
		logger:    log.WithFields(logrus.Fields{"component": "session", "session_id": id.String()}),
		profile:   profile,
		style:     style,
	}
	s.recompute()
	metrics.SessionOpened()
	return s, nil
}

// Snapshot returns the latest computed snapshot.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// UpdateProfile validates profile and schedules a recompute.
func (s *Session) UpdateProfile(profile models.TraderProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	s.schedule()
	return nil
}

// SetRiskStyle switches style, applies its risk-per-trade preset and
// schedules a recompute.
func (s *Session) SetRiskStyle(style models.RiskStyle) error {
	if !style.Valid() {
		return &models.ValidationError{Field: "riskStyle", Reason: fmt.Sprintf("unknown risk style %q", style)}
	}
	s.mu.Lock()
	s.style = style
	s.profile = s.profile.WithRiskStyle(style)
	s.mu.Unlock()
	s.schedule()
	return nil
}

// Submit persists the current profile and style and recomputes immediately.
func (s *Session) Submit(ctx context.Context) (Snapshot, error) {
	s.debouncer.Cancel()

	s.mu.RLock()
	profile, style := s.profile, s.style
	s.mu.RUnlock()

	if err := s.prefs.SaveProfile(ctx, profile); err != nil {
		return Snapshot{}, err
	}
	if err := s.prefs.SaveRiskStyle(ctx, style); err != nil {
		return Snapshot{}, err
	}
	return s.recompute(), nil
}

// Close stops pending recomputes. No snapshot is published afterwards.
func (s *Session) Close() {
	s.debouncer.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		metrics.SessionClosed()
	}
}

func (s *Session) schedule() {
	s.debouncer.Trigger(func() { s.recompute() })
}

func (s *Session) recompute() Snapshot {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.RLock()
	profile, style := s.profile, s.style
	s.mu.RUnlock()

	m, err := s.svc.Metrics(profile, style)
	status, field := models.ClassifyError(err)
	if err != nil {
		m = models.StrategyMetrics{}
		s.logger.WithFields(logrus.Fields{"status": status, "field": field}).Debug("Metrics not computable for current profile")
	}

	s.mu.Lock()
	if s.closed {
		snap := s.snapshot
		s.mu.Unlock()
		return snap
	}
	snap := Snapshot{
		Version: s.snapshot.Version + 1,
		Profile: profile,
		Style:   style,
		Status:  status,
		Field:   field,
		Metrics: m,
	}
	s.snapshot = snap
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
	return snap
}
