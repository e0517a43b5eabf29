package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/challenge-blueprint/internal/challenge"
	"github.com/yourusername/challenge-blueprint/internal/logger"
	"github.com/yourusername/challenge-blueprint/internal/metrics"
	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/storage"
)

// Simulation run statuses reported to metrics.
const (
	runStatusSuccess   = "success"
	runStatusInvalid   = "invalid_input"
	runStatusCancelled = "cancelled"
	runStatusError     = "error"
)

// SimulationService runs the calculators and the Monte Carlo engine with
// caching, history recording and instrumentation.
type SimulationService struct {
	base    challenge.SimulationConfig
	cache   *ResultCache
	history storage.RunHistoryStore
	logger  *logrus.Logger
	simLog  *logger.SimulationLogger
	now     func() time.Time
}

// NewSimulationService creates a service. base supplies the worker and chunk
// settings applied to every run; cache and history may be nil.
func NewSimulationService(
	base challenge.SimulationConfig,
	cache *ResultCache,
	history storage.RunHistoryStore,
	log *logrus.Logger,
) *SimulationService {
	if log == nil {
		log = logger.Discard()
	}
	return &SimulationService{
		base:    base,
		cache:   cache,
		history: history,
		logger:  log,
		simLog:  logger.NewSimulationLogger(log),
		now:     time.Now,
	}
}

// Metrics runs the deterministic calculator. Unreachable targets and invalid
// input come back as errors; use models.ClassifyError to tag them.
func (s *SimulationService) Metrics(profile models.TraderProfile, style models.RiskStyle) (models.StrategyMetrics, error) {
	m, err := challenge.ComputeMetrics(profile, style, nil)
	status, field := models.ClassifyError(err)
	metrics.RecordMetricsComputation(string(status))
	s.simLog.LogMetricsComputed(string(status), field, m.TradesNeeded, m.PassProbability)
	return m, err
}

// Goal runs the goal calculator.
func (s *SimulationService) Goal(input models.GoalInput) (models.GoalPlan, error) {
	plan, err := challenge.PlanGoal(input)
	status, _ := models.ClassifyError(err)
	metrics.RecordGoalPlan(string(status))
	return plan, err
}

// Simulate runs a Monte Carlo simulation for req. Seeded requests are served
// from the cache when possible.
func (s *SimulationService) Simulate(ctx context.Context, req models.SimulationRequest) (models.SimulationResult, error) {
	trials := strconv.Itoa(req.Trials)
	if err := req.Validate(); err != nil {
		metrics.RecordSimulationRun(trials, runStatusInvalid, 0)
		return models.SimulationResult{}, err
	}

	cacheable := s.cache != nil && req.Seed != 0
	if cacheable {
		if res, ok := s.cache.Get(NewCacheKey(req)); ok {
			return res, nil
		}
	}

	cfg := s.base
	cfg.Trials = req.Trials
	cfg.Seed = req.Seed

	res, err := challenge.Simulate(ctx, req.Profile, req.Style, cfg)
	if err != nil {
		metrics.RecordSimulationRun(trials, runStatus(err), 0)
		return models.SimulationResult{}, err
	}
	metrics.RecordSimulationRun(trials, runStatusSuccess, res.Duration.Seconds())
	metrics.RecordSuccessRate(res.SuccessRate)

	if cacheable {
		s.cache.Set(NewCacheKey(req), res)
	}
	s.record(ctx, req, res)
	return res, nil
}

// RecentRuns returns up to limit recorded runs, newest first.
func (s *SimulationService) RecentRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	if s.history == nil {
		return []models.RunRecord{}, nil
	}
	return s.history.Recent(ctx, limit)
}

// CacheStats describes the seeded-result cache.
type CacheStats struct {
	Enabled  bool    `json:"enabled"`
	Items    int     `json:"items"`
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
}

// CacheStats reports cache occupancy and hit counts.
func (s *SimulationService) CacheStats() CacheStats {
	if s.cache == nil {
		return CacheStats{}
	}
	hits, misses, ratio := s.cache.Stats()
	return CacheStats{Enabled: true, Items: s.cache.ItemCount(), Hits: hits, Misses: misses, HitRatio: ratio}
}

// ClearCache drops every cached result and resets the counters.
func (s *SimulationService) ClearCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// record stores the run summary. History is best effort: a failed write is
// logged and counted but never fails the simulation.
func (s *SimulationService) record(ctx context.Context, req models.SimulationRequest, res models.SimulationResult) {
	if s.history == nil {
		return
	}
	err := s.history.Record(ctx, models.NewRunRecord(req, res, s.now().UTC()))
	metrics.RecordHistoryWrite(err)
	if err != nil {
		s.logger.WithError(err).WithField("run_id", res.RunID.String()).Warn("Failed to record simulation run")
	}
}

func runStatus(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return runStatusCancelled
	case errors.Is(err, models.ErrInvalidTrials):
		return runStatusInvalid
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return runStatusInvalid
	}
	return runStatusError
}
