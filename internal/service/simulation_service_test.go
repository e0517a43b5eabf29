package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/challenge-blueprint/internal/challenge"
	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/storage/memory"
)

func testEngineConfig() challenge.SimulationConfig {
	return challenge.SimulationConfig{Workers: 2, ChunkSize: 50}
}

func scenarioProfile() models.TraderProfile {
	return models.TraderProfile{
		AccountSize:     10000,
		ProfitTarget:    10,
		PassDays:        14,
		WinRate:         60,
		RiskRewardRatio: 1.5,
		RiskPerTrade:    1,
		TradesPerDay:    3,
	}
}

func TestSimulationServiceCachesSeededRuns(t *testing.T) {
	cache := NewResultCache(time.Hour, 10)
	history := memory.NewRunHistoryStore(10)
	svc := NewSimulationService(testEngineConfig(), cache, history, nil)
	ctx := context.Background()

	req := models.SimulationRequest{Profile: scenarioProfile(), Style: models.RiskStyleBalanced, Trials: 1000, Seed: 7}
	first, err := svc.Simulate(ctx, req)
	require.NoError(t, err)
	second, err := svc.Simulate(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	hits, _, _ := cache.Stats()
	assert.Equal(t, uint64(1), hits)

	runs, err := svc.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, first.RunID, runs[0].RunID)
	assert.Equal(t, 1000, runs[0].Trials)
	assert.Equal(t, models.RiskStyleBalanced, runs[0].Style)
}

func TestSimulationServiceCacheStatsAndClear(t *testing.T) {
	svc := NewSimulationService(testEngineConfig(), NewResultCache(time.Hour, 10), nil, nil)
	ctx := context.Background()

	req := models.SimulationRequest{Profile: scenarioProfile(), Style: models.RiskStyleBalanced, Trials: 200, Seed: 3}
	_, err := svc.Simulate(ctx, req)
	require.NoError(t, err)
	_, err = svc.Simulate(ctx, req)
	require.NoError(t, err)

	stats := svc.CacheStats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, 1, stats.Items)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRatio, 1e-9)

	svc.ClearCache()
	assert.Equal(t, CacheStats{Enabled: true}, svc.CacheStats())

	uncached := NewSimulationService(testEngineConfig(), nil, nil, nil)
	uncached.ClearCache()
	assert.Equal(t, CacheStats{}, uncached.CacheStats())
}

func TestSimulationServiceSkipsCacheForUnseededRuns(t *testing.T) {
	cache := NewResultCache(time.Hour, 10)
	svc := NewSimulationService(testEngineConfig(), cache, nil, nil)

	req := models.SimulationRequest{Profile: scenarioProfile(), Style: models.RiskStyleBalanced, Trials: 100}
	res, err := svc.Simulate(context.Background(), req)
	require.NoError(t, err)
	assert.NotZero(t, res.Seed)
	assert.Zero(t, cache.ItemCount())

	runs, err := svc.RecentRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSimulationServiceRejectsInvalidRequests(t *testing.T) {
	svc := NewSimulationService(testEngineConfig(), nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Simulate(ctx, models.SimulationRequest{Profile: scenarioProfile(), Style: models.RiskStyleBalanced, Trials: 0})
	assert.ErrorIs(t, err, models.ErrInvalidTrials)

	bad := scenarioProfile()
	bad.PassDays = 0
	_, err = svc.Simulate(ctx, models.SimulationRequest{Profile: bad, Style: models.RiskStyleBalanced, Trials: 100})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "passDays", verr.Field)
}

func TestSimulationServiceHonoursCancellation(t *testing.T) {
	svc := NewSimulationService(testEngineConfig(), nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Simulate(ctx, models.SimulationRequest{Profile: scenarioProfile(), Style: models.RiskStyleBalanced, Trials: 10000, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, runStatusCancelled, runStatus(err))
}

func TestSimulationServiceMetricsAndGoal(t *testing.T) {
	svc := NewSimulationService(testEngineConfig(), nil, nil, nil)

	m, err := svc.Metrics(scenarioProfile(), models.RiskStyleBalanced)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, m.TradesNeeded, 1e-9)

	losing := scenarioProfile()
	losing.WinRate = 20
	_, err = svc.Metrics(losing, models.RiskStyleBalanced)
	assert.ErrorIs(t, err, models.ErrUnreachableTarget)

	plan, err := svc.Goal(models.DefaultGoalInput())
	require.NoError(t, err)
	assert.Equal(t, 60, plan.TotalTrades)
}
