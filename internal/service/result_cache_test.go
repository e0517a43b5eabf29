package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

func testRequest(seed int64) models.SimulationRequest {
	return models.SimulationRequest{
		Profile: models.DefaultTraderProfile(),
		Style:   models.RiskStyleBalanced,
		Trials:  100,
		Seed:    seed,
	}
}

// TestCacheKeyString tests that every request field reaches the key
func TestCacheKeyString(t *testing.T) {
	base := NewCacheKey(testRequest(7))

	accelerated := testRequest(7)
	accelerated.Profile.IsAccelerated = true
	otherStyle := testRequest(7)
	otherStyle.Style = models.RiskStyleAggressive

	assert.Equal(t, base.String(), NewCacheKey(testRequest(7)).String())
	assert.NotEqual(t, base.String(), NewCacheKey(testRequest(8)).String())
	assert.NotEqual(t, base.String(), NewCacheKey(accelerated).String())
	assert.NotEqual(t, base.String(), NewCacheKey(otherStyle).String())
}

// TestResultCacheGetSet tests Get and Set with hit/miss accounting
func TestResultCacheGetSet(t *testing.T) {
	cache := NewResultCache(time.Hour, 10)
	defer cache.Clear()

	key := NewCacheKey(testRequest(42))
	_, ok := cache.Get(key)
	assert.False(t, ok)

	want := models.SimulationResult{RunID: uuid.New(), Trials: 100, SuccessRate: 61}
	cache.Set(key, want)

	got, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, want, got)

	hits, misses, ratio := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

// TestResultCacheMaxSize tests that a full cache refuses new entries
func TestResultCacheMaxSize(t *testing.T) {
	cache := NewResultCache(time.Hour, 2)
	defer cache.Clear()

	for seed := int64(1); seed <= 3; seed++ {
		cache.Set(NewCacheKey(testRequest(seed)), models.SimulationResult{Seed: seed})
	}
	assert.Equal(t, 2, cache.ItemCount())

	_, ok := cache.Get(NewCacheKey(testRequest(3)))
	assert.False(t, ok)
}

// TestResultCacheClear tests that Clear resets entries and stats
func TestResultCacheClear(t *testing.T) {
	cache := NewResultCache(time.Hour, 10)
	key := NewCacheKey(testRequest(1))
	cache.Set(key, models.SimulationResult{})
	cache.Get(key)

	cache.Clear()
	assert.Zero(t, cache.ItemCount())
	hits, misses, _ := cache.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
