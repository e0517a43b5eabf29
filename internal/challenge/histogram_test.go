package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

func TestDrawdownDistribution(t *testing.T) {
	outcomes := []models.TrialOutcome{
		{MaxDrawdown: 0.5},
		{MaxDrawdown: 0.99},
		{MaxDrawdown: 3},
		{MaxDrawdown: 10},
	}
	dist := DrawdownDistribution(outcomes)
	assert.Len(t, dist, 6)

	assert.Equal(t, "0-1%", dist[0].Label)
	assert.Equal(t, 2, dist[0].Count)
	assert.Equal(t, 50.0, dist[0].Percentage)
	assert.Equal(t, 0, dist[2].Count)
	assert.Equal(t, 1, dist[3].Count)
	assert.Equal(t, 25.0, dist[3].Percentage)
	assert.Equal(t, "8%+", dist[5].Label)
	assert.Equal(t, 25.0, dist[5].Percentage)
}

func TestDrawdownBucketBoundaries(t *testing.T) {
	dist := DrawdownDistribution([]models.TrialOutcome{{MaxDrawdown: 1}, {MaxDrawdown: 5}, {MaxDrawdown: 8}})
	assert.Equal(t, 1, dist[1].Count)
	assert.Equal(t, 1, dist[4].Count)
	assert.Equal(t, 1, dist[5].Count)
}

func TestDaysToTargetDistributionSuccessOnly(t *testing.T) {
	outcomes := []models.TrialOutcome{
		{Success: true, DaysToTarget: 3},
		{Success: true, DaysToTarget: 4},
		{Success: true, DaysToTarget: 21},
		{Success: false, DaysToTarget: 30},
	}
	dist := DaysToTargetDistribution(outcomes)
	assert.Equal(t, []string{"1-3", "4-6", "7-10", "11-15", "16-20", "20+"}, labels(dist))
	assert.Equal(t, 1, dist[0].Count)
	assert.InDelta(t, 100.0/3, dist[0].Percentage, 1e-9)
	assert.Equal(t, 1, dist[1].Count)
	assert.Equal(t, 0, dist[4].Count)
	assert.Equal(t, 1, dist[5].Count)
}

func TestHistogramEmpty(t *testing.T) {
	dist := histogram(nil, daysBuckets, 0)
	assert.Len(t, dist, len(daysBuckets))
	for _, b := range dist {
		assert.Equal(t, 0.0, b.Percentage)
	}
}

func labels(buckets []models.DistributionBucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Label
	}
	return out
}
