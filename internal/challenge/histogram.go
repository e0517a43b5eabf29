package challenge

import (
	"math"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

// bucket is a half-open range [min, max).
type bucket struct {
	label string
	min   float64
	max   float64
}

var drawdownBuckets = []bucket{
	{label: "0-1%", min: 0, max: 1},
	{label: "1-2%", min: 1, max: 2},
	{label: "2-3%", min: 2, max: 3},
	{label: "3-5%", min: 3, max: 5},
	{label: "5-8%", min: 5, max: 8},
	{label: "8%+", min: 8, max: math.Inf(1)},
}

var daysBuckets = []bucket{
	{label: "1-3", min: 1, max: 4},
	{label: "4-6", min: 4, max: 7},
	{label: "7-10", min: 7, max: 11},
	{label: "11-15", min: 11, max: 16},
	{label: "16-20", min: 16, max: 21},
	{label: "20+", min: 21, max: math.Inf(1)},
}

// histogram counts values into buckets and reports each count as a percentage
// of total. A zero total yields zero percentages.
func histogram(values []float64, buckets []bucket, total int) []models.DistributionBucket {
	out := make([]models.DistributionBucket, len(buckets))
	for i, b := range buckets {
		out[i].Label = b.label
	}
	for _, v := range values {
		for i, b := range buckets {
			if v >= b.min && v < b.max {
				out[i].Count++
				break
			}
		}
	}
	if total > 0 {
		for i := range out {
			out[i].Percentage = float64(out[i].Count) / float64(total) * 100
		}
	}
	return out
}

// DrawdownDistribution buckets per-trial max drawdowns as a share of all trials.
func DrawdownDistribution(outcomes []models.TrialOutcome) []models.DistributionBucket {
	values := make([]float64, len(outcomes))
	for i, o := range outcomes {
		values[i] = o.MaxDrawdown
	}
	return histogram(values, drawdownBuckets, len(outcomes))
}

// DaysToTargetDistribution buckets days-to-target over successful trials only.
func DaysToTargetDistribution(outcomes []models.TrialOutcome) []models.DistributionBucket {
	values := make([]float64, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Success {
			values = append(values, float64(o.DaysToTarget))
		}
	}
	return histogram(values, daysBuckets, len(values))
}
