package challenge

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

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

func TestComputeMetricsScenario(t *testing.T) {
	m, err := ComputeMetrics(scenarioProfile(), models.RiskStyleBalanced, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.InDelta(t, 0.5, m.ExpectedValuePerTrade, 1e-9)
	assert.InDelta(t, 20, m.TradesNeeded, 1e-9)
	assert.InDelta(t, 71.4286, m.DailyTargetAmount, 1e-3)
	assert.InDelta(t, 0.714286, m.DailyTargetPercent, 1e-5)
	assert.InDelta(t, math.Sqrt(20)/10, m.DrawdownRisk, 1e-9)
	assert.Equal(t, 98.0, m.PassProbability)
}

func TestComputeMetricsTradesNeededMatchesEdge(t *testing.T) {
	for _, style := range models.RiskStyles() {
		for _, wr := range []float64{40, 55, 70, 90} {
			p := scenarioProfile()
			p.WinRate = wr
			p.RiskRewardRatio = 2
			m, err := ComputeMetrics(p, style, rand.New(rand.NewSource(7)))
			require.NoError(t, err)
			assert.Greater(t, m.TradesNeeded, 0.0)
			assert.False(t, math.IsInf(m.TradesNeeded, 0))
			assert.InDelta(t, p.ProfitTarget/ExpectedValuePerTrade(p), m.TradesNeeded, 1e-9)
		}
	}
}

func TestComputeMetricsUnreachableTarget(t *testing.T) {
	p := scenarioProfile()
	p.WinRate = 40 // 0.4*1.5 - 0.6 == 0
	_, err := ComputeMetrics(p, models.RiskStyleBalanced, nil)
	assert.ErrorIs(t, err, models.ErrUnreachableTarget)

	p.WinRate = 20
	_, err = ComputeMetrics(p, models.RiskStyleBalanced, nil)
	assert.ErrorIs(t, err, models.ErrUnreachableTarget)

	status, _ := models.ClassifyError(err)
	assert.Equal(t, models.StatusUnreachable, status)
}

func TestComputeMetricsInvalidInput(t *testing.T) {
	p := scenarioProfile()
	p.PassDays = 0
	_, err := ComputeMetrics(p, models.RiskStyleBalanced, nil)
	status, field := models.ClassifyError(err)
	assert.Equal(t, models.StatusInvalidInput, status)
	assert.Equal(t, "passDays", field)

	_, err = ComputeMetrics(scenarioProfile(), models.RiskStyle("yolo"), nil)
	_, field = models.ClassifyError(err)
	assert.Equal(t, "riskStyle", field)
}

func TestComputeMetricsIdempotent(t *testing.T) {
	p := scenarioProfile()
	a, err := ComputeMetrics(p, models.RiskStyleAggressive, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	b, err := ComputeMetrics(p, models.RiskStyleAggressive, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	assert.Equal(t, a.TradesNeeded, b.TradesNeeded)
	assert.Equal(t, a.DailyTargetAmount, b.DailyTargetAmount)
	assert.Equal(t, a.DrawdownRisk, b.DrawdownRisk)
	assert.Equal(t, a.PassProbability, b.PassProbability)

	for _, m := range []models.StrategyMetrics{a, b} {
		for _, band := range [][]models.EquityPoint{m.EquityCurveData.Best, m.EquityCurveData.Average, m.EquityCurveData.Worst} {
			require.NotEmpty(t, band)
			assert.Equal(t, models.EquityPoint{Day: 0, Equity: 100}, band[0])
			last := band[len(band)-1]
			assert.Equal(t, p.PassDays, last.Day)
			assert.Equal(t, 110.0, last.Equity)
		}
	}
}

func TestPassProbabilityBounds(t *testing.T) {
	for _, risk := range []float64{0.1, 1, 2.5, 5} {
		for _, accelerated := range []bool{false, true} {
			for _, wr := range []float64{41, 50, 99} {
				p := scenarioProfile()
				p.RiskPerTrade = risk
				p.WinRate = wr
				p.IsAccelerated = accelerated
				m, err := ComputeMetrics(p, models.RiskStyleConservative, rand.New(rand.NewSource(3)))
				require.NoError(t, err)
				assert.False(t, math.IsNaN(m.DrawdownRisk))
				assert.False(t, math.IsNaN(m.PassProbability))
				assert.GreaterOrEqual(t, m.PassProbability, 0.0)
				assert.LessOrEqual(t, m.PassProbability, 100.0)
				if accelerated {
					assert.GreaterOrEqual(t, m.PassProbability, 30.0)
				}
			}
		}
	}
}

func TestPassProbabilityAcceleratedPenalty(t *testing.T) {
	assert.Equal(t, 83.0, passProbability(0, true))
	assert.Equal(t, 30.0, passProbability(40, true))
	assert.Equal(t, 0.0, passProbability(80, false))
	assert.Equal(t, 90.0, passProbability(5, false))
}
