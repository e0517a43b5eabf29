package challenge

import (
	"math"
	"math/rand"
	"time"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

const (
	maxPassProbability         = 98.0
	acceleratedPenalty         = 15.0
	acceleratedPassProbability = 30.0
)

// ComputeMetrics derives the closed-form strategy metrics for a profile and
// style. rng only drives the illustrative equity curve; a nil rng is seeded
// from the clock.
func ComputeMetrics(profile models.TraderProfile, style models.RiskStyle, rng *rand.Rand) (models.StrategyMetrics, error) {
	if err := profile.Validate(); err != nil {
		return models.StrategyMetrics{}, err
	}
	if !style.Valid() {
		return models.StrategyMetrics{}, &models.ValidationError{Field: "riskStyle", Reason: "must be one of conservative, balanced, aggressive"}
	}

	ev := ExpectedValuePerTrade(profile)
	if ev <= 0 || math.IsNaN(ev) || math.IsInf(ev, 0) {
		return models.StrategyMetrics{}, models.ErrUnreachableTarget
	}

	tradesNeeded := profile.ProfitTarget / ev
	dailyAmount, dailyPercent := dailyTarget(profile.AccountSize, profile.ProfitTarget, profile.PassDays)
	drawdownRisk := profile.RiskPerTrade * math.Sqrt(tradesNeeded) / 10 * style.DrawdownMultiplier()

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return models.StrategyMetrics{
		ExpectedValuePerTrade: ev,
		TradesNeeded:          tradesNeeded,
		DailyTargetAmount:     dailyAmount,
		DailyTargetPercent:    dailyPercent,
		DrawdownRisk:          drawdownRisk,
		PassProbability:       passProbability(drawdownRisk, profile.IsAccelerated),
		EquityCurveData:       GenerateEquityCurves(rng, profile, style),
	}, nil
}

// ExpectedValuePerTrade returns the edge of one trade in percent of the account.
func ExpectedValuePerTrade(profile models.TraderProfile) float64 {
	wr := profile.WinRate / 100
	return wr*profile.RiskRewardRatio*profile.RiskPerTrade - (1-wr)*profile.RiskPerTrade
}

func dailyTarget(accountSize, profitTarget float64, passDays int) (float64, float64) {
	amount := profitTarget / 100 * accountSize / float64(passDays)
	return amount, amount / accountSize * 100
}

func passProbability(drawdownRisk float64, accelerated bool) float64 {
	p := math.Min(maxPassProbability, 100-drawdownRisk*2)
	if p < 0 {
		p = 0
	}
	if accelerated {
		p = math.Max(acceleratedPassProbability, p-acceleratedPenalty)
	}
	return p
}
