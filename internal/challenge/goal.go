package challenge

import (
	"math"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

const (
	goalBaseProbability   = 50.0
	goalEdgeWeight        = 40.0
	goalRiskWeight        = 10.0
	goalAcceleratedCost   = 10.0
	goalMinProbability    = 1.0
	goalMaxProbability    = 99.0
	lowRiskThreshold      = 1.0
	moderateRiskThreshold = 2.0
)

// PlanGoal works backwards from the profit target to the risk per trade the
// trader would need. Its pass probability is a separate heuristic from
// ComputeMetrics and the two are not expected to agree.
func PlanGoal(input models.GoalInput) (models.GoalPlan, error) {
	if err := input.Validate(); err != nil {
		return models.GoalPlan{}, err
	}

	wr := input.WinRate / 100
	edge := wr*input.RiskRewardRatio - (1 - wr)
	if edge <= 0 {
		return models.GoalPlan{}, models.ErrUnreachableTarget
	}

	totalTrades := input.PassDays * input.TradesPerDay
	requiredRisk := input.ProfitTarget / (float64(totalTrades) * edge)
	dailyAmount, dailyPercent := dailyTarget(input.AccountSize, input.ProfitTarget, input.PassDays)

	p := goalBaseProbability + goalEdgeWeight*edge - goalRiskWeight*requiredRisk
	if input.IsAccelerated {
		p -= goalAcceleratedCost
	}
	p = math.Max(goalMinProbability, math.Min(goalMaxProbability, p))

	return models.GoalPlan{
		TotalTrades:          totalTrades,
		EdgePerUnitRisk:      edge,
		RequiredRiskPerTrade: requiredRisk,
		DailyTargetAmount:    dailyAmount,
		DailyTargetPercent:   dailyPercent,
		PassProbability:      p,
		RiskLevel:            riskLevelFor(requiredRisk),
	}, nil
}

func riskLevelFor(risk float64) models.RiskLevel {
	switch {
	case risk <= lowRiskThreshold:
		return models.RiskLevelLow
	case risk <= moderateRiskThreshold:
		return models.RiskLevelModerate
	default:
		return models.RiskLevelHigh
	}
}
