package calculators

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

// Direction of a trade implied by its stop and target.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// RiskRewardInput is a planned trade. PositionSize is optional and scales
// the per-unit distances into money.
type RiskRewardInput struct {
	Entry        float64 `json:"entry"`
	StopLoss     float64 `json:"stopLoss"`
	TakeProfit   float64 `json:"takeProfit"`
	PositionSize float64 `json:"positionSize"`
}

// RiskRewardResult describes the trade's payoff.
type RiskRewardResult struct {
	Direction        Direction       `json:"direction"`
	RiskPerUnit      decimal.Decimal `json:"riskPerUnit"`
	RewardPerUnit    decimal.Decimal `json:"rewardPerUnit"`
	Ratio            decimal.Decimal `json:"ratio"`
	BreakevenWinRate decimal.Decimal `json:"breakevenWinRate"`
	RiskAmount       decimal.Decimal `json:"riskAmount"`
	RewardAmount     decimal.Decimal `json:"rewardAmount"`
}

// RiskReward derives direction, reward:risk ratio and the win rate at which
// the trade breaks even. The stop and target must sit on opposite sides of entry.
func RiskReward(in RiskRewardInput) (RiskRewardResult, error) {
	switch {
	case !positive(in.Entry):
		return RiskRewardResult{}, &models.ValidationError{Field: "entry", Reason: "must be greater than 0"}
	case !positive(in.StopLoss):
		return RiskRewardResult{}, &models.ValidationError{Field: "stopLoss", Reason: "must be greater than 0"}
	case !positive(in.TakeProfit):
		return RiskRewardResult{}, &models.ValidationError{Field: "takeProfit", Reason: "must be greater than 0"}
	case in.PositionSize < 0 || !finite(in.PositionSize):
		return RiskRewardResult{}, &models.ValidationError{Field: "positionSize", Reason: "must not be negative"}
	}

	var dir Direction
	switch {
	case in.StopLoss < in.Entry && in.TakeProfit > in.Entry:
		dir = DirectionLong
	case in.StopLoss > in.Entry && in.TakeProfit < in.Entry:
		dir = DirectionShort
	default:
		return RiskRewardResult{}, &models.ValidationError{Field: "stopLoss", Reason: "stop loss and take profit must be on opposite sides of entry"}
	}

	entry := decimal.NewFromFloat(in.Entry)
	risk := entry.Sub(decimal.NewFromFloat(in.StopLoss)).Abs()
	reward := decimal.NewFromFloat(in.TakeProfit).Sub(entry).Abs()
	ratio := reward.Div(risk)
	// Breakeven when p·reward = (1−p)·risk, so p = 1/(1+ratio).
	breakeven := hundred.Div(decimal.NewFromInt(1).Add(ratio))

	size := decimal.NewFromFloat(in.PositionSize)
	return RiskRewardResult{
		Direction:        dir,
		RiskPerUnit:      risk,
		RewardPerUnit:    reward,
		Ratio:            ratio.Round(2),
		BreakevenWinRate: breakeven.Round(2),
		RiskAmount:       risk.Mul(size).Round(2),
		RewardAmount:     reward.Mul(size).Round(2),
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}
