package models

// GoalInput is the goal-calculator form state, persisted as JSON.
type GoalInput struct {
	AccountSize     float64 `json:"accountSize" validate:"finite,gt=0"`
	ProfitTarget    float64 `json:"profitTarget" validate:"finite,gte=1,lte=100"`
	PassDays        int     `json:"passDays" validate:"gte=1,lte=60"`
	WinRate         float64 `json:"winRate" validate:"finite,gte=1,lte=99"`
	RiskRewardRatio float64 `json:"riskRewardRatio" validate:"finite,gt=0"`
	TradesPerDay    int     `json:"tradesPerDay" validate:"gte=1,lte=10"`
	IsAccelerated   bool    `json:"isAccelerated"`
}

// DefaultGoalInput returns the goal-calculator defaults.
func DefaultGoalInput() GoalInput {
	return GoalInput{
		AccountSize:     10000,
		ProfitTarget:    8,
		PassDays:        30,
		WinRate:         50,
		RiskRewardRatio: 2,
		TradesPerDay:    2,
	}
}

// Validate checks every field against its documented range.
func (g GoalInput) Validate() error {
	return validateStruct(g)
}

// RiskLevel labels how aggressive the required risk per trade is.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
)

// GoalPlan is the goal calculator's output.
type GoalPlan struct {
	TotalTrades          int       `json:"totalTrades"`
	EdgePerUnitRisk      float64   `json:"edgePerUnitRisk"`
	RequiredRiskPerTrade float64   `json:"requiredRiskPerTrade"`
	DailyTargetAmount    float64   `json:"dailyTargetAmount"`
	DailyTargetPercent   float64   `json:"dailyTargetPercent"`
	PassProbability      float64   `json:"passProbability"`
	RiskLevel            RiskLevel `json:"riskLevel"`
}
