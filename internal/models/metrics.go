package models

// EquityPoint is one (day, equity) sample of an illustrative equity curve.
// Equity is expressed in percent of the starting balance.
type EquityPoint struct {
	Day    int     `json:"day"`
	Equity float64 `json:"equity"`
}

// EquityCurveData carries the three illustrative bands drawn by the chart.
type EquityCurveData struct {
	Best    []EquityPoint `json:"best"`
	Average []EquityPoint `json:"average"`
	Worst   []EquityPoint `json:"worst"`
}

// StrategyMetrics is derived from a TraderProfile and RiskStyle and is always
// replaced wholesale, never updated in place.
type StrategyMetrics struct {
	ExpectedValuePerTrade float64         `json:"expectedValuePerTrade"`
	TradesNeeded          float64         `json:"tradesNeeded"`
	DailyTargetAmount     float64         `json:"dailyTargetAmount"`
	DailyTargetPercent    float64         `json:"dailyTargetPercent"`
	DrawdownRisk          float64         `json:"drawdownRisk"`
	PassProbability       float64         `json:"passProbability"`
	EquityCurveData       EquityCurveData `json:"equityCurveData"`
}
