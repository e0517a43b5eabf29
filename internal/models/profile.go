package models

import (
	"fmt"
	"strings"
)

// TraderProfile holds the trader parameters collected by the blueprint form.
// Percentages are expressed in percent units (55 means 55%).
type TraderProfile struct {
	AccountSize     float64 `json:"accountSize" validate:"finite,gt=0"`
	ProfitTarget    float64 `json:"profitTarget" validate:"finite,gte=1,lte=100"`
	PassDays        int     `json:"passDays" validate:"gte=1,lte=60"`
	WinRate         float64 `json:"winRate" validate:"finite,gte=1,lte=99"`
	RiskRewardRatio float64 `json:"riskRewardRatio" validate:"finite,gt=0"`
	RiskPerTrade    float64 `json:"riskPerTrade" validate:"finite,gte=0.1,lte=5"`
	TradesPerDay    int     `json:"tradesPerDay" validate:"gte=1,lte=10"`
	IsAccelerated   bool    `json:"isAccelerated"`
}

// DefaultTraderProfile returns the profile used when nothing has been stored yet.
func DefaultTraderProfile() TraderProfile {
	return TraderProfile{
		AccountSize:     10000,
		ProfitTarget:    10,
		PassDays:        30,
		WinRate:         55,
		RiskRewardRatio: 2,
		RiskPerTrade:    1,
		TradesPerDay:    3,
	}
}

// Validate checks every field against its documented range.
func (p TraderProfile) Validate() error {
	return validateStruct(p)
}

// WithRiskStyle returns a copy of the profile carrying the style's preset risk per trade.
func (p TraderProfile) WithRiskStyle(style RiskStyle) TraderProfile {
	p.RiskPerTrade = style.PresetRiskPerTrade()
	return p
}

// TargetEquity is the equity level, in percent of the starting balance, that passes the challenge.
func (p TraderProfile) TargetEquity() float64 {
	return 100 + p.ProfitTarget
}

// RiskStyle selects the risk-per-trade preset and the multipliers applied to
// drawdown and volatility estimates.
type RiskStyle string

const (
	RiskStyleConservative RiskStyle = "conservative"
	RiskStyleBalanced     RiskStyle = "balanced"
	RiskStyleAggressive   RiskStyle = "aggressive"
)

// DefaultRiskStyle is used when no style has been persisted.
const DefaultRiskStyle = RiskStyleBalanced

type styleParams struct {
	presetRisk         float64
	drawdownMultiplier float64
	curveVolatility    float64
	simRiskMultiplier  float64
	simVolMultiplier   float64
}

var riskStyles = map[RiskStyle]styleParams{
	RiskStyleConservative: {presetRisk: 0.5, drawdownMultiplier: 1.2, curveVolatility: 0.5, simRiskMultiplier: 0.7, simVolMultiplier: 0.8},
	RiskStyleBalanced:     {presetRisk: 1.0, drawdownMultiplier: 1.0, curveVolatility: 0.8, simRiskMultiplier: 1.0, simVolMultiplier: 1.0},
	RiskStyleAggressive:   {presetRisk: 2.0, drawdownMultiplier: 0.8, curveVolatility: 1.2, simRiskMultiplier: 1.3, simVolMultiplier: 1.3},
}

// RiskStyles lists the supported styles in display order.
func RiskStyles() []RiskStyle {
	return []RiskStyle{RiskStyleConservative, RiskStyleBalanced, RiskStyleAggressive}
}

// ParseRiskStyle parses a style name case-insensitively.
func ParseRiskStyle(s string) (RiskStyle, error) {
	style := RiskStyle(strings.ToLower(strings.TrimSpace(s)))
	if !style.Valid() {
		return "", &ValidationError{Field: "riskStyle", Reason: fmt.Sprintf("unknown risk style %q", s)}
	}
	return style, nil
}

// Valid reports whether the style is one of the known presets.
func (s RiskStyle) Valid() bool {
	_, ok := riskStyles[s]
	return ok
}

func (s RiskStyle) params() styleParams {
	if p, ok := riskStyles[s]; ok {
		return p
	}
	return riskStyles[DefaultRiskStyle]
}

// PresetRiskPerTrade returns the style's risk per trade in percent.
func (s RiskStyle) PresetRiskPerTrade() float64 { return s.params().presetRisk }

// DrawdownMultiplier scales the deterministic drawdown estimate.
func (s RiskStyle) DrawdownMultiplier() float64 { return s.params().drawdownMultiplier }

// CurveVolatility scales the perturbation of the illustrative equity curve.
func (s RiskStyle) CurveVolatility() float64 { return s.params().curveVolatility }

// SimulationRiskMultiplier scales the per-trade risk in the Monte Carlo engine.
func (s RiskStyle) SimulationRiskMultiplier() float64 { return s.params().simRiskMultiplier }

// SimulationVolatilityMultiplier scales the per-trade outcome noise in the Monte Carlo engine.
func (s RiskStyle) SimulationVolatilityMultiplier() float64 { return s.params().simVolMultiplier }

// String returns the style name.
func (s RiskStyle) String() string {
	return string(s)
}
