package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTraderProfileIsValid(t *testing.T) {
	assert.NoError(t, DefaultTraderProfile().Validate())
}

func TestTraderProfileValidateNamesField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TraderProfile)
		field  string
	}{
		{"zero account", func(p *TraderProfile) { p.AccountSize = 0 }, "accountSize"},
		{"target too high", func(p *TraderProfile) { p.ProfitTarget = 150 }, "profitTarget"},
		{"no days", func(p *TraderProfile) { p.PassDays = 0 }, "passDays"},
		{"too many days", func(p *TraderProfile) { p.PassDays = 61 }, "passDays"},
		{"win rate 100", func(p *TraderProfile) { p.WinRate = 100 }, "winRate"},
		{"nan win rate", func(p *TraderProfile) { p.WinRate = math.NaN() }, "winRate"},
		{"infinite reward ratio", func(p *TraderProfile) { p.RiskRewardRatio = math.Inf(1) }, "riskRewardRatio"},
		{"risk below minimum", func(p *TraderProfile) { p.RiskPerTrade = 0.05 }, "riskPerTrade"},
		{"risk above maximum", func(p *TraderProfile) { p.RiskPerTrade = 5.5 }, "riskPerTrade"},
		{"no trades", func(p *TraderProfile) { p.TradesPerDay = 0 }, "tradesPerDay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultTraderProfile()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Reason)
		})
	}
}

func TestTraderProfileRiskBoundsAccepted(t *testing.T) {
	p := DefaultTraderProfile()
	p.RiskPerTrade = 0.1
	assert.NoError(t, p.Validate())
	p.RiskPerTrade = 5
	assert.NoError(t, p.Validate())
}

func TestWithRiskStyleAppliesPreset(t *testing.T) {
	p := DefaultTraderProfile()
	assert.Equal(t, 0.5, p.WithRiskStyle(RiskStyleConservative).RiskPerTrade)
	assert.Equal(t, 1.0, p.WithRiskStyle(RiskStyleBalanced).RiskPerTrade)
	assert.Equal(t, 2.0, p.WithRiskStyle(RiskStyleAggressive).RiskPerTrade)
	assert.Equal(t, 1.0, p.RiskPerTrade, "original profile must not change")
}

func TestParseRiskStyle(t *testing.T) {
	style, err := ParseRiskStyle(" Aggressive ")
	require.NoError(t, err)
	assert.Equal(t, RiskStyleAggressive, style)

	_, err = ParseRiskStyle("reckless")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "riskStyle", verr.Field)
}

func TestRiskStyleMultipliers(t *testing.T) {
	assert.Equal(t, 1.2, RiskStyleConservative.DrawdownMultiplier())
	assert.Equal(t, 0.8, RiskStyleAggressive.DrawdownMultiplier())
	assert.Equal(t, 0.7, RiskStyleConservative.SimulationRiskMultiplier())
	assert.Equal(t, 1.3, RiskStyleAggressive.SimulationVolatilityMultiplier())
	assert.Equal(t, 0.8, RiskStyleBalanced.CurveVolatility())
	// unknown styles fall back to balanced
	assert.Equal(t, 1.0, RiskStyle("x").DrawdownMultiplier())
}

func TestClassifyError(t *testing.T) {
	status, field := ClassifyError(nil)
	assert.Equal(t, StatusOK, status)
	assert.Empty(t, field)

	status, _ = ClassifyError(ErrUnreachableTarget)
	assert.Equal(t, StatusUnreachable, status)

	status, field = ClassifyError(&ValidationError{Field: "winRate", Reason: "bad"})
	assert.Equal(t, StatusInvalidInput, status)
	assert.Equal(t, "winRate", field)
}

func TestSimulationRequestValidate(t *testing.T) {
	req := SimulationRequest{Profile: DefaultTraderProfile(), Style: RiskStyleBalanced, Trials: 1000}
	assert.NoError(t, req.Validate())

	req.Trials = 0
	assert.ErrorIs(t, req.Validate(), ErrInvalidTrials)

	req.Trials = 250
	assert.ErrorIs(t, req.Validate(), ErrInvalidTrials)

	req.Trials = 100
	req.Style = "wild"
	var verr *ValidationError
	assert.True(t, errors.As(req.Validate(), &verr))
}

func TestCalendarPreferencesValidate(t *testing.T) {
	prefs := DefaultCalendarPreferences()
	assert.NoError(t, prefs.Validate())

	prefs.MinImpact = "extreme"
	var verr *ValidationError
	require.True(t, errors.As(prefs.Validate(), &verr))
	assert.Equal(t, "minImpact", verr.Field)

	prefs = DefaultCalendarPreferences()
	prefs.TimeZone = "Mars/Olympus"
	assert.Error(t, prefs.Validate())
}

func TestImpactRank(t *testing.T) {
	assert.Greater(t, ImpactHigh.Rank(), ImpactMedium.Rank())
	assert.Greater(t, ImpactMedium.Rank(), ImpactLow.Rank())
	assert.Equal(t, 3, Impact("HIGH").Rank())
	assert.Equal(t, 0, Impact("none").Rank())
}
