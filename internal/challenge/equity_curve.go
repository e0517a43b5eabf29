package challenge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

const (
	curvePoints    = 20
	curveAmplitude = 1.5
	curveFloor     = 95.0
	bestBias       = 0.35
	worstBias      = -0.35
)

// EquityCurve is a day-indexed series of equity samples in percent of the
// starting balance.
type EquityCurve []models.EquityPoint

// GenerateEquityCurves samples the best, average and worst illustrative bands.
// The bands share cadence and endpoints and differ only in perturbation bias.
func GenerateEquityCurves(rng *rand.Rand, profile models.TraderProfile, style models.RiskStyle) models.EquityCurveData {
	return models.EquityCurveData{
		Best:    sampleCurve(rng, profile, style, bestBias),
		Average: sampleCurve(rng, profile, style, 0),
		Worst:   sampleCurve(rng, profile, style, worstBias),
	}
}

// sampleDays returns 0, step, 2*step, ... and always ends on passDays.
func sampleDays(passDays int) []int {
	step := passDays / curvePoints
	if step < 1 {
		step = 1
	}
	days := make([]int, 0, passDays/step+2)
	for d := 0; d < passDays; d += step {
		days = append(days, d)
	}
	return append(days, passDays)
}

func sampleCurve(rng *rand.Rand, profile models.TraderProfile, style models.RiskStyle, bias float64) []models.EquityPoint {
	days := sampleDays(profile.PassDays)
	dailyGain := profile.ProfitTarget / float64(profile.PassDays)
	volatility := style.CurveVolatility()

	points := make([]models.EquityPoint, len(days))
	points[0] = models.EquityPoint{Day: 0, Equity: 100}
	equity := 100.0
	for i := 1; i < len(days); i++ {
		step := float64(days[i] - days[i-1])
		equity += dailyGain*step + (rng.Float64()-0.5+bias)*volatility*curveAmplitude
		if equity < curveFloor {
			equity = curveFloor
		}
		points[i] = models.EquityPoint{Day: days[i], Equity: equity}
	}
	points[len(points)-1].Equity = profile.TargetEquity()
	return points
}

// Band names accepted by Band.
const (
	BandBest    = "best"
	BandAverage = "average"
	BandWorst   = "worst"
)

// Band returns the named illustrative band of data.
func Band(data models.EquityCurveData, name string) (EquityCurve, error) {
	switch name {
	case BandBest:
		return EquityCurve(data.Best), nil
	case BandAverage, "":
		return EquityCurve(data.Average), nil
	case BandWorst:
		return EquityCurve(data.Worst), nil
	default:
		return nil, &models.ValidationError{Field: "band", Reason: "must be one of best, average, worst"}
	}
}

// MaxDrawdown returns the largest peak-to-trough decline in percent of the running peak.
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	peak := 0.0
	for _, p := range e {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak == 0 {
			continue
		}
		if dd := (peak - p.Equity) / peak * 100; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// ToCSV exports the curve for spreadsheets.
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("day,equity\n")
	for _, point := range e {
		buf.WriteString(strconv.Itoa(point.Day))
		buf.WriteString(",")
		buf.WriteString(strconv.FormatFloat(point.Equity, 'f', 4, 64))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the curve as chart-ready JSON.
func (e EquityCurve) ToJSON() ([]byte, error) {
	if e == nil {
		e = EquityCurve{}
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal equity curve: %w", err)
	}
	return data, nil
}
