// Package calculators holds the ancillary trading calculators. Money values
// are carried as decimals and rounded only at the edges.
package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

// Position sizes in base-currency units.
var (
	standardLotUnits = decimal.NewFromInt(100_000)
	miniLotsPerLot   = decimal.NewFromInt(10)
	microLotsPerLot  = decimal.NewFromInt(100)
	hundred          = decimal.NewFromInt(100)
)

// DefaultPipValue is the value of one pip for one standard lot on a USD-quoted pair.
const DefaultPipValue = 10.0

// LotSizeInput describes a position to size.
type LotSizeInput struct {
	AccountBalance float64 `json:"accountBalance"`
	RiskPercent    float64 `json:"riskPercent"`
	StopLossPips   float64 `json:"stopLossPips"`
	PipValue       float64 `json:"pipValue"` // per standard lot; zero means DefaultPipValue
}

// LotSizeResult is the sized position.
type LotSizeResult struct {
	RiskPercent   decimal.Decimal `json:"riskPercent"`
	RiskAmount    decimal.Decimal `json:"riskAmount"`
	StandardLots  decimal.Decimal `json:"standardLots"`
	MiniLots      decimal.Decimal `json:"miniLots"`
	MicroLots     decimal.Decimal `json:"microLots"`
	Units         decimal.Decimal `json:"units"`
	PipValueTotal decimal.Decimal `json:"pipValueTotal"`
}

func (in LotSizeInput) validate() error {
	switch {
	case !positive(in.AccountBalance):
		return &models.ValidationError{Field: "accountBalance", Reason: "must be greater than 0"}
	case !positive(in.RiskPercent) || in.RiskPercent > 100:
		return &models.ValidationError{Field: "riskPercent", Reason: "must be between 0 and 100"}
	case !positive(in.StopLossPips):
		return &models.ValidationError{Field: "stopLossPips", Reason: "must be greater than 0"}
	case in.PipValue < 0 || !finite(in.PipValue):
		return &models.ValidationError{Field: "pipValue", Reason: "must not be negative"}
	}
	return nil
}

// LotSize sizes a position so that hitting the stop loses RiskPercent of the balance.
// Lots are rounded down to the nearest micro lot so the risk is never exceeded.
func LotSize(in LotSizeInput) (LotSizeResult, error) {
	if err := in.validate(); err != nil {
		return LotSizeResult{}, err
	}
	pipValue := in.PipValue
	if pipValue == 0 {
		pipValue = DefaultPipValue
	}

	balance := decimal.NewFromFloat(in.AccountBalance)
	riskPct := decimal.NewFromFloat(in.RiskPercent)
	riskAmount := balance.Mul(riskPct).Div(hundred)
	perLotRisk := decimal.NewFromFloat(in.StopLossPips).Mul(decimal.NewFromFloat(pipValue))

	lots := riskAmount.Div(perLotRisk).RoundDown(2)
	return LotSizeResult{
		RiskPercent:   riskPct,
		RiskAmount:    riskAmount.Round(2),
		StandardLots:  lots,
		MiniLots:      lots.Mul(miniLotsPerLot),
		MicroLots:     lots.Mul(microLotsPerLot),
		Units:         lots.Mul(standardLotUnits),
		PipValueTotal: lots.Mul(decimal.NewFromFloat(pipValue)).Round(2),
	}, nil
}

// LotSizeRow is one line of a lot-size table.
type LotSizeRow struct {
	Style models.RiskStyle `json:"style"`
	LotSizeResult
}

// LotSizeTable sizes the position at each risk style's preset risk per trade.
func LotSizeTable(accountBalance, stopLossPips, pipValue float64) ([]LotSizeRow, error) {
	rows := make([]LotSizeRow, 0, len(models.RiskStyles()))
	for _, style := range models.RiskStyles() {
		res, err := LotSize(LotSizeInput{
			AccountBalance: accountBalance,
			RiskPercent:    style.PresetRiskPerTrade(),
			StopLossPips:   stopLossPips,
			PipValue:       pipValue,
		})
		if err != nil {
			return nil, err
		}
		rows = append(rows, LotSizeRow{Style: style, LotSizeResult: res})
	}
	return rows, nil
}
