package calculators

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

// MaxCompoundPeriods bounds the schedule length.
const MaxCompoundPeriods = 600

// CompoundInput describes a compounding plan. RatePercent applies per period;
// Contribution is added at the end of each period after interest.
type CompoundInput struct {
	Principal    float64 `json:"principal"`
	RatePercent  float64 `json:"ratePercent"`
	Periods      int     `json:"periods"`
	Contribution float64 `json:"contribution"`
}

// CompoundPeriod is one row of the schedule.
type CompoundPeriod struct {
	Period       int             `json:"period"`
	StartBalance decimal.Decimal `json:"startBalance"`
	Interest     decimal.Decimal `json:"interest"`
	Contribution decimal.Decimal `json:"contribution"`
	EndBalance   decimal.Decimal `json:"endBalance"`
}

// CompoundResult is the full schedule plus totals.
type CompoundResult struct {
	Schedule           []CompoundPeriod `json:"schedule"`
	FinalBalance       decimal.Decimal  `json:"finalBalance"`
	TotalInterest      decimal.Decimal  `json:"totalInterest"`
	TotalContributions decimal.Decimal  `json:"totalContributions"`
	GrowthPercent      decimal.Decimal  `json:"growthPercent"`
}

// CompoundInterest builds the period-by-period schedule. Balances are kept
// at full precision and rounded to cents for display.
func CompoundInterest(in CompoundInput) (CompoundResult, error) {
	switch {
	case in.Principal < 0 || !finite(in.Principal):
		return CompoundResult{}, &models.ValidationError{Field: "principal", Reason: "must not be negative"}
	case in.RatePercent <= -100 || !finite(in.RatePercent):
		return CompoundResult{}, &models.ValidationError{Field: "ratePercent", Reason: "must be greater than -100"}
	case in.Periods < 1 || in.Periods > MaxCompoundPeriods:
		return CompoundResult{}, &models.ValidationError{Field: "periods", Reason: "must be between 1 and 600"}
	case in.Contribution < 0 || !finite(in.Contribution):
		return CompoundResult{}, &models.ValidationError{Field: "contribution", Reason: "must not be negative"}
	}

	rate := decimal.NewFromFloat(in.RatePercent).Div(hundred)
	contribution := decimal.NewFromFloat(in.Contribution)
	principal := decimal.NewFromFloat(in.Principal)

	balance := principal
	totalInterest := decimal.Zero
	schedule := make([]CompoundPeriod, 0, in.Periods)
	for p := 1; p <= in.Periods; p++ {
		interest := balance.Mul(rate)
		end := balance.Add(interest).Add(contribution)
		schedule = append(schedule, CompoundPeriod{
			Period:       p,
			StartBalance: balance.Round(2),
			Interest:     interest.Round(2),
			Contribution: contribution.Round(2),
			EndBalance:   end.Round(2),
		})
		totalInterest = totalInterest.Add(interest)
		balance = end
	}

	totalContrib := contribution.Mul(decimal.NewFromInt(int64(in.Periods)))
	growth := decimal.Zero
	if invested := principal.Add(totalContrib); invested.IsPositive() {
		growth = balance.Sub(invested).Div(invested).Mul(hundred)
	}
	return CompoundResult{
		Schedule:           schedule,
		FinalBalance:       balance.Round(2),
		TotalInterest:      totalInterest.Round(2),
		TotalContributions: totalContrib.Round(2),
		GrowthPercent:      growth.Round(2),
	}, nil
}
