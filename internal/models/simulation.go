package models

import (
	"time"

	"github.com/google/uuid"
)

// Allowed Monte Carlo trial counts.
var AllowedTrials = []int{100, 1000, 5000, 10000}

// ValidTrials reports whether n is one of the supported trial counts.
func ValidTrials(n int) bool {
	for _, t := range AllowedTrials {
		if n == t {
			return true
		}
	}
	return false
}

// DistributionBucket is one labelled histogram bar.
type DistributionBucket struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SimulationResult aggregates N independent challenge trials.
type SimulationResult struct {
	RunID                    uuid.UUID            `json:"runId"`
	Trials                   int                  `json:"trials"`
	Successes                int                  `json:"successes"`
	SuccessRate              float64              `json:"successRate"`
	MaxDrawdown              float64              `json:"maxDrawdown"`
	AverageDrawdown          float64              `json:"averageDrawdown"`
	AverageDaysToTarget      float64              `json:"averageDaysToTarget"`
	DrawdownDistribution     []DistributionBucket `json:"drawdownDistribution"`
	DaysToTargetDistribution []DistributionBucket `json:"daysToTargetDistribution"`
	Seed                     int64                `json:"seed"`
	Duration                 time.Duration        `json:"durationNs"`
}

// TrialOutcome is the result of one simulated challenge.
type TrialOutcome struct {
	Success      bool    `json:"success"`
	MaxDrawdown  float64 `json:"maxDrawdown"`
	DaysToTarget int     `json:"daysToTarget"`
}

// SimulationRequest bundles everything needed to start a run.
type SimulationRequest struct {
	Profile TraderProfile `json:"profile"`
	Style   RiskStyle     `json:"style"`
	Trials  int           `json:"trials"`
	Seed    int64         `json:"seed"`
}

// Validate checks the profile, style and trial count.
func (r SimulationRequest) Validate() error {
	if err := r.Profile.Validate(); err != nil {
		return err
	}
	if !r.Style.Valid() {
		return &ValidationError{Field: "style", Reason: "must be one of conservative, balanced, aggressive"}
	}
	if !ValidTrials(r.Trials) {
		return ErrInvalidTrials
	}
	return nil
}

// RunRecord is the persisted summary of a completed simulation run.
type RunRecord struct {
	RunID               uuid.UUID `json:"runId"`
	Style               RiskStyle `json:"style"`
	Trials              int       `json:"trials"`
	Seed                int64     `json:"seed"`
	WinRate             float64   `json:"winRate"`
	RiskRewardRatio     float64   `json:"riskRewardRatio"`
	RiskPerTrade        float64   `json:"riskPerTrade"`
	ProfitTarget        float64   `json:"profitTarget"`
	PassDays            int       `json:"passDays"`
	TradesPerDay        int       `json:"tradesPerDay"`
	SuccessRate         float64   `json:"successRate"`
	MaxDrawdown         float64   `json:"maxDrawdown"`
	AverageDrawdown     float64   `json:"averageDrawdown"`
	AverageDaysToTarget float64   `json:"averageDaysToTarget"`
	DurationMs          int64     `json:"durationMs"`
	CreatedAt           time.Time `json:"createdAt"`
}

// NewRunRecord flattens a request and its result into a history record.
func NewRunRecord(req SimulationRequest, res SimulationResult, createdAt time.Time) RunRecord {
	return RunRecord{
		RunID:               res.RunID,
		Style:               req.Style,
		Trials:              res.Trials,
		Seed:                res.Seed,
		WinRate:             req.Profile.WinRate,
		RiskRewardRatio:     req.Profile.RiskRewardRatio,
		RiskPerTrade:        req.Profile.RiskPerTrade,
		ProfitTarget:        req.Profile.ProfitTarget,
		PassDays:            req.Profile.PassDays,
		TradesPerDay:        req.Profile.TradesPerDay,
		SuccessRate:         res.SuccessRate,
		MaxDrawdown:         res.MaxDrawdown,
		AverageDrawdown:     res.AverageDrawdown,
		AverageDaysToTarget: res.AverageDaysToTarget,
		DurationMs:          res.Duration.Milliseconds(),
		CreatedAt:           createdAt,
	}
}
