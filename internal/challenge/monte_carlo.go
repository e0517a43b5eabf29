package challenge

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

const (
	// DefaultChunkSize is the number of trials simulated per goroutine.
	DefaultChunkSize = 250
	tradeNoise       = 0.4
	chunkSeedStride  = 1_000_003
)

// SimulationConfig configures a Monte Carlo run
type SimulationConfig struct {
	Trials    int
	Seed      int64
	Workers   int
	ChunkSize int
}

// Simulate runs cfg.Trials independent challenge attempts and aggregates them.
// Trials are split into chunks, each with its own RNG derived from the seed and
// the chunk index, so a fixed non-zero seed always produces the same result.
// A zero seed is replaced with the clock and reported in the result.
func Simulate(ctx context.Context, profile models.TraderProfile, style models.RiskStyle, cfg SimulationConfig) (models.SimulationResult, error) {
	if err := profile.Validate(); err != nil {
		return models.SimulationResult{}, err
	}
	if !style.Valid() {
		return models.SimulationResult{}, &models.ValidationError{Field: "riskStyle", Reason: "must be one of conservative, balanced, aggressive"}
	}
	if !models.ValidTrials(cfg.Trials) {
		return models.SimulationResult{}, models.ErrInvalidTrials
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	outcomes := make([]models.TrialOutcome, cfg.Trials)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for chunk, lo := 0, 0; lo < cfg.Trials; chunk, lo = chunk+1, lo+chunkSize {
		hi := lo + chunkSize
		if hi > cfg.Trials {
			hi = cfg.Trials
		}
		chunkSeed := seed*chunkSeedStride + int64(chunk)
		part := outcomes[lo:hi]
		g.Go(func() error {
			rng := rand.New(rand.NewSource(chunkSeed))
			for i := range part {
				if err := gctx.Err(); err != nil {
					return err
				}
				part[i] = simulateSingleChallenge(rng, profile, style)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.SimulationResult{}, err
	}

	result := aggregate(outcomes)
	result.RunID = uuid.New()
	result.Seed = seed
	result.Duration = time.Since(start)
	return result, nil
}

// simulateSingleChallenge walks one challenge day by day until the target is
// hit or the days run out. Equity is tracked in percent of the starting balance.
func simulateSingleChallenge(rng *rand.Rand, profile models.TraderProfile, style models.RiskStyle) models.TrialOutcome {
	target := profile.TargetEquity()
	winRate := profile.WinRate / 100
	risk := profile.RiskPerTrade * style.SimulationRiskMultiplier()
	volMult := style.SimulationVolatilityMultiplier()

	equity, maxEquity, maxDrawdown := 100.0, 100.0, 0.0
	day := 0
	for equity < target && day < profile.PassDays {
		day++
		trades := rng.Intn(profile.TradesPerDay + 1)
		for t := 0; t < trades; t++ {
			win := rng.Float64() < winRate
			mult := 1 + (rng.Float64()-0.5)*tradeNoise*volMult
			if win {
				equity += risk * profile.RiskRewardRatio * mult
			} else {
				equity -= risk * mult
			}
			if equity > maxEquity {
				maxEquity = equity
			}
			if dd := (maxEquity - equity) / maxEquity * 100; dd > maxDrawdown {
				maxDrawdown = dd
			}
			if equity >= target {
				break
			}
		}
	}

	return models.TrialOutcome{
		Success:      equity >= target,
		MaxDrawdown:  maxDrawdown,
		DaysToTarget: day,
	}
}

func aggregate(outcomes []models.TrialOutcome) models.SimulationResult {
	n := len(outcomes)
	result := models.SimulationResult{Trials: n}
	if n == 0 {
		return result
	}

	drawdownSum, daysSum := 0.0, 0
	for _, o := range outcomes {
		drawdownSum += o.MaxDrawdown
		if o.MaxDrawdown > result.MaxDrawdown {
			result.MaxDrawdown = o.MaxDrawdown
		}
		if o.Success {
			result.Successes++
			daysSum += o.DaysToTarget
		}
	}

	result.SuccessRate = 100 * float64(result.Successes) / float64(n)
	result.AverageDrawdown = drawdownSum / float64(n)
	if result.Successes > 0 {
		result.AverageDaysToTarget = float64(daysSum) / float64(result.Successes)
	}
	result.DrawdownDistribution = DrawdownDistribution(outcomes)
	result.DaysToTargetDistribution = DaysToTargetDistribution(outcomes)
	return result
}
