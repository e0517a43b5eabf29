package service

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/challenge-blueprint/internal/logger"
	"github.com/yourusername/challenge-blueprint/internal/metrics"
	"github.com/yourusername/challenge-blueprint/internal/models"
)

var (
	// ErrRateLimited is returned when submissions arrive faster than the limiter allows.
	ErrRateLimited = errors.New("simulation submissions are rate limited, try again shortly")
	// ErrRunnerClosed is returned by Submit after Close.
	ErrRunnerClosed = errors.New("simulation runner is closed")
)

// Simulator runs one simulation request.
type Simulator interface {
	Simulate(ctx context.Context, req models.SimulationRequest) (models.SimulationResult, error)
}

// Outcome is what a finished run delivers.
type Outcome struct {
	Generation uint64
	Request    models.SimulationRequest
	Result     models.SimulationResult
	Err        error
}

// SimulationRunner runs simulations in the background. Each submission
// cancels the run before it; a run's outcome is delivered only if no newer
// submission has arrived by the time it finishes.
type SimulationRunner struct {
	sim     Simulator
	limiter *rate.Limiter
	deliver func(Outcome)
	log     *logger.SimulationLogger

	base       context.Context
	cancelBase context.CancelFunc

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	closed     bool

	// deliverMu orders deliveries so an older outcome that passed its
	// generation check cannot land after a newer one.
	deliverMu sync.Mutex
	wg        sync.WaitGroup
}

// NewSimulationRunner creates a runner. A nil limiter allows every submission.
func NewSimulationRunner(sim Simulator, limiter *rate.Limiter, deliver func(Outcome), log *logrus.Logger) *SimulationRunner {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	if log == nil {
		log = logger.Discard()
	}
	base, cancel := context.WithCancel(context.Background())
	return &SimulationRunner{
		sim:        sim,
		limiter:    limiter,
		deliver:    deliver,
		log:        logger.NewSimulationLogger(log),
		base:       base,
		cancelBase: cancel,
	}
}

// Submit supersedes any in-flight run with req and returns the new generation.
func (r *SimulationRunner) Submit(req models.SimulationRequest) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrRunnerClosed
	}
	if !r.limiter.Allow() {
		return 0, ErrRateLimited
	}

	if r.cancel != nil {
		r.cancel()
	}
	r.generation++
	gen := r.generation
	ctx, cancel := context.WithCancel(r.base)
	r.cancel = cancel

	r.log.LogRunStarted(gen, req.Style.String(), req.Trials, req.Seed)
	r.wg.Add(1)
	go r.run(ctx, cancel, gen, req)
	return gen, nil
}

func (r *SimulationRunner) run(ctx context.Context, cancel context.CancelFunc, gen uint64, req models.SimulationRequest) {
	defer r.wg.Done()
	defer cancel()

	res, err := r.sim.Simulate(ctx, req)

	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()

	if current := r.Generation(); gen != current {
		metrics.RecordSuperseded()
		r.log.LogRunSuperseded(gen, current)
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled by Close.
			return
		}
		r.log.LogRunFailed(gen, err)
	} else {
		r.log.LogRunCompleted(res.RunID.String(), gen, res.Trials, res.SuccessRate, res.MaxDrawdown, res.Duration)
	}
	if r.deliver != nil {
		r.deliver(Outcome{Generation: gen, Request: req, Result: res, Err: err})
	}
}

// Generation returns the generation of the latest submission.
func (r *SimulationRunner) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Cancel abandons the in-flight run, if any. Its outcome is dropped.
func (r *SimulationRunner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.generation++
}

// Close cancels the in-flight run and waits for it to exit.
func (r *SimulationRunner) Close() {
	r.mu.Lock()
	r.closed = true
	r.cancelBase()
	r.mu.Unlock()
	r.wg.Wait()
}
