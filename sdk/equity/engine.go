// Package equity estimates a hero hand's showdown equity against a villain
// range street by street with Monte-Carlo simulation.
package equity

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pushfold/internal/randutil"
	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/sdk/hands"
	"github.com/lox/pushfold/sdk/ranges"
)

const (
	DefaultTrials      = 10000
	DefaultRetryFactor = 5

	// cancellation is polled every ctxCheckInterval trials
	ctxCheckInterval = 64
)

// Options configures an Engine. Zero values take defaults.
type Options struct {
	Trials      int           // trials per street
	RetryFactor int           // attempt cap is RetryFactor * Trials
	Seed        *int64        // nil seeds from the wall clock
	Workers     int           // batch parallelism
	Timeout     time.Duration // 0 disables; partial results on expiry
	Clock       quartz.Clock
	Logger      *log.Logger
}

// Engine runs equity simulations against a HandEvaluator. An Engine is
// safe for concurrent use; every computation owns its random source.
type Engine struct {
	eval   HandEvaluator
	opts   Options
	clock  quartz.Clock
	logger *log.Logger
}

// New creates an engine.
func New(eval HandEvaluator, opts Options) *Engine {
	if opts.Trials <= 0 {
		opts.Trials = DefaultTrials
	}
	if opts.RetryFactor <= 0 {
		opts.RetryFactor = DefaultRetryFactor
	}
	if opts.Workers <= 0 {
		opts.Workers = min(runtime.NumCPU(), 8) // Cap at 8 for diminishing returns
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		eval:   eval,
		opts:   opts,
		clock:  clock,
		logger: logger.WithPrefix("equity"),
	}
}

// Evaluator returns the engine's hand evaluator.
func (e *Engine) Evaluator() HandEvaluator { return e.eval }

// Request is one hero-versus-range computation.
type Request struct {
	Hero    [2]poker.Card
	Villain ranges.Range
	Board   []poker.Card // 0..5 known cards
	Trials  int          // overrides the engine default when > 0
	Seed    *int64       // overrides the engine seed when set
}

func (e *Engine) validate(req Request) error {
	if len(req.Board) > 5 {
		return fmt.Errorf("%w: board has %d cards, at most 5 allowed", ErrInvalidInput, len(req.Board))
	}
	all := append([]poker.Card{req.Hero[0], req.Hero[1]}, req.Board...)
	if c, ok := poker.Distinct(all...); !ok {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card", ErrInvalidInput)
		}
		return fmt.Errorf("%w: duplicate card %s", ErrInvalidInput, c)
	}
	if req.Villain.IsEmpty() {
		return fmt.Errorf("%w: villain range is empty", ErrInvalidInput)
	}
	if req.Trials < 0 {
		return fmt.Errorf("%w: trials must be positive", ErrInvalidInput)
	}
	return nil
}

// Compute runs every applicable street. Preflop always runs; flop, turn and
// river run when the board reaches 3, 4 and 5 cards. Cancelling ctx aborts
// with ctx's error; an expired Options.Timeout returns what finished with
// TimedOut set.
func (e *Engine) Compute(ctx context.Context, req Request) (Result, error) {
	return e.Stream(ctx, req, nil)
}

// Stream is Compute with a callback invoked as each street finishes, in
// street order. A callback error stops the computation and is returned.
func (e *Engine) Stream(ctx context.Context, req Request, fn func(StreetResult) error) (Result, error) {
	seed := randutil.Resolve(e.opts.Seed)
	if req.Seed != nil {
		seed = *req.Seed
	}
	return e.compute(ctx, req, seed, fn)
}

func (e *Engine) compute(ctx context.Context, req Request, seed int64, fn func(StreetResult) error) (Result, error) {
	if err := e.validate(req); err != nil {
		return Result{}, err
	}
	trials := req.Trials
	if trials == 0 {
		trials = e.opts.Trials
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var timedOut atomic.Bool
	if e.opts.Timeout > 0 {
		timer := e.clock.AfterFunc(e.opts.Timeout, func() {
			timedOut.Store(true)
			cancel()
		})
		defer timer.Stop()
	}

	res := Result{Seed: seed}
	for _, st := range Streets() {
		res.Streets[st] = StreetResult{Street: st, Status: NotApplicable}
	}

	rng := randutil.New(seed)
	villain := req.Villain.Combos()
	start := e.clock.Now()

	for _, st := range Streets() {
		if st.BoardLen() > len(req.Board) {
			break
		}

		var sr StreetResult
		if timedOut.Load() {
			sr = StreetResult{Status: Absent, Target: trials}
			res.TimedOut = true
		} else {
			var err error
			sr, err = e.runStreet(runCtx, rng, req.Hero, villain, req.Board[:st.BoardLen()], trials)
			if err != nil {
				if !errors.Is(err, context.Canceled) || !timedOut.Load() || ctx.Err() != nil {
					return res, err
				}
				res.TimedOut = true
				sr.finish()
				e.logger.Warn("Equity timed out", "street", st, "achieved", sr.Achieved, "target", trials)
			}
		}
		sr.Street = st
		res.Streets[st] = sr

		if fn != nil {
			if err := fn(sr); err != nil {
				return res, err
			}
		}
	}

	e.logger.Debug("Equity computed",
		"hero", poker.FormatCards(req.Hero[:]),
		"board", poker.FormatCards(req.Board),
		"villain_classes", req.Villain.Len(),
		"elapsed", e.clock.Since(start))
	return res, nil
}

// runStreet simulates trials with the given known board prefix.
func (e *Engine) runStreet(ctx context.Context, rng *rand.Rand, hero [2]poker.Card, villain []hands.Combo, prefix []poker.Card, trials int) (StreetResult, error) {
	sr := StreetResult{Target: trials}

	dead := poker.NewCardSet(hero[0], hero[1])
	for _, c := range prefix {
		dead.Add(c)
	}

	live := make([]hands.Combo, 0, len(villain))
	for _, combo := range villain {
		if !combo.Set().Overlaps(dead) {
			live = append(live, combo)
		}
	}
	sr.Combos = len(live)
	if len(live) == 0 {
		sr.Status = NoEquity
		sr.Equity = 0
		return sr, nil
	}

	deck := poker.NewDeck(rng, dead)
	board := make([]poker.Card, 5)
	copy(board, prefix)
	check := make([]poker.Card, 0, 9)

	maxAttempts := trials * e.opts.RetryFactor
	for attempt := 0; sr.Achieved < trials && attempt < maxAttempts; attempt++ {
		if attempt%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return sr, err
			}
		}

		combo := live[rng.IntN(len(live))]
		blocked := combo.Set()

		deck.Reset()
		n := len(prefix)
		for n < 5 {
			c, ok := deck.DealOne()
			if !ok {
				break
			}
			if blocked.Contains(c) {
				continue
			}
			board[n] = c
			n++
		}
		if n < 5 {
			continue
		}

		check = append(check[:0], hero[0], hero[1], combo[0], combo[1])
		check = append(check, board...)
		if _, ok := poker.Distinct(check...); !ok {
			continue
		}

		heroScore, err := e.eval.Evaluate(hero, board)
		if err != nil {
			return sr, fmt.Errorf("evaluate hero: %w", err)
		}
		villainScore, err := e.eval.Evaluate([2]poker.Card(combo), board)
		if err != nil {
			return sr, fmt.Errorf("evaluate villain: %w", err)
		}

		switch {
		case heroScore < villainScore:
			sr.Wins++
		case heroScore == villainScore:
			sr.Ties++
		default:
			sr.Losses++
		}
		sr.Achieved++
	}

	sr.finish()
	return sr, nil
}

// ComputeBatch runs independent requests in parallel, bounded by
// Options.Workers. Request i without its own seed gets a stream derived
// from the engine seed, so a seeded batch is reproducible regardless of
// scheduling. The first error cancels the rest.
func (e *Engine) ComputeBatch(ctx context.Context, reqs []Request) ([]Result, error) {
	base := randutil.Resolve(e.opts.Seed)
	results := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, req := range reqs {
		seed := randutil.Derive(base, i)
		if req.Seed != nil {
			seed = *req.Seed
		}
		g.Go(func() error {
			res, err := e.compute(ctx, req, seed, nil)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
