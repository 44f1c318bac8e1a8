package equity_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pushfold/internal/evaluator"
	"github.com/lox/pushfold/internal/randutil"
	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/sdk/equity"
	"github.com/lox/pushfold/sdk/ranges"
)

func seed(v int64) *int64 { return &v }

func hole(s string) [2]poker.Card {
	c := poker.MustParseCards(s)
	return [2]poker.Card{c[0], c[1]}
}

func newEngine(t *testing.T, opts equity.Options) *equity.Engine {
	t.Helper()
	eval, err := evaluator.New("treys")
	require.NoError(t, err)
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return equity.New(eval, opts)
}

// fakeEval scores every hand the same, so every trial is a tie.
type fakeEval struct {
	calls  atomic.Int64
	onCall func(n int64)
	err    error
}

func (f *fakeEval) Evaluate(hole [2]poker.Card, board []poker.Card) (equity.Score, error) {
	n := f.calls.Add(1)
	if f.onCall != nil {
		f.onCall(n)
	}
	if f.err != nil {
		return 0, f.err
	}
	return 100, nil
}

func (f *fakeEval) RankClassName(equity.Score) string { return "Fake" }

func TestAcesVersusKings(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, equity.Options{Trials: 20000, Seed: seed(1)})
	res, err := eng.Compute(context.Background(), equity.Request{
		Hero:    hole("AsAh"),
		Villain: ranges.MustParse("KK"),
	})
	require.NoError(t, err)

	pre := res.Street(equity.Preflop)
	assert.Equal(t, equity.Computed, pre.Status)
	assert.Equal(t, 20000, pre.Achieved)
	assert.Equal(t, 20000, pre.Target)
	assert.Equal(t, pre.Achieved, pre.Wins+pre.Ties+pre.Losses)
	assert.Equal(t, 6, pre.Combos)
	assert.InDelta(t, 82, pre.Equity, 2.0)

	lo, hi := pre.ConfidenceInterval()
	assert.Less(t, lo, pre.Equity)
	assert.Greater(t, hi, pre.Equity)

	for _, st := range []equity.Street{equity.Flop, equity.Turn, equity.River} {
		assert.Equal(t, equity.NotApplicable, res.Street(st).Status, st.String())
	}
}

func TestAcesVersusSevenDeuce(t *testing.T) {
	t.Parallel()

	for _, name := range evaluator.Names() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			eval, err := evaluator.New(name)
			require.NoError(t, err)
			eng := equity.New(eval, equity.Options{Trials: 20000, Seed: seed(6), Logger: log.New(io.Discard)})
			res, err := eng.Compute(context.Background(), equity.Request{
				Hero:    hole("AsAh"),
				Villain: ranges.MustParse("72o"),
			})
			require.NoError(t, err)

			pre := res.Street(equity.Preflop)
			assert.Equal(t, 12, pre.Combos)
			assert.Greater(t, pre.Equity, 85.0)
			assert.Less(t, pre.Equity, 91.0)
		})
	}
}

// distinctEval checks that every evaluation sees seven different cards and
// that villain holdings never reuse the hero's cards.
type distinctEval struct {
	equity.HandEvaluator
	hero       [2]poker.Card
	calls      atomic.Int64
	violations atomic.Int64
}

func (d *distinctEval) Evaluate(hole [2]poker.Card, board []poker.Card) (equity.Score, error) {
	d.calls.Add(1)
	cards := append([]poker.Card{hole[0], hole[1]}, board...)
	_, ok := poker.Distinct(cards...)
	if !ok || len(board) != 5 {
		d.violations.Add(1)
	}
	if hole != d.hero {
		for _, c := range hole {
			if c == d.hero[0] || c == d.hero[1] {
				d.violations.Add(1)
			}
		}
	}
	return d.HandEvaluator.Evaluate(hole, board)
}

func TestTrialsNeverReuseCards(t *testing.T) {
	t.Parallel()

	inner, err := evaluator.New("treys")
	require.NoError(t, err)
	hero := hole("AsKh")
	eval := &distinctEval{HandEvaluator: inner, hero: hero}

	eng := equity.New(eval, equity.Options{Trials: 2000, Seed: seed(7), Logger: log.New(io.Discard)})
	res, err := eng.Compute(context.Background(), equity.Request{
		Hero:    hero,
		Villain: ranges.MustParse("QQ+, AK, 22, KTs+"),
		Board:   poker.MustParseCards("Kd7h2c"),
	})
	require.NoError(t, err)

	for _, st := range []equity.Street{equity.Preflop, equity.Flop} {
		assert.Equal(t, equity.Computed, res.Street(st).Status, st.String())
	}
	assert.Positive(t, eval.calls.Load())
	assert.Zero(t, eval.violations.Load())
}

func TestRiverIsExact(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, equity.Options{Trials: 500, Seed: seed(2)})
	res, err := eng.Compute(context.Background(), equity.Request{
		Hero:    hole("AhAd"),
		Villain: ranges.MustParse("KK"),
		Board:   poker.MustParseCards("AsKd7c2h3s"),
	})
	require.NoError(t, err)

	river := res.Street(equity.River)
	assert.Equal(t, equity.Computed, river.Status)
	assert.Equal(t, 3, river.Combos) // Kd is on the board
	assert.Equal(t, 100.0, river.Equity)
	assert.Equal(t, 500, river.Wins)

	for _, st := range equity.Streets() {
		assert.Equal(t, equity.Computed, res.Street(st).Status, st.String())
	}
}

func TestBoardPlaysSplits(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, equity.Options{Trials: 200, Seed: seed(3)})
	res, err := eng.Compute(context.Background(), equity.Request{
		Hero:    hole("2c3d"),
		Villain: ranges.MustParse("44"),
		Board:   poker.MustParseCards("AsKsQsJsTs"),
	})
	require.NoError(t, err)

	river := res.Street(equity.River)
	assert.Equal(t, 200, river.Ties)
	assert.Equal(t, 50.0, river.Equity)
}

func TestNoEquityWhenRangeIsBlocked(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, equity.Options{Trials: 300, Seed: seed(4)})
	res, err := eng.Compute(context.Background(), equity.Request{
		Hero:    hole("AsAh"),
		Villain: ranges.MustParse("AA"),
		Board:   poker.MustParseCards("AdAc2s"),
	})
	require.NoError(t, err)

	pre := res.Street(equity.Preflop)
	assert.Equal(t, equity.Computed, pre.Status)
	assert.Equal(t, 1, pre.Combos)

	flop := res.Street(equity.Flop)
	assert.Equal(t, equity.NoEquity, flop.Status)
	assert.True(t, flop.HasEquity())
	assert.Zero(t, flop.Equity)
	assert.Zero(t, flop.Achieved)

	assert.Equal(t, equity.NotApplicable, res.Street(equity.Turn).Status)
	assert.False(t, res.Street(equity.Turn).HasEquity())
}

func TestShortBoardOnlyRunsPreflop(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, equity.Options{Trials: 100, Seed: seed(5)})
	res, err := eng.Compute(context.Background(), equity.Request{
		Hero:    hole("AsKs"),
		Villain: ranges.MustParse("QQ+"),
		Board:   poker.MustParseCards("2c7d"),
	})
	require.NoError(t, err)
	assert.Equal(t, equity.Computed, res.Street(equity.Preflop).Status)
	assert.Equal(t, equity.NotApplicable, res.Street(equity.Flop).Status)
}

func TestSeededRunsRepeat(t *testing.T) {
	t.Parallel()

	req := equity.Request{
		Hero:    hole("JhTh"),
		Villain: ranges.MustParse("22+,A2s+,KTo+"),
		Board:   poker.MustParseCards("9h8c2d"),
	}
	a, err := newEngine(t, equity.Options{Trials: 2000, Seed: seed(99)}).Compute(context.Background(), req)
	require.NoError(t, err)
	b, err := newEngine(t, equity.Options{Trials: 2000, Seed: seed(99)}).Compute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	req.Seed = seed(7)
	c, err := newEngine(t, equity.Options{Trials: 2000, Seed: seed(99)}).Compute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.Seed)
	assert.NotEqual(t, a.Streets, c.Streets)
}

func TestInvalidRequests(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, equity.Options{Trials: 10, Seed: seed(1)})
	tests := []struct {
		name string
		req  equity.Request
	}{
		{"empty range", equity.Request{Hero: hole("AsKs")}},
		{"pair of one card", equity.Request{Hero: [2]poker.Card{1, 1}, Villain: ranges.MustParse("QQ")}},
		{"hero on board", equity.Request{Hero: hole("AsKs"), Villain: ranges.MustParse("QQ"), Board: poker.MustParseCards("As2c3c")}},
		{"six board cards", equity.Request{Hero: hole("AsKs"), Villain: ranges.MustParse("QQ"), Board: poker.MustParseCards("2c3c4c5c6c7c")}},
		{"invalid card", equity.Request{Hero: [2]poker.Card{60, 1}, Villain: ranges.MustParse("QQ")}},
		{"negative trials", equity.Request{Hero: hole("AsKs"), Villain: ranges.MustParse("QQ"), Trials: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := eng.Compute(context.Background(), tt.req)
			assert.ErrorIs(t, err, equity.ErrInvalidInput)
		})
	}
}

func TestEvaluatorErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	eng := equity.New(&fakeEval{err: boom}, equity.Options{Trials: 10, Seed: seed(1), Logger: log.New(io.Discard)})
	_, err := eng.Compute(context.Background(), equity.Request{Hero: hole("AsKs"), Villain: ranges.MustParse("QQ")})
	assert.ErrorIs(t, err, boom)
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eng := newEngine(t, equity.Options{Trials: 100, Seed: seed(1)})
	_, err := eng.Compute(ctx, equity.Request{Hero: hole("AsKs"), Villain: ranges.MustParse("QQ")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTimeoutReturnsPartialResult(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	fe := &fakeEval{}
	fe.onCall = func(n int64) {
		if n == 1 {
			mClock.Advance(time.Second).MustWait(ctx)
		}
	}
	eng := equity.New(fe, equity.Options{
		Trials:  1000,
		Seed:    seed(1),
		Timeout: time.Second,
		Clock:   mClock,
		Logger:  log.New(io.Discard),
	})

	res, err := eng.Compute(ctx, equity.Request{
		Hero:    hole("AsKs"),
		Villain: ranges.MustParse("QQ"),
		Board:   poker.MustParseCards("2c7d9h"),
	})
	require.NoError(t, err)
	assert.True(t, res.TimedOut)

	pre := res.Street(equity.Preflop)
	assert.Equal(t, equity.Computed, pre.Status)
	assert.Greater(t, pre.Achieved, 0)
	assert.Less(t, pre.Achieved, 1000)
	assert.Equal(t, 50.0, pre.Equity)

	flop := res.Street(equity.Flop)
	assert.Equal(t, equity.Absent, flop.Status)
	assert.False(t, flop.HasEquity())
}

func TestStreamDeliversStreetsInOrder(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, equity.Options{Trials: 100, Seed: seed(8)})
	req := equity.Request{
		Hero:    hole("QdQc"),
		Villain: ranges.MustParse("AK"),
		Board:   poker.MustParseCards("Ks7h2c3d"),
	}

	var got []equity.Street
	res, err := eng.Stream(context.Background(), req, func(sr equity.StreetResult) error {
		got = append(got, sr.Street)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []equity.Street{equity.Preflop, equity.Flop, equity.Turn}, got)
	assert.Equal(t, equity.NotApplicable, res.Street(equity.River).Status)

	stop := errors.New("stop")
	calls := 0
	_, err = eng.Stream(context.Background(), req, func(equity.StreetResult) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestComputeBatch(t *testing.T) {
	t.Parallel()

	eng := newEngine(t, equity.Options{Trials: 500, Seed: seed(42), Workers: 3})
	reqs := []equity.Request{
		{Hero: hole("AsAh"), Villain: ranges.MustParse("KK")},
		{Hero: hole("7c2d"), Villain: ranges.MustParse("22+"), Board: poker.MustParseCards("7h7s2c")},
		{Hero: hole("KsQs"), Villain: ranges.MustParse("AA"), Seed: seed(5)},
		{Hero: hole("9d9c"), Villain: ranges.MustParse("AKo")},
	}
	results, err := eng.ComputeBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, len(reqs))

	assert.Equal(t, int64(5), results[2].Seed)
	assert.Equal(t, randutil.Derive(42, 0), results[0].Seed)

	for i, req := range reqs {
		req.Seed = seed(results[i].Seed)
		single, err := eng.Compute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, single, results[i], "request %d", i)
	}

	reqs[1].Villain = ranges.Range{}
	_, err = eng.ComputeBatch(context.Background(), reqs)
	assert.ErrorIs(t, err, equity.ErrInvalidInput)
}

func TestStrength(t *testing.T) {
	t.Parallel()

	eval, err := evaluator.New("treys")
	require.NoError(t, err)

	hs, err := equity.Strength(eval, hole("AsAh"), poker.MustParseCards("AdKc2s"))
	require.NoError(t, err)
	assert.Equal(t, evaluator.ThreeOfAKind, hs.Class)

	_, err = equity.Strength(eval, hole("AsAh"), poker.MustParseCards("AdKc"))
	assert.ErrorIs(t, err, equity.ErrInvalidInput)
	_, err = equity.Strength(eval, hole("AsAh"), poker.MustParseCards("AsKc2d"))
	assert.ErrorIs(t, err, equity.ErrInvalidInput)
}
