package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/sdk/equity"
	"github.com/lox/pushfold/sdk/ranges"
)

type EquityCmd struct {
	Hero      string        `arg:"" help:"Hero hole cards, e.g. 'AsKs'"`
	Villain   string        `arg:"" help:"Villain range, e.g. 'QQ+, AK' or a preset name"`
	Board     string        `short:"b" help:"Board cards (0, 3, 4 or 5), e.g. 'Td7s8h'"`
	Trials    int           `short:"i" help:"Trials per street (overrides config)"`
	Seed      *int64        `help:"Random seed for reproducible results"`
	Timeout   time.Duration `help:"Stop early and report what finished"`
	Evaluator string        `short:"e" help:"Hand evaluator (treys, hankin)"`
}

func (c *EquityCmd) Run(a *app) error {
	hero, err := poker.ParseCards(c.Hero)
	if err != nil {
		return fmt.Errorf("hero: %w", err)
	}
	if len(hero) != 2 {
		return fmt.Errorf("hero: need exactly 2 cards, got %d", len(hero))
	}
	board, err := poker.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	villain, err := parseRangeArg(a, c.Villain)
	if err != nil {
		return err
	}

	engine, err := a.engine(c.Evaluator, c.Trials, c.Seed, c.Timeout)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(a.logger)
	defer cancel()

	start := time.Now()
	res, err := engine.Compute(ctx, equity.Request{
		Hero:    [2]poker.Card{hero[0], hero[1]},
		Villain: villain,
		Board:   board,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(a.out, "%s %s vs %s (%d combos, %s)\n",
		headerStyle.Render("Hero"),
		handStyle.Render(poker.FormatCards(hero)),
		handStyle.Render(ranges.Format(villain)),
		villain.Weight(), pct(villain.Percentage()))
	if len(board) > 0 {
		fmt.Fprintf(a.out, "%s %s\n", headerStyle.Render("Board"), handStyle.Render(poker.FormatCards(board)))
	}
	fmt.Fprintln(a.out)

	tw := newTabWriter(a.out)
	fmt.Fprintln(tw, "STREET\tSTATUS\tEQUITY\t95% CI\tTRIALS\tCOMBOS")
	for _, sr := range res.Streets {
		if sr.Status == equity.NotApplicable {
			continue
		}
		eq, ci := "-", "-"
		if sr.HasEquity() {
			eq = pct(sr.Equity)
			lo, hi := sr.ConfidenceInterval()
			ci = fmt.Sprintf("%.1f-%.1f", lo, hi)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%d\n",
			sr.Street, statusText(sr.Status), eq, ci, sr.Achieved, sr.Target, sr.Combos)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	footer := fmt.Sprintf("seed %d, %s", res.Seed, elapsed.Round(time.Millisecond))
	if res.TimedOut {
		footer += ", " + warnStyle.Render("timed out")
	}
	fmt.Fprintln(a.out, dimStyle.Render(footer))
	return nil
}

func statusText(s equity.Status) string {
	switch s {
	case equity.Computed:
		return goodStyle.Render(s.String())
	case equity.NoEquity:
		return badStyle.Render(s.String())
	case equity.Absent:
		return warnStyle.Render(s.String())
	}
	return s.String()
}

// parseRangeArg accepts a preset name or range notation. Unknown tokens are
// an error on the command line.
func parseRangeArg(a *app, text string) (ranges.Range, error) {
	if r, err := ranges.LookupPreset(text); err == nil {
		return r, nil
	}
	r, stats := ranges.Parse(text)
	if len(stats.Dropped) > 0 {
		return ranges.Range{}, fmt.Errorf("unrecognised range tokens: %s", strings.Join(stats.Dropped, ", "))
	}
	a.logger.Debug("Parsed range", "tokens", stats.Tokens, "classes", r.Len())
	return r, nil
}

type StrengthCmd struct {
	Hole      string `arg:"" help:"Hole cards, e.g. 'AhKh'"`
	Board     string `arg:"" help:"Board cards (3-5), e.g. 'QhJhTh'"`
	Evaluator string `short:"e" help:"Hand evaluator (treys, hankin)"`
}

func (c *StrengthCmd) Run(a *app) error {
	hole, err := poker.ParseCards(c.Hole)
	if err != nil {
		return fmt.Errorf("hole: %w", err)
	}
	if len(hole) != 2 {
		return fmt.Errorf("hole: need exactly 2 cards, got %d", len(hole))
	}
	board, err := poker.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	eval, err := a.evaluator(c.Evaluator)
	if err != nil {
		return err
	}
	hs, err := equity.Strength(eval, [2]poker.Card{hole[0], hole[1]}, board)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (score %d)\n", handStyle.Render(hs.Class), hs.Score)
	return nil
}
