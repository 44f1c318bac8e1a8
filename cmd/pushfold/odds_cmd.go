package main

import (
	"fmt"

	"github.com/lox/pushfold/sdk/odds"
)

type OddsCmd struct {
	Pot  PotOddsCmd  `cmd:"" help:"Pot odds and required equity for a call"`
	Outs OutsCmd     `cmd:"" help:"Equity from outs (rule of 2 and 4)"`
	MDF  MDFCmd      `cmd:"" name:"mdf" help:"Minimum defence frequency and bluff break-even"`
	SPR  SPRCmd      `cmd:"" name:"spr" help:"Stack-to-pot ratio"`
	Bet  BetSizeCmd  `cmd:"" help:"Bet size as a fraction of the pot"`
	Chop ChipChopCmd `cmd:"" help:"Chip-proportional payout split"`
}

type PotOddsCmd struct {
	Call float64 `required:"" help:"Amount to call"`
	Pot  float64 `required:"" help:"Pot before the call"`
}

func (c *PotOddsCmd) Run(a *app) error {
	po, err := odds.PotOdds(c.Call, c.Pot)
	if err != nil {
		return err
	}
	req, err := odds.RequiredEquity(c.Call, c.Pot)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pot odds: %s\nRequired equity: %s\n", pct(po), pct(req))
	return nil
}

type OutsCmd struct {
	Outs   int    `arg:"" help:"Number of outs"`
	Street string `default:"flop" enum:"flop,turn" help:"Street the draw is on (flop, turn)"`
}

func (c *OutsCmd) Run(a *app) error {
	eq, err := odds.EquityFromOuts(c.Outs, c.Street)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Approximate equity: %s\n", pct(eq))
	return nil
}

type MDFCmd struct {
	Bet float64 `required:"" help:"Bet faced"`
	Pot float64 `required:"" help:"Pot before the bet"`
}

func (c *MDFCmd) Run(a *app) error {
	mdf, err := odds.MDF(c.Bet, c.Pot)
	if err != nil {
		return err
	}
	be, err := odds.BluffBreakEven(c.Bet, c.Pot)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "MDF: %s\nBluff break-even: %s\n", pct(mdf), pct(be))
	return nil
}

type SPRCmd struct {
	Stack float64 `required:"" help:"Effective stack"`
	Pot   float64 `required:"" help:"Pot size"`
}

func (c *SPRCmd) Run(a *app) error {
	spr, err := odds.SPR(c.Stack, c.Pot)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "SPR: %.2f\n", spr)
	return nil
}

type BetSizeCmd struct {
	Pot      float64 `required:"" help:"Pot size"`
	Fraction float64 `required:"" help:"Fraction of the pot, e.g. 0.75"`
}

func (c *BetSizeCmd) Run(a *app) error {
	bet, err := odds.BetSize(c.Pot, c.Fraction)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Bet: %.2f\n", bet)
	return nil
}

type ChipChopCmd struct {
	Stacks  []float64 `required:"" sep:"," help:"Chip stacks, comma separated"`
	Payouts []float64 `required:"" sep:"," help:"Remaining payouts, comma separated"`
}

func (c *ChipChopCmd) Run(a *app) error {
	ev, err := odds.ChipChop(c.Stacks, c.Payouts)
	if err != nil {
		return err
	}
	tw := newTabWriter(a.out)
	fmt.Fprintln(tw, "PLAYER\tSTACK\tEQUITY")
	for i, v := range ev {
		fmt.Fprintf(tw, "%d\t%g\t%.2f\n", i+1, c.Stacks[i], v)
	}
	return tw.Flush()
}
