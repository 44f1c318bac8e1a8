package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/lox/pushfold/internal/randutil"
	"github.com/lox/pushfold/sdk/hands"
	"github.com/lox/pushfold/sdk/ranges"
	"github.com/lox/pushfold/sdk/trainer"
)

type AdviseCmd struct {
	Stack   float64 `short:"s" required:"" help:"Effective stack in big blinds"`
	Seat    string  `short:"p" required:"" help:"Seat: SB, BTN, CO, HJ, LJ, UTG+3, UTG+2, UTG+1, UTG"`
	Players int     `short:"n" default:"9" help:"Players left at the table"`
	Hand    string  `short:"H" help:"Hand class to check, e.g. A9o"`
}

func (c *AdviseCmd) Run(a *app) error {
	table, err := a.table()
	if err != nil {
		return err
	}
	advice, err := table.Advise(c.Stack, c.Seat, c.Players)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (chart row %gBB, %s)\n", headerStyle.Render(advice.Text), advice.NearestStack, advice.Seat)
	fmt.Fprintln(a.out, handStyle.Render(ranges.Format(advice.Range)))
	fmt.Fprintln(a.out, dimStyle.Render(advice.Tips))

	if c.Hand != "" {
		cl, err := hands.ParseClass(c.Hand)
		if err != nil {
			return err
		}
		if advice.ShouldPush(cl) {
			fmt.Fprintf(a.out, "%s: %s\n", cl, goodStyle.Render("PUSH"))
		} else {
			fmt.Fprintf(a.out, "%s: %s\n", cl, badStyle.Render("FOLD"))
		}
	}
	return nil
}

type TrainCmd struct {
	Questions int    `short:"q" default:"5" help:"Questions per session"`
	Seed      *int64 `help:"Random seed for reproducible sessions"`
}

func (c *TrainCmd) Run(a *app) error {
	table, err := a.table()
	if err != nil {
		return err
	}
	seed := randutil.Resolve(c.Seed)
	a.logger.Debug("Starting trainer", "seed", seed, "questions", c.Questions)

	session := trainer.New(table, randutil.New(seed), a.logger).NewSession(c.Questions)
	scanner := bufio.NewScanner(a.in)

	fmt.Fprintln(a.out, headerStyle.Render("Push/Fold Training"))
	for !session.Done() {
		s, _ := session.Current()
		fmt.Fprintf(a.out, "\nQuestion %d of %d\n", session.Index()+1, session.Len())
		fmt.Fprintf(a.out, "Hand: %s (%s)\nStack: %gBB\nPosition: %s\nPlayers left: %d\n",
			handStyle.Render(s.Hand.String()), s.Cards, s.Stack, s.Seat, s.PlayersLeft)

		action, ok := c.prompt(a, scanner)
		if !ok {
			break
		}
		g, err := session.Answer(action)
		if err != nil {
			return err
		}
		if g.Right() {
			fmt.Fprintf(a.out, "%s %s\n", goodStyle.Render("Correct!"), g.Advice.Text)
		} else {
			fmt.Fprintf(a.out, "%s Correct play was %s. %s\n", badStyle.Render("Wrong."), g.Correct, g.Advice.Text)
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, bufio.ErrTooLong) {
		return err
	}

	right, answered := session.Score()
	fmt.Fprintf(a.out, "\nScore: %d/%d\n", right, answered)
	return nil
}

// prompt reads until a valid action or end of input.
func (c *TrainCmd) prompt(a *app, scanner *bufio.Scanner) (trainer.Action, bool) {
	for {
		fmt.Fprint(a.out, "Push or fold? [p/f] ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return trainer.Fold, false
		}
		action, err := trainer.ParseAction(scanner.Text())
		if err == nil {
			return action, true
		}
		fmt.Fprintln(a.out, warnStyle.Render(err.Error()))
	}
}
