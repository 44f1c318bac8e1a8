package main

import (
	"fmt"
	"strings"

	"github.com/lox/pushfold/sdk/hands"
	"github.com/lox/pushfold/sdk/pushfold"
	"github.com/lox/pushfold/sdk/ranges"
)

type RangeCmd struct {
	Parse   RangeParseCmd   `cmd:"" help:"Expand range notation into hand classes"`
	Format  RangeFormatCmd  `cmd:"" help:"Condense hand classes into range notation"`
	Presets RangePresetsCmd `cmd:"" help:"List built-in ranges"`
}

type RangeParseCmd struct {
	Text    string `arg:"" help:"Range notation, e.g. '22+, A2s+, KTo+'"`
	Classes bool   `help:"List every class, strongest first"`
}

func (c *RangeParseCmd) Run(a *app) error {
	r, stats := ranges.Parse(c.Text)
	printRange(a, r)
	if c.Classes {
		fmt.Fprintln(a.out, classList(r.ByStrength()))
	}
	if len(stats.Dropped) > 0 {
		fmt.Fprintf(a.out, "%s %s\n", warnStyle.Render("Ignored:"), strings.Join(stats.Dropped, ", "))
	}
	return nil
}

type RangeFormatCmd struct {
	Classes []string `arg:"" help:"Hand classes, e.g. AKs AQs AJs 77"`
}

func (c *RangeFormatCmd) Run(a *app) error {
	var r ranges.Range
	for _, arg := range c.Classes {
		for _, name := range strings.Split(arg, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			cl, err := hands.ParseClass(name)
			if err != nil {
				return err
			}
			r.Add(cl)
		}
	}
	printRange(a, r)
	return nil
}

type RangePresetsCmd struct{}

func (c *RangePresetsCmd) Run(a *app) error {
	tw := newTabWriter(a.out)
	fmt.Fprintln(tw, "NAME\tCOMBOS\tPERCENT\tRANGE")
	for _, p := range ranges.Presets() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", p.Name, p.Range.Weight(), pct(p.Range.Percentage()), ranges.Format(p.Range))
	}
	return tw.Flush()
}

func printRange(a *app, r ranges.Range) {
	fmt.Fprintf(a.out, "%s\n%d combos (%s), %d classes\n",
		handStyle.Render(ranges.Format(r)), r.Weight(), pct(r.Percentage()), r.Len())
}

func classList(classes []hands.Class) string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.String()
	}
	return strings.Join(names, " ")
}

type TopCmd struct {
	Percent float64 `arg:"" help:"Share of all starting hands, 0-100"`
	Classes bool    `help:"List every class, strongest first"`
}

func (c *TopCmd) Run(a *app) error {
	top := pushfold.TopHands(c.Percent)
	r := ranges.New(top...)
	printRange(a, r)
	if c.Classes {
		fmt.Fprintln(a.out, classList(top))
	}
	return nil
}
