package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lox/pushfold/internal/fileutil"
	"github.com/lox/pushfold/internal/store"
)

type RangesCmd struct {
	Save   RangesSaveCmd   `cmd:"" help:"Save a named range"`
	List   RangesListCmd   `cmd:"" help:"List saved ranges"`
	Get    RangesGetCmd    `cmd:"" help:"Show a saved range"`
	Delete RangesDeleteCmd `cmd:"" help:"Delete a saved range"`
	Export RangesExportCmd `cmd:"" help:"Write a saved range to a file"`
	Import RangesImportCmd `cmd:"" help:"Save a range read from a file"`
}

func withStore(a *app, fn func(ctx context.Context, st store.Store) error) error {
	ctx := context.Background()
	st, err := a.store(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}

type RangesSaveCmd struct {
	Name  string `arg:"" help:"Range name"`
	Range string `arg:"" help:"Range notation or preset name"`
}

func (c *RangesSaveCmd) Run(a *app) error {
	r, err := parseRangeArg(a, c.Range)
	if err != nil {
		return err
	}
	return withStore(a, func(ctx context.Context, st store.Store) error {
		saved, err := st.Save(ctx, c.Name, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved %s: %s (%d combos)\n", saved.Name, saved.Notation, saved.Combos)
		return nil
	})
}

type RangesListCmd struct{}

func (c *RangesListCmd) Run(a *app) error {
	return withStore(a, func(ctx context.Context, st store.Store) error {
		list, err := st.List(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(a.out, dimStyle.Render("No saved ranges"))
			return nil
		}
		tw := newTabWriter(a.out)
		fmt.Fprintln(tw, "NAME\tCOMBOS\tPERCENT\tUPDATED\tRANGE")
		for _, s := range list {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
				s.Name, s.Combos, pct(s.Percentage), s.UpdatedAt.Format("2006-01-02 15:04"), s.Notation)
		}
		return tw.Flush()
	})
}

type RangesGetCmd struct {
	Name    string `arg:"" help:"Range name"`
	Classes bool   `help:"List every class, strongest first"`
}

func (c *RangesGetCmd) Run(a *app) error {
	return withStore(a, func(ctx context.Context, st store.Store) error {
		saved, err := st.Get(ctx, c.Name)
		if err != nil {
			return err
		}
		r := saved.Range()
		printRange(a, r)
		if c.Classes {
			fmt.Fprintln(a.out, classList(r.ByStrength()))
		}
		return nil
	})
}

type RangesDeleteCmd struct {
	Name string `arg:"" help:"Range name"`
}

func (c *RangesDeleteCmd) Run(a *app) error {
	return withStore(a, func(ctx context.Context, st store.Store) error {
		if err := st.Delete(ctx, c.Name); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted %s\n", c.Name)
		return nil
	})
}

type RangesExportCmd struct {
	Name string `arg:"" help:"Range name"`
	File string `arg:"" type:"path" help:"Destination file"`
}

func (c *RangesExportCmd) Run(a *app) error {
	return withStore(a, func(ctx context.Context, st store.Store) error {
		saved, err := st.Get(ctx, c.Name)
		if err != nil {
			return err
		}
		if err := fileutil.WriteFileAtomic(c.File, []byte(saved.Notation+"\n"), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Wrote %s to %s\n", saved.Name, c.File)
		return nil
	})
}

type RangesImportCmd struct {
	Name string `arg:"" help:"Range name"`
	File string `arg:"" type:"existingfile" help:"File containing range notation"`
}

func (c *RangesImportCmd) Run(a *app) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	// Newlines separate tokens as well as commas.
	text := strings.Join(strings.Fields(strings.ReplaceAll(string(data), "\n", ",")), "")
	r, err := parseRangeArg(a, text)
	if err != nil {
		return err
	}
	return withStore(a, func(ctx context.Context, st store.Store) error {
		saved, err := st.Save(ctx, c.Name, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Imported %s: %s (%d combos)\n", saved.Name, saved.Notation, saved.Combos)
		return nil
	})
}
