package main

import (
	"errors"
	"os"

	"github.com/lox/pushfold/internal/server"
	"github.com/lox/pushfold/internal/store"
)

type ServeCmd struct {
	Addr    string `short:"a" help:"Listen address (overrides config)"`
	NoStore bool   `help:"Run without the saved range store"`
}

func (c *ServeCmd) Run(a *app) error {
	ctx, cancel := signalContext(a.logger)
	defer cancel()

	engine, err := a.engine("", 0, nil, 0)
	if err != nil {
		return err
	}

	// A missing chart is not fatal; push/fold routes report it unavailable.
	table, err := a.table()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		a.logger.Warn("Push/fold chart not found", "path", a.cfg.PushFold.Table)
	}

	var st store.Store
	if !c.NoStore {
		if st, err = a.store(ctx); err != nil {
			return err
		}
		defer st.Close()
	}

	addr := a.cfg.Server.ListenAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	a.logger.Info("Starting pushfold API",
		"addr", addr,
		"evaluator", a.cfg.Engine.Evaluator,
		"trials", a.cfg.Engine.Trials,
		"store", a.cfg.Store.Driver,
		"chart_rows", len(table.Stacks()))

	return server.New(engine, table, st, a.logger).ListenAndServe(ctx, addr)
}
