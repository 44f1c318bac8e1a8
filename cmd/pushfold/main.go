package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"

	"github.com/lox/pushfold/internal/config"
	"github.com/lox/pushfold/internal/evaluator"
	"github.com/lox/pushfold/internal/store"
	"github.com/lox/pushfold/sdk/equity"
	"github.com/lox/pushfold/sdk/pushfold"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" default:"pushfold.hcl" help:"Path to HCL configuration file"`
	LogLevel string           `short:"l" help:"Log level (overrides config)"`
	Table    string           `help:"Push/fold chart CSV (overrides config)"`
	DB       string           `name:"db" help:"Saved range database (overrides config)"`
	NoColor  bool             `help:"Disable colored output"`

	Equity   EquityCmd   `cmd:"" help:"Hero vs range equity by street"`
	Strength StrengthCmd `cmd:"" help:"Evaluate a made hand"`
	Range    RangeCmd    `cmd:"" help:"Parse and format range notation"`
	Top      TopCmd      `cmd:"" help:"List the top N% of starting hands"`
	Advise   AdviseCmd   `cmd:"" help:"Push/fold advice for a spot"`
	Train    TrainCmd    `cmd:"" help:"Push/fold quiz"`
	Odds     OddsCmd     `cmd:"" help:"Pot odds and related arithmetic"`
	Serve    ServeCmd    `cmd:"" help:"Run the HTTP API"`
	Ranges   RangesCmd   `cmd:"" help:"Manage saved ranges"`
}

// app carries what every command needs once flags and config are resolved.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	out    io.Writer
	in     io.Reader
}

func newApp(cli *CLI, in io.Reader, out, errOut io.Writer) (*app, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Server.LogLevel = cli.LogLevel
	}
	if cli.Table != "" {
		cfg.PushFold.Table = cli.Table
	}
	if cli.DB != "" {
		cfg.Store.Driver = config.DriverSQLite
		cfg.Store.DSN = cli.DB
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger := log.New(errOut)
	level, _ := log.ParseLevel(cfg.Server.LogLevel)
	logger.SetLevel(level)

	return &app{cfg: cfg, logger: logger, out: out, in: in}, nil
}

func (a *app) evaluator(name string) (equity.HandEvaluator, error) {
	if name == "" {
		name = a.cfg.Engine.Evaluator
	}
	return evaluator.New(name)
}

// engine builds an equity engine from config; non-zero arguments override it.
func (a *app) engine(evalName string, trials int, seed *int64, timeout time.Duration) (*equity.Engine, error) {
	eval, err := a.evaluator(evalName)
	if err != nil {
		return nil, err
	}
	opts := equity.Options{
		Trials:      a.cfg.Engine.Trials,
		RetryFactor: a.cfg.Engine.RetryFactor,
		Seed:        a.cfg.Engine.Seed,
		Workers:     a.cfg.Engine.Workers,
		Logger:      a.logger,
	}
	if opts.Timeout, err = a.cfg.Engine.TimeoutDuration(); err != nil {
		return nil, err
	}
	if trials > 0 {
		opts.Trials = trials
	}
	if seed != nil {
		opts.Seed = seed
	}
	if timeout > 0 {
		opts.Timeout = timeout
	}
	return equity.New(eval, opts), nil
}

func (a *app) table() (*pushfold.Table, error) {
	return pushfold.LoadFile(a.cfg.PushFold.Table, a.logger)
}

func (a *app) store(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, a.cfg.Store.Driver, a.cfg.Store.DSN, nil)
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down gracefully", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("pushfold"),
		kong.Description("Poker range, push/fold and equity toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
}

// run parses args and executes the selected command.
func run(args []string, in io.Reader, out, errOut io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		return err
	}
	parser.Stdout = out
	parser.Stderr = errOut

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	a, err := newApp(&cli, in, out, errOut)
	if err != nil {
		return err
	}
	return ctx.Run(a)
}

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "pushfold: %v\n", err)
		os.Exit(1)
	}
}
