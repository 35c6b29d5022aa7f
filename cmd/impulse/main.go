package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jakecoffman/impulse"
	"github.com/jakecoffman/impulse/config"
	"github.com/jakecoffman/impulse/internal/scenario"
	"github.com/pkg/errors"
)

type options struct {
	configPath string
	scenario   string
	steps      int
	dt         float64
	headless   bool
	verbose    bool
	trace      bool
	list       bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flag.StringVar(&opts.scenario, "scenario", "", "scenario to run (see -list)")
	flag.IntVar(&opts.steps, "steps", -1, "number of steps to run headless")
	flag.Float64Var(&opts.dt, "dt", 0, "fixed step size in seconds")
	flag.BoolVar(&opts.headless, "headless", false, "run without a terminal view and log final poses")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.BoolVar(&opts.trace, "vv", false, "solver trace logging")
	flag.BoolVar(&opts.list, "list", false, "list scenarios and exit")
	flag.Parse()

	if opts.list {
		for _, name := range scenario.Names() {
			fmt.Println(name)
		}
		return
	}

	log := newLogger(opts, os.Stderr)
	impulse.SetLogger(log)

	if err := run(opts, log); err != nil {
		log.Error("impulse failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(opts options, w *os.File) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case opts.trace:
		level = impulse.LevelTrace
	case opts.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// settings is the resolved configuration. Scenarios carry their own world
// settings; those from a config file are only applied when one was given.
type settings struct {
	config.Config
	applyWorld bool
}

// resolve merges the config file with the flags; flags win.
func resolve(opts options) (settings, error) {
	cfg := settings{Config: config.Default()}
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = settings{Config: loaded, applyWorld: true}
	}
	if opts.scenario != "" {
		cfg.Run.Scenario = opts.scenario
	}
	if opts.steps >= 0 {
		cfg.Run.Steps = opts.steps
	}
	if opts.dt != 0 {
		cfg.Run.Dt = opts.dt
	}
	return cfg, cfg.Validate()
}

// load builds the configured scenario world.
func load(cfg settings) (scenario.Scenario, *impulse.World, error) {
	s, err := scenario.Lookup(cfg.Run.Scenario)
	if err != nil {
		return nil, nil, err
	}
	w, err := s.Create()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create %s", s.Name())
	}
	if cfg.applyWorld {
		if err := cfg.World.Apply(w); err != nil {
			return nil, nil, errors.Wrap(err, "apply config")
		}
	}
	return s, w, nil
}

func run(opts options, log *slog.Logger) error {
	cfg, err := resolve(opts)
	if err != nil {
		return err
	}
	log.Info("starting", "scenario", cfg.Run.Scenario, "dt", cfg.Run.Dt, "steps", cfg.Run.Steps)

	if opts.headless {
		return headless(cfg, log)
	}
	return interactive(cfg, log)
}
