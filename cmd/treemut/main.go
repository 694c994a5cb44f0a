package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/AgnopraxLab/treemut/bridge"
	"github.com/AgnopraxLab/treemut/codec"
	"github.com/AgnopraxLab/treemut/config"
	"github.com/AgnopraxLab/treemut/flags"
	"github.com/AgnopraxLab/treemut/grammar"
	"github.com/AgnopraxLab/treemut/mutation"
	"github.com/AgnopraxLab/treemut/utils"
)

var (
	app = initApp()
)

func initApp() *cli.App {
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Authors = []*cli.Author{{Name: "Fudong and Hosen"}}
	app.Usage = "Grammar-aware tree mutator tools"
	app.Flags = append(app.Flags, flags.GlobalFlags...)
	app.Commands = []*cli.Command{
		dumpCommand,
		genCommand,
		mutateCommand,
		spliceCommand,
		configCommand,
	}
	return app
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env holds everything a command needs, built from the config file and the
// global flags.
type env struct {
	config  *config.Config
	logger  *utils.Logger
	grammar *grammar.Grammar
	codec   *codec.Codec
	rng     *rand.Rand
	bridge  *bridge.Bridge
}

func newEnv(ctx *cli.Context) (*env, error) {
	cfg := config.DefaultConfig()
	if path := ctx.String(flags.ConfigFlag.Name); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if ctx.IsSet(flags.SeedFlag.Name) {
		cfg.Mutation.Seed = ctx.Int64(flags.SeedFlag.Name)
	}
	if ctx.IsSet(flags.VerbosityFlag.Name) {
		cfg.Log.Verbosity = ctx.Int(flags.VerbosityFlag.Name)
	}
	if ctx.IsSet(flags.LogDirFlag.Name) {
		cfg.Log.Directory = ctx.String(flags.LogDirFlag.Name)
	}

	loglevel := slog.Level(cfg.Log.Verbosity)
	logger, err := utils.NewLogger(cfg.GetLogPath(), loglevel)
	if err != nil {
		return nil, err
	}
	log.SetDefault(logger.Logger)
	log.Root().Write(loglevel, "Set loglevel", "level", loglevel)

	g, err := grammar.Load(cfg.Grammar)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to load grammar: %w", err)
	}
	log.Debug("Loaded grammar", "rules", g.NumRules(), "states", len(g.States()))

	c := codec.New(cfg.Codec)
	rng := mutation.NewRand(cfg.Mutation.Seed)
	return &env{
		config:  cfg,
		logger:  logger,
		grammar: g,
		codec:   c,
		rng:     rng,
		bridge:  bridge.New(g, c, cfg.Mutation, bridge.WithLogger(logger.Logger), bridge.WithRand(rng)),
	}, nil
}

func (e *env) logStats() {
	stats := e.bridge.Stats()
	log.Debug("Bridge stats",
		"mutations", stats.Mutations,
		"fallbacks", stats.Fallbacks,
		"renders", stats.Renders,
		"splices", stats.Splices,
		"decodeFailures", stats.DecodeFailures,
		"overflows", stats.Overflows)
}

func (e *env) Close() error {
	return e.logger.Close()
}

// withEnv wraps a command action with env setup and teardown
func withEnv(action func(*cli.Context, *env) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		e, err := newEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		defer e.logStats()
		return action(ctx, e)
	}
}
