package flags

import (
	"github.com/urfave/cli/v2"

	"github.com/AgnopraxLab/treemut/config"
)

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML configuration file (default = built-in settings)",
		EnvVars: []string{config.EnvConfigPath},
	}
	SeedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Seed for the RNG, overrides the config file (Default = RandomSeed)",
		Value: 0,
	}
	VerbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "sets the verbosity level (-8: TRACE, -4: DEBUG, 0: INFO, 4: WARN, 8: ERROR)",
		Value: 0,
	}
	LogDirFlag = &cli.StringFlag{
		Name:  "logdir",
		Usage: "Directory for log files, overrides the config file (default = console only)",
	}
	CountFlag = &cli.IntFlag{
		Name:  "count",
		Usage: "Number of seeds that should be generated",
		Value: 16,
	}
	LocationFlag = &cli.StringFlag{
		Name:  "outdir",
		Usage: "Location to place artefacts",
		Value: "/tmp",
	}
	OutFlag = &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Output file",
	}
	HexFlag = &cli.BoolFlag{
		Name:  "hex",
		Usage: "Also print the raw encoding as hex",
	}
)

// GlobalFlags are accepted by every command
var GlobalFlags = []cli.Flag{
	ConfigFlag,
	SeedFlag,
	VerbosityFlag,
	LogDirFlag,
}
