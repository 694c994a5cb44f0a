package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/AgnopraxLab/treemut/flags"
	"github.com/AgnopraxLab/treemut/grammar"
	"github.com/AgnopraxLab/treemut/utils"
)

// seedIndexFile lists the hashes written by gen, in generation order
const seedIndexFile = "seeds.txt"

var errNoOutput = errors.New("no output produced")

var (
	dumpCommand = &cli.Command{
		Name:      "dump",
		Usage:     "Decode an encoded tree and print its rendering",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{flags.HexFlag},
		Action:    withEnv(dump),
	}
	genCommand = &cli.Command{
		Name:   "gen",
		Usage:  "Generate random encoded trees as seeds",
		Flags:  []cli.Flag{flags.CountFlag, flags.LocationFlag},
		Action: withEnv(gen),
	}
	mutateCommand = &cli.Command{
		Name:      "mutate",
		Usage:     "Apply one mutation to an encoded tree",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{flags.OutFlag},
		Action:    withEnv(mutate),
	}
	spliceCommand = &cli.Command{
		Name:      "splice",
		Usage:     "Splice two encoded trees",
		ArgsUsage: "A B",
		Flags:     []cli.Flag{flags.OutFlag},
		Action:    withEnv(splice),
	}
	configCommand = &cli.Command{
		Name:   "config",
		Usage:  "Print the effective configuration",
		Action: withEnv(printConfig),
	}
)

func readArgs(ctx *cli.Context, n int) ([][]byte, error) {
	if ctx.NArg() != n {
		return nil, fmt.Errorf("expected %d file argument(s), got %d", n, ctx.NArg())
	}
	inputs := make([][]byte, n)
	for i := range inputs {
		data, err := os.ReadFile(ctx.Args().Get(i))
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		inputs[i] = data
	}
	return inputs, nil
}

// writeResult writes data to --out, or prints it as hex without it
func writeResult(ctx *cli.Context, data []byte) error {
	if len(data) == 0 {
		return errNoOutput
	}
	out := ctx.String(flags.OutFlag.Name)
	if out == "" {
		_, err := fmt.Fprintln(ctx.App.Writer, hexutil.Encode(data))
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Info("Wrote result", "file", out, "size", len(data))
	return nil
}

func dump(ctx *cli.Context, e *env) error {
	inputs, err := readArgs(ctx, 1)
	if err != nil {
		return err
	}
	data := inputs[0]
	if ctx.Bool(flags.HexFlag.Name) {
		fmt.Fprintln(ctx.App.Writer, hexutil.Encode(data))
	}
	root, err := e.codec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", ctx.Args().First(), err)
	}
	_, err = fmt.Fprintln(ctx.App.Writer, grammar.Pretty(root))
	return err
}

func gen(ctx *cli.Context, e *env) error {
	var (
		count = ctx.Int(flags.CountFlag.Name)
		dir   = ctx.String(flags.LocationFlag.Name)
		index = filepath.Join(dir, seedIndexFile)
	)
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := utils.InitHashFile(index, "treemut seeds"); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		data, err := e.codec.EncodeToBytes(e.grammar.RandomRoot(e.rng))
		if err != nil {
			return err
		}
		path, hash, err := utils.WriteSeed(dir, data)
		if err != nil {
			return err
		}
		if err := utils.AppendHashToFile(index, hash); err != nil {
			return err
		}
		log.Debug("Wrote seed", "file", path, "size", len(data))
	}
	log.Info("Generated seeds", "count", count, "dir", dir)
	return nil
}

func mutate(ctx *cli.Context, e *env) error {
	inputs, err := readArgs(ctx, 1)
	if err != nil {
		return err
	}
	return writeResult(ctx, e.bridge.Mutate(inputs[0], e.codec.MaxSize()))
}

func splice(ctx *cli.Context, e *env) error {
	inputs, err := readArgs(ctx, 2)
	if err != nil {
		return err
	}
	return writeResult(ctx, e.bridge.Splice(inputs[0], inputs[1]))
}

func printConfig(ctx *cli.Context, e *env) error {
	e.config.PrintConfig(ctx.App.Writer)
	return nil
}
