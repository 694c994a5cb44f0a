package main

import (
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/log"

	"github.com/AgnopraxLab/treemut/bridge"
	"github.com/AgnopraxLab/treemut/codec"
	"github.com/AgnopraxLab/treemut/config"
	"github.com/AgnopraxLab/treemut/grammar"
	"github.com/AgnopraxLab/treemut/utils"
)

// host is the per-handle state behind the exported functions. The exports
// only translate between C and Go memory; everything else happens here.
type host struct {
	bridge *bridge.Bridge
	logger *utils.Logger
}

// newHost builds a bridge backed by the given scratch memory. A zero seed in
// the configuration is replaced by the seed the fuzzer passed to init.
func newHost(cfg *config.Config, seed uint32, mutateMem, renderMem, spliceMem []byte) (*host, error) {
	logger, err := utils.NewLogger(cfg.GetLogPath(), slog.Level(cfg.Log.Verbosity))
	if err != nil {
		return nil, err
	}
	g, err := grammar.Load(cfg.Grammar)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to load grammar: %w", err)
	}
	mutationConfig := cfg.Mutation.Clone()
	if mutationConfig.Seed == 0 {
		mutationConfig.Seed = int64(seed)
	}
	b := bridge.New(g, codec.New(cfg.Codec), mutationConfig,
		bridge.WithLogger(logger.Logger),
		bridge.WithScratch(mutateMem, renderMem, spliceMem),
	)
	logger.Info("Initialized custom mutator", "rules", g.NumRules(), "seed", mutationConfig.Seed, "scratch", len(mutateMem))
	return &host{bridge: b, logger: logger}, nil
}

func (h *host) fuzz(buf []byte, maxSize int) []byte {
	return h.guard("fuzz", func() []byte { return h.bridge.Mutate(buf, maxSize) })
}

func (h *host) postProcess(buf []byte) []byte {
	return h.guard("post_process", func() []byte { return h.bridge.PreSaveRender(buf) })
}

func (h *host) splice(buf1, buf2 []byte) []byte {
	return h.guard("splicer", func() []byte { return h.bridge.Splice(buf1, buf2) })
}

func (h *host) close() {
	stats := h.bridge.Stats()
	h.logger.Info("Custom mutator finished",
		"mutations", stats.Mutations,
		"fallbacks", stats.Fallbacks,
		"renders", stats.Renders,
		"splices", stats.Splices,
		"decodeFailures", stats.DecodeFailures,
		"overflows", stats.Overflows)
	h.logger.Close()
}

// guard keeps panics from unwinding into the fuzzer
func (h *host) guard(op string, f func() []byte) (out []byte) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Recovered from panic", "op", op, "err", r)
			out = nil
		}
	}()
	return f()
}

// loadConfig reads the configuration named by the environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Error("Failed to load configuration", "env", config.EnvConfigPath, "err", err)
		return nil, err
	}
	return cfg, nil
}
