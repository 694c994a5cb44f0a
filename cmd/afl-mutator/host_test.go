package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AgnopraxLab/treemut/codec"
	"github.com/AgnopraxLab/treemut/config"
	"github.com/AgnopraxLab/treemut/grammar"
)

const testScratch = 4096

func newTestHost(t *testing.T, cfg *config.Config) (*host, [3][]byte) {
	t.Helper()
	mem := [3][]byte{make([]byte, testScratch), make([]byte, testScratch), make([]byte, testScratch)}
	h, err := newHost(cfg, 1, mem[0], mem[1], mem[2])
	require.NoError(t, err)
	t.Cleanup(h.close)
	return h, mem
}

func encodeTokens(t *testing.T, texts ...string) []byte {
	t.Helper()
	root := &grammar.Root{}
	for _, text := range texts {
		root.Children = append(root.Children, grammar.Token{Text: []byte(text)})
	}
	data, err := codec.New(codec.DefaultConfig()).EncodeToBytes(root)
	require.NoError(t, err)
	return data
}

// TestHost_Fuzz tests that mutations land in the caller's memory
func TestHost_Fuzz(t *testing.T) {
	h, mem := newTestHost(t, config.DefaultConfig())

	out := h.fuzz([]byte{0xde, 0xad, 0xbe}, 1024)
	require.NotEmpty(t, out)
	assert.LessOrEqual(t, len(out), 1024)
	assert.Same(t, &mem[0][0], &out[0])

	_, err := codec.New(codec.DefaultConfig()).Decode(out)
	assert.NoError(t, err)
}

// TestHost_PostProcess tests rendering into the caller's memory
func TestHost_PostProcess(t *testing.T) {
	h, mem := newTestHost(t, config.DefaultConfig())

	out := h.postProcess(encodeTokens(t, "a", "=", "1"))
	assert.Equal(t, "a=1", string(out))
	assert.Equal(t, "a=1", string(mem[1][:3]))

	assert.Empty(t, h.postProcess([]byte{0xff}))
}

// TestHost_Splice tests splicing and its failure case
func TestHost_Splice(t *testing.T) {
	h, mem := newTestHost(t, config.DefaultConfig())
	valid := encodeTokens(t, "x")

	out := h.splice(valid, valid)
	require.NotEmpty(t, out)
	assert.Same(t, &mem[2][0], &out[0])

	assert.Empty(t, h.splice(valid, []byte{0x7f}))
}

// TestHost_Guard tests that panics become empty results
func TestHost_Guard(t *testing.T) {
	h, _ := newTestHost(t, config.DefaultConfig())

	out := h.guard("test", func() []byte { panic("boom") })
	assert.Nil(t, out)
}

// TestHost_SeedFromFuzzer tests that the fuzzer seed applies only without a configured one
func TestHost_SeedFromFuzzer(t *testing.T) {
	cfg := config.DefaultConfig()
	h1, _ := newTestHost(t, cfg)
	h2, _ := newTestHost(t, cfg)
	input := encodeTokens(t, "a", "b", "c")

	assert.Equal(t, h1.fuzz(input, 1024), h2.fuzz(input, 1024))
	assert.Equal(t, int64(0), cfg.Mutation.Seed)
}

// TestLoadConfig tests the environment lookup
func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treemut.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codec:\n  max_size: 2048\n"), 0644))

	t.Setenv(config.EnvConfigPath, path)
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.Codec.MaxSize)

	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = loadConfig()
	assert.Error(t, err)
}
