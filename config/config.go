package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AgnopraxLab/treemut/codec"
	"github.com/AgnopraxLab/treemut/grammar"
	"github.com/AgnopraxLab/treemut/mutation"
)

// EnvConfigPath names the environment variable holding the configuration
// path for hosts that cannot pass flags.
const EnvConfigPath = "TREEMUT_CONFIG"

// Config represents the main configuration structure
type Config struct {
	Codec    codec.Config             `yaml:"codec"`
	Grammar  grammar.Config           `yaml:"grammar"`
	Mutation *mutation.MutationConfig `yaml:"mutation"`
	Log      LogConfig                `yaml:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Directory string `yaml:"directory"`
	Verbosity int    `yaml:"verbosity"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Codec:    codec.DefaultConfig(),
		Grammar:  grammar.DefaultConfig(),
		Mutation: mutation.DefaultMutationConfig(),
	}
}

// LoadConfig loads configuration from the specified YAML file. Sections
// missing from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML over the defaults
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Mutation == nil {
		config.Mutation = mutation.DefaultMutationConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return config, nil
}

// LoadFromEnv loads the file named by EnvConfigPath, or returns the defaults
// when the variable is unset.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// Validate checks every section
func (c *Config) Validate() error {
	if c.Mutation == nil {
		return errors.New("mutation section missing")
	}
	if err := c.Codec.Validate(); err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	if err := c.Grammar.Validate(); err != nil {
		return fmt.Errorf("grammar: %w", err)
	}
	if err := c.Mutation.Validate(); err != nil {
		return fmt.Errorf("mutation: %w", err)
	}
	return nil
}

// GetLogPath returns the log directory, empty for console only
func (c *Config) GetLogPath() string {
	return c.Log.Directory
}

// PrintConfig prints the current configuration (for debugging)
func (c *Config) PrintConfig(w io.Writer) {
	fmt.Fprintln(w, "=== treemut Configuration ===")
	fmt.Fprintf(w, "Max Encoded Size: %d\n", c.Codec.MaxSize)
	if c.Grammar.Directory == "" {
		fmt.Fprintln(w, "Grammar: built-in")
	} else {
		fmt.Fprintf(w, "Grammar Directory: %s\n", c.Grammar.Directory)
	}
	fmt.Fprintf(w, "Tokens per Root: %d-%d\n", c.Grammar.MinTokens, c.Grammar.MaxTokens)
	fmt.Fprintf(w, "Max Repeat: %d\n", c.Grammar.MaxRepeat)
	fmt.Fprintf(w, "Seed: %d\n", c.Mutation.Seed)
	weights := c.Mutation.Weights
	fmt.Fprintf(w, "Weights: insert=%d remove=%d replace=%d append=%d\n", weights.Insert, weights.Remove, weights.Replace, weights.Append)
	fmt.Fprintf(w, "Log Directory: %s\n", c.GetLogPath())
	fmt.Fprintln(w, "==============================")
}
