package mutation

import "fmt"

// DefaultMutateWeight is the weight every candidate kind gets by default.
const DefaultMutateWeight uint64 = 1000000

// MaxMutateWeight bounds a single kind's weight so the running total of a
// sampling pass cannot overflow.
const MaxMutateWeight uint64 = 1 << 40

// MutationConfig holds configuration for mutation operations
type MutationConfig struct {
	Seed int64 `yaml:"seed"` // Random seed, 0 means use current time

	// Per-kind candidate weights
	Weights WeightConfig `yaml:"weights"`

	// Logging and debugging
	LogMutations bool `yaml:"log_mutations"` // Log every applied mutation
}

// WeightConfig assigns a sampling weight to each mutation kind. A zero
// weight disables the kind.
type WeightConfig struct {
	Insert  uint64 `yaml:"insert"`
	Remove  uint64 `yaml:"remove"`
	Replace uint64 `yaml:"replace"`
	Append  uint64 `yaml:"append"`
}

// DefaultMutationConfig returns a default mutation configuration
func DefaultMutationConfig() *MutationConfig {
	return &MutationConfig{
		Seed: 0, // Use current time
		Weights: WeightConfig{
			Insert:  DefaultMutateWeight,
			Remove:  DefaultMutateWeight,
			Replace: DefaultMutateWeight,
			Append:  DefaultMutateWeight,
		},
		LogMutations: false,
	}
}

// Weight implements Policy: every candidate of a kind gets the kind's weight.
func (w WeightConfig) Weight(m Mutation, _ int) uint64 {
	switch m.Kind {
	case Insert:
		return w.Insert
	case Remove:
		return w.Remove
	case Replace:
		return w.Replace
	case Append:
		return w.Append
	}
	return 0
}

// Validate validates the mutation configuration
func (c *MutationConfig) Validate() error {
	w := c.Weights
	for name, v := range map[string]uint64{
		"insert":  w.Insert,
		"remove":  w.Remove,
		"replace": w.Replace,
		"append":  w.Append,
	} {
		if v > MaxMutateWeight {
			return fmt.Errorf("weights.%s must not exceed %d, got %d", name, MaxMutateWeight, v)
		}
	}
	if w.Append == 0 {
		return fmt.Errorf("weights.append must be positive so an empty tree can be mutated")
	}
	return nil
}

// Clone creates a deep copy of the mutation configuration
func (c *MutationConfig) Clone() *MutationConfig {
	return &MutationConfig{
		Seed:         c.Seed,
		Weights:      c.Weights,
		LogMutations: c.LogMutations,
	}
}
