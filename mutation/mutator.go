// Copyright 2024 Fudong and Hosen
// This file is part of the treemut library.
//
// The treemut library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The treemut library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the treemut library. If not, see <http://www.gnu.org/licenses/>.

// Package mutation selects and applies structural edits to token trees.
package mutation

import (
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/AgnopraxLab/treemut/grammar"
)

// NewRand returns a generator for seed; a zero seed uses the current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Mutator applies exactly one weighted-sampled edit per call. It is not
// safe for concurrent use; give every goroutine its own Mutator.
type Mutator struct {
	config  *MutationConfig
	grammar *grammar.Grammar
	policy  Policy
	rng     *rand.Rand
	logger  log.Logger
}

// NewMutator creates a new mutator drawing nodes from g and randomness from rng
func NewMutator(config *MutationConfig, g *grammar.Grammar, rng *rand.Rand, logger log.Logger) *Mutator {
	if logger == nil {
		logger = log.Root()
	}
	return &Mutator{
		config:  config,
		grammar: g,
		policy:  config.Weights,
		rng:     rng,
		logger:  logger,
	}
}

// SetPolicy replaces the weighting policy, which defaults to the configured
// per-kind weights.
func (m *Mutator) SetPolicy(policy Policy) {
	m.policy = policy
}

// Select samples a mutation for a tree with n children without applying it.
func (m *Mutator) Select(n int) Mutation {
	return Select(m.rng, n, m.policy)
}

// Mutate applies one sampled mutation to root and returns it.
func (m *Mutator) Mutate(root *grammar.Root) Mutation {
	n := root.Len()
	selected := m.Select(n)
	root.Children = Apply(root.Children, selected, func() grammar.Token {
		return m.grammar.RandomToken(m.rng)
	})
	if m.config.LogMutations {
		m.logger.Debug("Applied mutation", "mutation", selected, "before", n, "after", root.Len())
	}
	return selected
}

// GetConfig returns the current mutation configuration
func (m *Mutator) GetConfig() *MutationConfig {
	return m.config
}
