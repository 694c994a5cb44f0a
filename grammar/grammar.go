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

// Package grammar provides the tree model the mutator works on: lexer rules
// expressed as regexps, tokens generated by solving them, and the root that
// holds a token sequence.
package grammar

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// RuleFileExt is the extension of rule files inside a grammar directory.
const RuleFileExt = ".regexp"

var ErrNoRules = errors.New("grammar has no rules")

// Config holds grammar loading and generation settings.
type Config struct {
	Directory string `yaml:"directory"`  // Directory of <rule>_<state>.regexp files, empty for the built-in grammar
	MinTokens int    `yaml:"min_tokens"` // Minimum children of a generated root
	MaxTokens int    `yaml:"max_tokens"` // Maximum children of a generated root
	MaxRepeat int    `yaml:"max_repeat"` // Cap on Star/Plus iterations
}

// DefaultConfig returns the default generation settings.
func DefaultConfig() Config {
	return Config{
		MinTokens: 5,
		MaxTokens: 10,
		MaxRepeat: 32,
	}
}

// Validate validates the grammar configuration
func (c Config) Validate() error {
	if c.MinTokens < 0 {
		return fmt.Errorf("min_tokens must not be negative, got %d", c.MinTokens)
	}
	if c.MaxTokens < c.MinTokens {
		return fmt.Errorf("max_tokens (%d) must not be below min_tokens (%d)", c.MaxTokens, c.MinTokens)
	}
	if c.MaxRepeat < 0 {
		return fmt.Errorf("max_repeat must not be negative, got %d", c.MaxRepeat)
	}
	return nil
}

// Rule is one lexer rule active in a start state.
type Rule struct {
	ID     uint64
	State  uint64
	Regexp *Regexp
}

// Grammar generates random tokens and roots from a set of lexer rules.
// It is immutable after construction and may be shared between goroutines
// as long as each caller brings its own *rand.Rand.
type Grammar struct {
	cfg    Config
	states []uint64
	rules  map[uint64][]Rule
}

// New creates a grammar over the given rules. Rules keep their relative
// order inside each state.
func New(cfg Config, rules []Rule) (*Grammar, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	g := &Grammar{
		cfg:   cfg,
		rules: make(map[uint64][]Rule),
	}
	for _, rule := range rules {
		if rule.Regexp == nil {
			return nil, fmt.Errorf("rule %d in state %d has no regexp", rule.ID, rule.State)
		}
		if _, ok := g.rules[rule.State]; !ok {
			g.states = append(g.states, rule.State)
		}
		g.rules[rule.State] = append(g.rules[rule.State], rule)
	}
	sort.Slice(g.states, func(i, j int) bool { return g.states[i] < g.states[j] })
	return g, nil
}

// Load returns the grammar described by cfg: the rules in cfg.Directory, or
// the built-in grammar when no directory is configured.
func Load(cfg Config) (*Grammar, error) {
	if cfg.Directory == "" {
		return New(cfg, DefaultRules())
	}
	return LoadDir(cfg)
}

// LoadDir loads every rule file in cfg.Directory, ordered by rule then state.
func LoadDir(cfg Config) (*Grammar, error) {
	paths, err := filepath.Glob(filepath.Join(cfg.Directory, "*"+RuleFileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list grammar directory: %w", err)
	}
	rules := make([]Rule, 0, len(paths))
	for _, path := range paths {
		id, state, err := ParseRuleFileName(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rule file: %w", err)
		}
		re, err := ParseRegexp(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		rules = append(rules, Rule{ID: id, State: state, Regexp: re})
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].ID != rules[j].ID {
			return rules[i].ID < rules[j].ID
		}
		return rules[i].State < rules[j].State
	})
	if len(rules) == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.Directory, ErrNoRules)
	}
	return New(cfg, rules)
}

// ParseRuleFileName extracts rule and state from a "<rule>_<state>.regexp" path.
func ParseRuleFileName(path string) (rule, state uint64, err error) {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	ruleStr, stateStr, ok := strings.Cut(name, "_")
	if !ok {
		return 0, 0, fmt.Errorf("malformed rule file name %q", filepath.Base(path))
	}
	if rule, err = strconv.ParseUint(ruleStr, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("malformed rule number in %q: %w", filepath.Base(path), err)
	}
	if state, err = strconv.ParseUint(stateStr, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("malformed state number in %q: %w", filepath.Base(path), err)
	}
	return rule, state, nil
}

// Config returns the generation settings.
func (g *Grammar) Config() Config {
	return g.cfg
}

// States returns the start states in ascending order.
func (g *Grammar) States() []uint64 {
	return append([]uint64(nil), g.states...)
}

// Rules returns the rules active in state.
func (g *Grammar) Rules(state uint64) []Rule {
	return g.rules[state]
}

// NumRules returns the total number of rules.
func (g *Grammar) NumRules() int {
	n := 0
	for _, rules := range g.rules {
		n += len(rules)
	}
	return n
}

// RandomToken picks a state uniformly, a rule of that state uniformly and
// solves it.
func (g *Grammar) RandomToken(r *rand.Rand) Token {
	state := g.states[r.Intn(len(g.states))]
	rules := g.rules[state]
	rule := rules[r.Intn(len(rules))]
	return Token{
		Rule:  rule.ID,
		State: rule.State,
		Text:  rule.Regexp.Solve(r, g.cfg.MaxRepeat, nil),
	}
}

// RandomRoot generates a root of MinTokens..MaxTokens independent tokens.
func (g *Grammar) RandomRoot(r *rand.Rand) *Root {
	n := g.cfg.MinTokens + r.Intn(g.cfg.MaxTokens-g.cfg.MinTokens+1)
	root := &Root{Children: make([]Token, 0, n)}
	for i := 0; i < n; i++ {
		root.Children = append(root.Children, g.RandomToken(r))
	}
	return root
}
