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

// Package bridge adapts the mutator to the host fuzzer. A Bridge owns the
// scratch buffers backing its results and never reports an error to the
// host: every failure is an empty result.
//
// A Bridge is not safe for concurrent use. The host keeps one Bridge per
// thread, and a result returned by a Bridge is valid until the next call of
// the same operation on that Bridge.
package bridge

import (
	"math/rand"

	"github.com/ethereum/go-ethereum/log"

	"github.com/AgnopraxLab/treemut/codec"
	"github.com/AgnopraxLab/treemut/grammar"
	"github.com/AgnopraxLab/treemut/mutation"
)

// Stats counts bridge activity.
type Stats struct {
	Mutations      uint64 // mutate calls
	Fallbacks      uint64 // mutate calls that generated a fresh tree
	Renders        uint64 // pre-save render calls
	Splices        uint64 // splice calls
	DecodeFailures uint64 // inputs rejected by the codec
	Overflows      uint64 // results dropped for exceeding their bound
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the diagnostics logger.
func WithLogger(logger log.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// WithRand injects the randomness source shared by mutation, generation and
// splicing.
func WithRand(rng *rand.Rand) Option {
	return func(b *Bridge) { b.rng = rng }
}

// WithScratch backs the three operations with caller-owned memory.
func WithScratch(mutate, render, splice []byte) Option {
	return func(b *Bridge) {
		b.mutateBuf = WrapScratch(mutate)
		b.renderBuf = WrapScratch(render)
		b.spliceBuf = WrapScratch(splice)
	}
}

// Bridge implements the host-facing operations.
type Bridge struct {
	grammar *grammar.Grammar
	codec   *codec.Codec
	config  *mutation.MutationConfig
	rng     *rand.Rand
	logger  log.Logger

	mutator *mutation.Mutator
	splicer *mutation.Splicer

	mutateBuf *Scratch
	renderBuf *Scratch
	spliceBuf *Scratch

	stats Stats
}

// New creates a bridge. Unless overridden, randomness is seeded from
// config.Seed and every scratch buffer holds c.MaxSize() bytes.
func New(g *grammar.Grammar, c *codec.Codec, config *mutation.MutationConfig, opts ...Option) *Bridge {
	b := &Bridge{
		grammar: g,
		codec:   c,
		config:  config,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = mutation.NewRand(config.Seed)
	}
	if b.logger == nil {
		b.logger = log.Root()
	}
	if b.mutateBuf == nil {
		b.mutateBuf = NewScratch(c.MaxSize())
		b.renderBuf = NewScratch(c.MaxSize())
		b.spliceBuf = NewScratch(c.MaxSize())
	}
	b.mutator = mutation.NewMutator(config, g, b.rng, b.logger)
	b.splicer = mutation.NewSplicer(g, b.rng)
	return b
}

// Mutator returns the mutator used by Mutate.
func (b *Bridge) Mutator() *mutation.Mutator {
	return b.mutator
}

// Stats returns a snapshot of the counters.
func (b *Bridge) Stats() Stats {
	return b.stats
}

// Mutate is MutateTo backed by the bridge's mutate scratch buffer. The
// output is bounded by maxSize and the scratch capacity.
func (b *Bridge) Mutate(data []byte, maxSize int) []byte {
	b.mutateBuf.Reset()
	out := b.mutateBuf.Space()
	if maxSize < len(out) {
		out = out[:max(maxSize, 0)]
	}
	b.mutateBuf.Commit(b.MutateTo(out, data))
	return b.mutateBuf.Bytes()
}

// MutateTo decodes data, applies exactly one mutation and encodes the result
// into the host-owned out, returning the encoded length. Input that does not
// decode is replaced by a freshly generated tree. A result that does not fit
// in out yields 0.
func (b *Bridge) MutateTo(out, data []byte) int {
	b.stats.Mutations++
	root, err := b.codec.Decode(data)
	if err != nil {
		b.stats.DecodeFailures++
		b.stats.Fallbacks++
		b.logger.Trace("Mutate input did not decode, generating a fresh tree", "size", len(data), "err", err)
		root = b.grammar.RandomRoot(b.rng)
	} else {
		b.mutator.Mutate(root)
	}
	return b.encode(out, root)
}

// PreSaveRender renders the tree encoded in data into the render scratch
// buffer and returns a view of it. Undecodable input gives an empty view.
func (b *Bridge) PreSaveRender(data []byte) []byte {
	b.stats.Renders++
	b.renderBuf.Reset()
	root, err := b.codec.Decode(data)
	if err != nil {
		b.stats.DecodeFailures++
		b.logger.Debug("Error deserializing pre-save input", "size", len(data), "err", err)
		return b.renderBuf.Bytes()
	}
	if size := root.TextLen(); size > b.renderBuf.Cap() {
		b.stats.Overflows++
		b.logger.Debug("Dropping oversized rendering", "size", size, "limit", b.renderBuf.Cap())
		return b.renderBuf.Bytes()
	}
	text := root.AppendText(b.renderBuf.Space()[:0])
	b.renderBuf.Commit(len(text))
	return b.renderBuf.Bytes()
}

// Splice validates that both inputs decode, then encodes a splice of two
// freshly generated trees into the splice scratch buffer. The inputs'
// content does not take part in the result. Any failure gives an empty view.
func (b *Bridge) Splice(data1, data2 []byte) []byte {
	b.stats.Splices++
	b.spliceBuf.Reset()
	for i, data := range [][]byte{data1, data2} {
		if _, err := b.codec.Decode(data); err != nil {
			b.stats.DecodeFailures++
			b.logger.Debug("Error splicing", "input", i+1, "size", len(data), "err", err)
			return b.spliceBuf.Bytes()
		}
	}
	root := b.splicer.Splice()
	b.spliceBuf.Commit(b.encode(b.spliceBuf.Space(), root))
	return b.spliceBuf.Bytes()
}

func (b *Bridge) encode(out []byte, root *grammar.Root) int {
	n, err := b.codec.Encode(out, root)
	if err != nil {
		b.stats.Overflows++
		b.logger.Debug("Dropping oversized output", "children", root.Len(), "limit", len(out), "err", err)
		return 0
	}
	return n
}
