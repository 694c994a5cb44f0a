package mutation

import (
	"math"
	"math/rand"
)

// Policy assigns a sampling weight to a candidate of a sequence of length n.
type Policy interface {
	Weight(m Mutation, n int) uint64
}

// WeightedReservoirSampler selects one item from a stream of weighted items
// in a single pass. After the stream ends, each item has been selected with
// probability weight/total.
type WeightedReservoirSampler[T any] struct {
	rng      *rand.Rand
	total    uint64
	selected T
}

// NewWeightedReservoirSampler creates a sampler whose selection is initial
// until a candidate with a nonzero weight is considered.
func NewWeightedReservoirSampler[T any](rng *rand.Rand, initial T) *WeightedReservoirSampler[T] {
	return &WeightedReservoirSampler[T]{rng: rng, selected: initial}
}

// Consider offers a candidate and reports whether it became the selection.
// Zero-weight candidates are skipped without touching the running total.
func (s *WeightedReservoirSampler[T]) Consider(candidate T, weight uint64) bool {
	if !s.pick(weight) {
		return false
	}
	s.selected = candidate
	return true
}

// Selected returns the current selection.
func (s *WeightedReservoirSampler[T]) Selected() T {
	return s.selected
}

// TotalWeight returns the sum of all nonzero weights considered so far.
func (s *WeightedReservoirSampler[T]) TotalWeight() uint64 {
	return s.total
}

func (s *WeightedReservoirSampler[T]) pick(weight uint64) bool {
	if weight == 0 {
		return false
	}
	s.total += weight
	return weight == s.total || s.uniform(s.total) < weight
}

// uniform returns a uniform draw from [0, n).
func (s *WeightedReservoirSampler[T]) uniform(n uint64) uint64 {
	if n <= math.MaxInt64 {
		return uint64(s.rng.Int63n(int64(n)))
	}
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		if v := s.rng.Uint64(); v < limit {
			return v % n
		}
	}
}

// Select samples one mutation for a sequence of length n under policy.
// When every candidate has zero weight the result is Append.
func Select(rng *rand.Rand, n int, policy Policy) Mutation {
	sampler := NewWeightedReservoirSampler(rng, Mutation{Kind: Append, Index: n})
	Candidates(n, func(m Mutation) {
		sampler.Consider(m, policy.Weight(m, n))
	})
	return sampler.Selected()
}
