package mutation

import (
	"math/rand"

	"github.com/AgnopraxLab/treemut/grammar"
)

// SplicingPoints draws two indices uniformly from [0, n) and returns them
// ordered so that a >= b. n must be positive.
func SplicingPoints(rng *rand.Rand, n int) (a, b int) {
	a = rng.Intn(n)
	b = rng.Intn(n)
	if b > a {
		a, b = b, a
	}
	return a, b
}

// SpliceRoots combines r1[:a], r2[c:d] and r1[b:] where (a, b) and (c, d)
// are splicing points of r1 and r2. The middle range only contributes when
// c < d, which the ordering of splicing points never produces, so the
// result is r1's prefix followed by its overlapping suffix.
func SpliceRoots(rng *rand.Rand, r1, r2 *grammar.Root) *grammar.Root {
	var a, b, c, d int
	if r1.Len() > 0 {
		a, b = SplicingPoints(rng, r1.Len())
	}
	if r2.Len() > 0 {
		c, d = SplicingPoints(rng, r2.Len())
	}

	children := make([]grammar.Token, 0, a+r1.Len()-b)
	children = append(children, r1.Children[:a]...)
	for i := c; i < d; i++ {
		children = append(children, r2.Children[i])
	}
	children = append(children, r1.Children[b:]...)
	return &grammar.Root{Children: children}
}

// Splicer builds spliced trees out of freshly generated ones. The trees
// supplied by the host are only validated by the caller and never read.
type Splicer struct {
	grammar *grammar.Grammar
	rng     *rand.Rand
}

// NewSplicer creates a splicer drawing trees from g.
func NewSplicer(g *grammar.Grammar, rng *rand.Rand) *Splicer {
	return &Splicer{grammar: g, rng: rng}
}

// Splice generates two random trees and splices them.
func (s *Splicer) Splice() *grammar.Root {
	r1 := s.grammar.RandomRoot(s.rng)
	r2 := s.grammar.RandomRoot(s.rng)
	return SpliceRoots(s.rng, r1, r2)
}
