package mutation

import (
	"fmt"
	"slices"
)

// Kind is the structural edit a mutation performs.
type Kind uint8

const (
	Insert Kind = iota
	Remove
	Replace
	Append
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	case Append:
		return "append"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Mutation is one candidate edit of a child sequence. Index is ignored for
// Append.
type Mutation struct {
	Kind  Kind
	Index int
}

func (m Mutation) String() string {
	if m.Kind == Append {
		return "append"
	}
	return fmt.Sprintf("%v@%d", m.Kind, m.Index)
}

// Candidates calls yield for every edit of a sequence of length n, in
// sampling order: insert, remove and replace for each index, then append.
// It yields 3n+1 candidates.
func Candidates(n int, yield func(Mutation)) {
	for i := 0; i < n; i++ {
		yield(Mutation{Kind: Insert, Index: i})
		yield(Mutation{Kind: Remove, Index: i})
		yield(Mutation{Kind: Replace, Index: i})
	}
	yield(Mutation{Kind: Append, Index: n})
}

// Apply performs m on children and returns the resulting slice. fresh is
// called once for kinds that need a new node. m must have been enumerated
// against len(children).
func Apply[N any](children []N, m Mutation, fresh func() N) []N {
	switch m.Kind {
	case Insert:
		return slices.Insert(children, m.Index, fresh())
	case Remove:
		return slices.Delete(children, m.Index, m.Index+1)
	case Replace:
		children[m.Index] = fresh()
		return children
	default:
		return append(children, fresh())
	}
}
