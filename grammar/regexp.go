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

package grammar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
)

// Kind identifies the operator of a regexp node.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindSet
	KindThen
	KindOr
	KindOptional
	KindStar
	KindPlus
)

const (
	// optionalTakeProb is the probability that an Optional node emits its operand.
	optionalTakeProb = 0.5
	// repeatStopProb is the per-iteration probability that Star and Plus stop repeating.
	repeatStopProb = 0.3
)

var kindTags = map[string]Kind{
	"Literal":   KindLiteral,
	"RESet":     KindSet,
	"Then":      KindThen,
	"Or":        KindOr,
	"Optional":  KindOptional,
	"Star":      KindStar,
	"OneOrMore": KindPlus,
}

var errEmptyRegexp = errors.New("regexp has no operands")

// String returns the tag used for the kind in regexp documents.
func (k Kind) String() string {
	for tag, kind := range kindTags {
		if kind == k {
			return tag
		}
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Regexp is one node of a lexer rule. Literal and RESet nodes carry bytes,
// every other kind carries sub-expressions.
type Regexp struct {
	Kind  Kind
	Bytes []byte
	Subs  []*Regexp
}

type regexpDoc struct {
	Tag      string          `json:"tag"`
	Contents json.RawMessage `json:"contents"`
}

// ParseRegexp decodes a regexp document of the form {"tag": ..., "contents": ...}.
func ParseRegexp(data []byte) (*Regexp, error) {
	re := new(Regexp)
	if err := json.Unmarshal(data, re); err != nil {
		return nil, fmt.Errorf("failed to parse regexp: %w", err)
	}
	return re, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (re *Regexp) UnmarshalJSON(data []byte) error {
	var doc regexpDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	kind, ok := kindTags[doc.Tag]
	if !ok {
		return fmt.Errorf("unknown regexp tag %q", doc.Tag)
	}
	re.Kind = kind

	items, err := splitContents(doc.Contents)
	if err != nil {
		return fmt.Errorf("%s: %w", doc.Tag, err)
	}
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			sub := new(Regexp)
			if err := sub.UnmarshalJSON(item); err != nil {
				return err
			}
			re.Subs = append(re.Subs, sub)
			continue
		}
		var b uint8
		if err := json.Unmarshal(item, &b); err != nil {
			return fmt.Errorf("%s: invalid byte %s: %w", doc.Tag, item, err)
		}
		if re.isLeaf() {
			re.Bytes = append(re.Bytes, b)
		} else {
			// A bare byte inside a composite stands for a one-byte literal.
			re.Subs = append(re.Subs, &Regexp{Kind: KindLiteral, Bytes: []byte{b}})
		}
	}
	return re.validate()
}

func splitContents(raw json.RawMessage) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] != '[' {
		return []json.RawMessage{raw}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (re *Regexp) isLeaf() bool {
	return re.Kind == KindLiteral || re.Kind == KindSet
}

func (re *Regexp) validate() error {
	switch re.Kind {
	case KindSet:
		if len(re.Bytes) == 0 {
			return fmt.Errorf("RESet: %w", errEmptyRegexp)
		}
	case KindThen, KindOr, KindOptional, KindStar, KindPlus:
		if len(re.Subs) == 0 {
			return fmt.Errorf("%v: %w", re.Kind, errEmptyRegexp)
		}
	}
	return nil
}

// Solve appends one random string matched by the regexp to dst. Star and
// Plus repeat at most maxRepeat times.
func (re *Regexp) Solve(r *rand.Rand, maxRepeat int, dst []byte) []byte {
	switch re.Kind {
	case KindLiteral:
		return append(dst, re.Bytes...)
	case KindSet:
		return append(dst, re.Bytes[r.Intn(len(re.Bytes))])
	case KindThen:
		for _, sub := range re.Subs {
			dst = sub.Solve(r, maxRepeat, dst)
		}
		return dst
	case KindOr:
		return re.Subs[r.Intn(len(re.Subs))].Solve(r, maxRepeat, dst)
	case KindOptional:
		if r.Float64() >= optionalTakeProb {
			dst = re.Subs[r.Intn(len(re.Subs))].Solve(r, maxRepeat, dst)
		}
		return dst
	case KindStar:
		return re.repeat(r, maxRepeat, maxRepeat, dst)
	case KindPlus:
		dst = re.Subs[0].Solve(r, maxRepeat, dst)
		return re.repeat(r, maxRepeat, maxRepeat-1, dst)
	}
	return dst
}

func (re *Regexp) repeat(r *rand.Rand, maxRepeat, times int, dst []byte) []byte {
	for i := 0; i < times && r.Float64() >= repeatStopProb; i++ {
		dst = re.Subs[0].Solve(r, maxRepeat, dst)
	}
	return dst
}

// Literal builds a regexp matching exactly s.
func Literal(s string) *Regexp {
	return &Regexp{Kind: KindLiteral, Bytes: []byte(s)}
}

// Set builds a regexp matching any single byte of s.
func Set(s string) *Regexp {
	return &Regexp{Kind: KindSet, Bytes: []byte(s)}
}

// Then builds the concatenation of subs.
func Then(subs ...*Regexp) *Regexp {
	return &Regexp{Kind: KindThen, Subs: subs}
}

// Or builds an alternation over subs.
func Or(subs ...*Regexp) *Regexp {
	return &Regexp{Kind: KindOr, Subs: subs}
}

// Optional builds sub?.
func Optional(sub *Regexp) *Regexp {
	return &Regexp{Kind: KindOptional, Subs: []*Regexp{sub}}
}

// Star builds sub*.
func Star(sub *Regexp) *Regexp {
	return &Regexp{Kind: KindStar, Subs: []*Regexp{sub}}
}

// Plus builds sub+.
func Plus(sub *Regexp) *Regexp {
	return &Regexp{Kind: KindPlus, Subs: []*Regexp{sub}}
}
