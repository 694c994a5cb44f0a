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

// Token is a single lexeme produced by solving one lexer rule.
// The field order is part of the wire encoding.
type Token struct {
	Rule  uint64
	State uint64
	Text  []byte
}

// AppendText appends the token's rendering to dst.
func (t Token) AppendText(dst []byte) []byte {
	return append(dst, t.Text...)
}

// Root is the tree handed between the host and the mutator: an ordered
// sequence of tokens.
type Root struct {
	Children []Token
}

// Len returns the number of children.
func (r *Root) Len() int {
	return len(r.Children)
}

// TextLen returns the length of the rendering without producing it.
func (r *Root) TextLen() int {
	n := 0
	for _, child := range r.Children {
		n += len(child.Text)
	}
	return n
}

// AppendText appends the in-order concatenation of the children's
// renderings to dst.
func (r *Root) AppendText(dst []byte) []byte {
	for _, child := range r.Children {
		dst = child.AppendText(dst)
	}
	return dst
}

// Pretty renders the tree as text.
func Pretty(r *Root) string {
	return string(r.AppendText(make([]byte, 0, r.TextLen())))
}
