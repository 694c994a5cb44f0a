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

// Start states of the built-in grammar.
const (
	StateInitial uint64 = 0
	StateComment uint64 = 1
)

const (
	lower    = "abcdefghijklmnopqrstuvwxyz"
	upper    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits   = "0123456789"
	hexChars = digits + "abcdefABCDEF"
)

// DefaultRules returns a small C-like lexer used when no grammar directory
// is configured.
func DefaultRules() []Rule {
	ident := Then(Set(lower+upper+"_"), Star(Set(lower+upper+digits+"_")))
	keyword := Or(
		Literal("if"), Literal("else"), Literal("while"), Literal("for"),
		Literal("return"), Literal("int"), Literal("char"), Literal("struct"),
	)
	number := Or(
		Plus(Set(digits)),
		Then(Literal("0x"), Plus(Set(hexChars))),
	)
	str := Then(Literal(`"`), Star(Or(Set(lower+upper+digits+" .,:"), Literal(`\"`), Literal(`\n`))), Literal(`"`))
	operator := Or(
		Set("+-*/%=<>!&|^~?:"),
		Literal("=="), Literal("!="), Literal("<="), Literal(">="),
		Literal("&&"), Literal("||"), Literal("<<"), Literal(">>"), Literal("->"),
	)
	punct := Set("(){}[];,.")
	space := Plus(Set(" \t\n"))
	comment := Then(Literal("/*"), Star(Set(lower+upper+digits+" *\n")), Literal("*/"))
	lineComment := Then(Literal("//"), Star(Set(lower+upper+digits+" ")), Optional(Literal("\n")))

	return []Rule{
		{ID: 1, State: StateInitial, Regexp: keyword},
		{ID: 2, State: StateInitial, Regexp: ident},
		{ID: 3, State: StateInitial, Regexp: number},
		{ID: 4, State: StateInitial, Regexp: str},
		{ID: 5, State: StateInitial, Regexp: operator},
		{ID: 6, State: StateInitial, Regexp: punct},
		{ID: 7, State: StateInitial, Regexp: space},
		{ID: 8, State: StateComment, Regexp: comment},
		{ID: 9, State: StateComment, Regexp: lineComment},
	}
}
