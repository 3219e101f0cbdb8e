// Copyright 2024 The Ruchy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package token_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/token"
)

func TestLookupRecognizesKeywords(t *testing.T) {
	qt.Assert(t, qt.Equals(token.Lookup("let"), token.LET))
	qt.Assert(t, qt.Equals(token.Lookup("match"), token.MATCH))
	qt.Assert(t, qt.Equals(token.Lookup("fn"), token.FUN))
	qt.Assert(t, qt.Equals(token.Lookup("fun"), token.FUN))
}

func TestLookupFallsBackToIdent(t *testing.T) {
	qt.Assert(t, qt.Equals(token.Lookup("fibonacci"), token.IDENT))
	qt.Assert(t, qt.Equals(token.Lookup("let_me_in"), token.IDENT))
}

func TestTokenClassification(t *testing.T) {
	qt.Assert(t, qt.IsTrue(token.INT.IsLiteral()))
	qt.Assert(t, qt.IsFalse(token.LET.IsLiteral()))
	qt.Assert(t, qt.IsTrue(token.ADD.IsOperator()))
	qt.Assert(t, qt.IsFalse(token.IDENT.IsOperator()))
	qt.Assert(t, qt.IsTrue(token.MATCH.IsKeyword()))
	qt.Assert(t, qt.IsFalse(token.IDENT.IsKeyword()))
}

func TestPrecedenceTableOrdering(t *testing.T) {
	// pipeline binds looser than logical-or, which binds
	// looser than equality, which binds looser than additive, which binds
	// looser than multiplicative, which binds looser than power.
	qt.Assert(t, qt.IsTrue(token.BinaryPrecedence(token.PIPELINE) < token.BinaryPrecedence(token.LOR)))
	qt.Assert(t, qt.IsTrue(token.BinaryPrecedence(token.LOR) < token.BinaryPrecedence(token.LAND)))
	qt.Assert(t, qt.IsTrue(token.BinaryPrecedence(token.LAND) < token.BinaryPrecedence(token.EQL)))
	qt.Assert(t, qt.IsTrue(token.BinaryPrecedence(token.EQL) < token.BinaryPrecedence(token.LSS)))
	qt.Assert(t, qt.IsTrue(token.BinaryPrecedence(token.ADD) < token.BinaryPrecedence(token.MUL)))
	qt.Assert(t, qt.IsTrue(token.BinaryPrecedence(token.MUL) < token.BinaryPrecedence(token.POW)))
}

func TestAssignAndPowAreRightAssociative(t *testing.T) {
	qt.Assert(t, qt.IsTrue(token.IsRightAssociative(token.ASSIGN)))
	qt.Assert(t, qt.IsTrue(token.IsRightAssociative(token.POW)))
	qt.Assert(t, qt.IsFalse(token.IsRightAssociative(token.ADD)))
	qt.Assert(t, qt.IsFalse(token.IsRightAssociative(token.LAND)))
}

func TestSpanSliceAndUnion(t *testing.T) {
	src := "let x = 42"
	s := token.Span{Start: 8, End: 10}
	qt.Assert(t, qt.Equals(s.Slice(src), "42"))

	a := token.Span{Start: 0, End: 3}
	b := token.Span{Start: 8, End: 10}
	u := a.Union(b)
	qt.Assert(t, qt.Equals(u, token.Span{Start: 0, End: 10}))
}

func TestSpanUnionIgnoresInvalidOperand(t *testing.T) {
	a := token.Span{Start: 2, End: 5}
	qt.Assert(t, qt.Equals(a.Union(token.NoSpan), a))
	qt.Assert(t, qt.Equals(token.NoSpan.Union(a), a))
}

func TestPositionInCountsLinesAndColumns(t *testing.T) {
	src := "let x = 1\nlet y = 2"
	pos := token.PositionIn(src, "f.ru", token.Pos(14)) // 'y'
	qt.Assert(t, qt.Equals(pos.Line, 2))
	qt.Assert(t, qt.Equals(pos.Column, 5))
	qt.Assert(t, qt.Equals(pos.Filename, "f.ru"))
}

func TestFileSetAgreesWithPositionIn(t *testing.T) {
	src := "a\nbb\nccc\nd"
	fs := token.NewFileSet("f.ru", src)
	for _, off := range []int{0, 2, 5, 9} {
		want := token.PositionIn(src, "f.ru", token.Pos(off))
		got := fs.Position(token.Pos(off))
		qt.Assert(t, qt.Equals(got, want))
	}
}
