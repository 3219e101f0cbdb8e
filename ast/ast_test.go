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

package ast_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/token"
)

func TestExprPosEndDelegateToSpan(t *testing.T) {
	e := &ast.Expr{Kind: ast.KindInteger, Span: token.Span{Start: 3, End: 5}}
	qt.Assert(t, qt.Equals(e.Pos(), token.Pos(3)))
	qt.Assert(t, qt.Equals(e.End(), token.Pos(5)))
}

func TestPatternNamesListWithRest(t *testing.T) {
	// [h, ...t] binds the head and the rest slice.
	p := &ast.Pattern{
		Kind: ast.PatternList,
		Elems: []*ast.Pattern{
			{Kind: ast.PatternIdentifier, Name: "h"},
		},
		Rest: &ast.Pattern{Kind: ast.PatternIdentifier, Name: "t"},
	}
	qt.Assert(t, qt.DeepEquals(p.Names(), []string{"h", "t"}))
}

func TestPatternNamesIgnoresWildcard(t *testing.T) {
	p := &ast.Pattern{
		Kind: ast.PatternTuple,
		Elems: []*ast.Pattern{
			{Kind: ast.PatternIdentifier, Name: "a"},
			{Kind: ast.PatternWildcard},
			{Kind: ast.PatternIdentifier, Name: "b"},
		},
	}
	qt.Assert(t, qt.DeepEquals(p.Names(), []string{"a", "b"}))
}

func TestPatternNamesEnumVariantPayload(t *testing.T) {
	p := &ast.Pattern{
		Kind:        ast.PatternEnumVariant,
		VariantName: "Some",
		Payload:     []*ast.Pattern{{Kind: ast.PatternIdentifier, Name: "x"}},
	}
	qt.Assert(t, qt.DeepEquals(p.Names(), []string{"x"}))
}

func TestWalkVisitsBinaryOperandsInOrder(t *testing.T) {
	left := &ast.Expr{Kind: ast.KindInteger, Int: 1}
	right := &ast.Expr{Kind: ast.KindInteger, Int: 2}
	bin := &ast.Expr{Kind: ast.KindBinary, Op: token.ADD, Left: left, Right: right}

	var visited []*ast.Expr
	ast.Walk(bin, func(e *ast.Expr) bool {
		visited = append(visited, e)
		return true
	}, nil)

	qt.Assert(t, qt.DeepEquals(visited, []*ast.Expr{bin, left, right}))
}

func TestWalkStopsDescentWhenBeforeReturnsFalse(t *testing.T) {
	inner := &ast.Expr{Kind: ast.KindInteger, Int: 1}
	outer := &ast.Expr{Kind: ast.KindUnary, Op: token.SUB, Operand: inner}

	var visited []*ast.Expr
	ast.Walk(outer, func(e *ast.Expr) bool {
		visited = append(visited, e)
		return false
	}, nil)

	qt.Assert(t, qt.HasLen(visited, 1))
	qt.Assert(t, qt.Equals(visited[0], outer))
}

func TestPrintIntegerAndBinary(t *testing.T) {
	e := &ast.Expr{
		Kind: ast.KindBinary,
		Op:   token.ADD,
		Left: &ast.Expr{Kind: ast.KindInteger, Int: 1},
		Right: &ast.Expr{
			Kind: ast.KindBinary, Op: token.MUL,
			Left:  &ast.Expr{Kind: ast.KindInteger, Int: 2},
			Right: &ast.Expr{Kind: ast.KindInteger, Int: 3},
		},
	}
	qt.Assert(t, qt.Equals(ast.Print(e), "(1 + (2 * 3))"))
}

func TestPrintStringEscapesQuotes(t *testing.T) {
	e := &ast.Expr{Kind: ast.KindString, Str: `say "hi"`}
	qt.Assert(t, qt.Equals(ast.Print(e), `"say \"hi\""`))
}

func TestPrintTupleSingleElementKeepsTrailingComma(t *testing.T) {
	e := &ast.Expr{Kind: ast.KindTuple, Items: []*ast.Expr{{Kind: ast.KindInteger, Int: 1}}}
	qt.Assert(t, qt.Equals(ast.Print(e), "(1,)"))
}
