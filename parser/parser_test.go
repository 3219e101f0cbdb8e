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

package parser_test

import (
	"testing"
	"testing/quick"
	"time"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/parser"
)

func TestParseExprPrecedenceMultiplicationBindsTighter(t *testing.T) {
	e, err := parser.ParseExpr("1 + 2 * 3")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ast.Print(e), "(1 + (2 * 3))"))
}

func TestParseExprPowerIsRightAssociative(t *testing.T) {
	e, err := parser.ParseExpr("2 ** 3 ** 2")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ast.Print(e), "(2 ** (3 ** 2))"))
}

func TestParseExprPipelineIsLeftAssociative(t *testing.T) {
	e, err := parser.ParseExpr("a |> f |> g")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindBinary))
	qt.Assert(t, qt.Equals(e.Left.Kind, ast.KindBinary))
}

func TestParseRangeExpression(t *testing.T) {
	e, err := parser.ParseExpr("0..5")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindRange))
	qt.Assert(t, qt.IsFalse(e.Inclusive))

	e2, err := parser.ParseExpr("1..=10")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e2.Kind, ast.KindRange))
	qt.Assert(t, qt.IsTrue(e2.Inclusive))
}

func TestParseRangeBoundsAreFullBinaryExpressions(t *testing.T) {
	e, err := parser.ParseExpr("n-1..n+1")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindRange))
	qt.Assert(t, qt.Equals(e.RangeStart.Kind, ast.KindBinary))
	qt.Assert(t, qt.Equals(e.RangeEnd.Kind, ast.KindBinary))
}

func TestParseArrowLambdaFormsEquivalentToBarLambda(t *testing.T) {
	e, err := parser.ParseExpr("x => x + 1")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindLambda))
	qt.Assert(t, qt.HasLen(e.Params, 1))

	e2, err := parser.ParseExpr("(a, b) => a + b")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e2.Kind, ast.KindLambda))
	qt.Assert(t, qt.HasLen(e2.Params, 2))

	e3, err := parser.ParseExpr("() => 42")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e3.Kind, ast.KindLambda))
	qt.Assert(t, qt.HasLen(e3.Params, 0))
}

func TestParseOrPatternAlternativesMustBindSameNames(t *testing.T) {
	_, err := parser.ParseExpr("match v { Ok(x) | Err(y) => 1, _ => 0 }")
	qt.Assert(t, qt.IsTrue(err != nil))

	e, err := parser.ParseExpr("match v { Ok(x) | Some(x) => x, _ => 0 }")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Arms[0].Pattern.Kind, ast.PatternOr))
}

func TestParseConstIsRejected(t *testing.T) {
	_, err := parser.ParseFile("f.ru", "const X = 1")
	qt.Assert(t, qt.IsTrue(err != nil))
}

func TestParseEmptyTupleIsUnit(t *testing.T) {
	e, err := parser.ParseExpr("()")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindUnit))
}

func TestParseSingleElementTupleRequiresTrailingComma(t *testing.T) {
	e, err := parser.ParseExpr("(1,)")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindTuple))
	qt.Assert(t, qt.HasLen(e.Items, 1))
}

func TestParseTrailingCommaInList(t *testing.T) {
	e, err := parser.ParseExpr("[1, 2, 3,]")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(e.Items, 3))
}

func TestParseListPatternWithRest(t *testing.T) {
	e, err := parser.ParseFile("f.ru", "let [h, ...t] = [1,2,3,4]")
	qt.Assert(t, qt.IsNil(err))
	letExpr := e.Block[0]
	qt.Assert(t, qt.Equals(letExpr.Kind, ast.KindLet))
	pat := letExpr.LetPattern
	qt.Assert(t, qt.Equals(pat.Kind, ast.PatternList))
	qt.Assert(t, qt.DeepEquals(pat.Names(), []string{"h", "t"}))
}

func TestParseMatchArms(t *testing.T) {
	src := `match n { 0 => 0, 1 => 1, _ => n }`
	e, err := parser.ParseExpr(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindMatch))
	qt.Assert(t, qt.HasLen(e.Arms, 3))
	qt.Assert(t, qt.Equals(e.Arms[2].Pattern.Kind, ast.PatternWildcard))
}

func TestParseMatchArmGuard(t *testing.T) {
	src := `match n { x if x > 0 => x, _ => 0 }`
	e, err := parser.ParseExpr(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(e.Arms[0].Guard != nil))
}

func TestParseModuleTwoFunctions(t *testing.T) {
	src := `mod m { pub fun a(x) { b(x) + 1 } pub fun b(x) { x * 2 } }`
	e, err := parser.ParseFile("f.ru", src)
	qt.Assert(t, qt.IsNil(err))
	mod := e.Block[0]
	qt.Assert(t, qt.Equals(mod.Kind, ast.KindModule))
	qt.Assert(t, qt.HasLen(mod.ModuleBody, 2))
}

func TestParseInterpolatedStringSplitsParts(t *testing.T) {
	e, err := parser.ParseExpr(`f"Hello, {name}!"`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindInterpString))
	qt.Assert(t, qt.HasLen(e.Parts, 3))
	qt.Assert(t, qt.Equals(e.Parts[0].Lit, "Hello, "))
	qt.Assert(t, qt.IsTrue(e.Parts[1].Expr != nil))
	qt.Assert(t, qt.Equals(e.Parts[1].Expr.Name, "name"))
}

func TestParseImportForms(t *testing.T) {
	cases := []string{
		"import a.b.c",
		"import a.b as x",
		"from a.b import x, y as z",
		"from a.b import *",
	}
	for _, src := range cases {
		e, err := parser.ParseFile("f.ru", src)
		qt.Assert(t, qt.IsNil(err), qt.Commentf("src=%q", src))
		qt.Assert(t, qt.Equals(e.Block[0].Kind, ast.KindImport), qt.Commentf("src=%q", src))
	}
}

func TestParseClassCarriesFieldsAndMethods(t *testing.T) {
	src := `class Point { x: int, y: int, fun sum(self) { self.x + self.y } }`
	e, err := parser.ParseFile("c.ru", src)
	qt.Assert(t, qt.IsNil(err))
	decl := e.Block[0]
	qt.Assert(t, qt.Equals(decl.Kind, ast.KindStruct))
	qt.Assert(t, qt.HasLen(decl.StructFields, 2))
	qt.Assert(t, qt.HasLen(decl.ImplMethods, 1))
	qt.Assert(t, qt.Equals(decl.ImplMethods[0].FuncName, "sum"))
}

func TestParseByteLiteral(t *testing.T) {
	e, err := parser.ParseExpr("b'A'")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindByte))
	qt.Assert(t, qt.Equals(e.Byte, byte('A')))
}

func TestParseAsyncLambdaAndBlock(t *testing.T) {
	e, err := parser.ParseExpr("async |x| x + 1")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindLambda))
	qt.Assert(t, qt.IsTrue(e.IsAsync))

	e2, err := parser.ParseExpr("async { 1 }")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e2.Kind, ast.KindAsyncBlock))
}

func TestParseDataframeLiteral(t *testing.T) {
	e, err := parser.ParseExpr(`df![ "a" => [1, 2], "b" => [3, 4] ]`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(e.Kind, ast.KindDataframe))
	qt.Assert(t, qt.HasLen(e.DataframeColumns, 2))
}

// TestPrintParseRoundTripIsAFixpoint: parsing, printing through the
// canonical formatter, and parsing again yields an equivalent AST —
// checked here as print/parse/print stability.
func TestPrintParseRoundTripIsAFixpoint(t *testing.T) {
	srcs := []string{
		"x + 2 * y",
		"fun max2(a, b) { if a > b { a } else { b } }",
		"match n { 0 => 0, _ => n }",
		"|x| x * 2",
		"[1, 2, 3]",
		"while x { x = x - 1 }",
	}
	for _, src := range srcs {
		e1, err := parser.ParseFile("rt.ru", src)
		qt.Assert(t, qt.IsNil(err), qt.Commentf("src=%q", src))
		printed := ast.Print(e1)
		e2, err := parser.ParseExpr(printed)
		qt.Assert(t, qt.IsNil(err), qt.Commentf("printed=%q", printed))
		qt.Assert(t, qt.Equals(ast.Print(e2), printed), qt.Commentf("src=%q", src))
	}
}

func TestParseRecoversFromSyntaxErrorAndTerminates(t *testing.T) {
	// A syntax error mid-file should not prevent the parser from making
	// progress and eventually returning.
	src := "let x = ; let y = 2; y"
	done := make(chan struct{})
	go func() {
		parser.ParseFile("f.ru", src)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ParseFile did not terminate on malformed input")
	}
}

func TestParseNeverPanicsOnArbitraryBytes(t *testing.T) {
	f := func(b []byte) bool {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("ParseFile panicked on %q: %v", b, r)
			}
		}()
		parser.ParseFile("fuzz.ru", string(b))
		return true
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 300}); err != nil {
		t.Error(err)
	}
}
