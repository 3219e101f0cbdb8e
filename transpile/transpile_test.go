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

package transpile_test

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/parser"
	"github.com/ruchy-lang/ruchy/transpile"
)

func TestTranspileBinaryPreservesParenthesization(t *testing.T) {
	e, err := parser.ParseExpr("1 + 2 * 3")
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "(1 + (2 * 3))"))
}

func TestTranspileStringLiteralEmitsToString(t *testing.T) {
	e, err := parser.ParseExpr(`"hi"`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, `"hi".to_string()`))
}

func TestTranspileInterpStringLowersToFormat(t *testing.T) {
	e, err := parser.ParseExpr(`f"hello {name}"`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.HasPrefix(out, "format!("), true))
	qt.Assert(t, qt.Equals(strings.Contains(out, "name"), true))
}

func TestTranspileInterpStringEscapesLiteralBraces(t *testing.T) {
	// A literal { or } in an f-string must double in the format! template
	// or the emitted program fails to compile.
	e, err := parser.ParseExpr(`f"a \{b\} {x}"`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.Contains(out, `format!("a {{b}} {}"`), true))
}

func TestTranspileListEmitsVecMacro(t *testing.T) {
	e, err := parser.ParseExpr("[1, 2, 3]")
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "vec![1, 2, 3]"))
}

func TestTranspileFunctionMainNeverGetsReturnType(t *testing.T) {
	e, err := parser.ParseFile("main.ru", `fun main() -> int { 0 }`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.Contains(out, "fn main() {"), true))
	qt.Assert(t, qt.Equals(strings.Contains(out, "->"), false))
}

func TestTranspileFunctionNonMainKeepsReturnType(t *testing.T) {
	e, err := parser.ParseFile("lib.ru", `fun add(a: int, b: int) -> int { a + b }`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.Contains(out, "-> i64"), true))
}

func TestTranspilePipelineLowersToCall(t *testing.T) {
	e, err := parser.ParseExpr("a |> f")
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "f(a)"))
}

func TestTranspileNullCoalescingLowersToUnwrapOr(t *testing.T) {
	e, err := parser.ParseExpr("a ?? b")
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "(a).unwrap_or(b)"))
}

func TestTranspileRangeExpression(t *testing.T) {
	e, err := parser.ParseExpr("0..5")
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "0..5"))
}

func TestTranspileReservedWordIdentifierIsEscaped(t *testing.T) {
	// "move" is a plain identifier in Ruchy but a reserved word in Rust.
	e, err := parser.ParseExpr("move")
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, "r#move"))
}

func TestTranspileProgramEmitsRequiredImport(t *testing.T) {
	e, err := parser.ParseExpr(`{a: 1, b: 2}`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.TranspileProgram(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.Contains(out, "use std::collections::HashMap;"), true))
	qt.Assert(t, qt.Equals(strings.Contains(out, "fn main() {"), true))
}

func TestTranspileProgramAsLibrarySkipsMain(t *testing.T) {
	e, err := parser.ParseFile("lib.ru", `fun id(x: int) -> int { x }`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.TranspileProgram(e, transpile.WithLibrary(true))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.Contains(out, "fn main()"), false))
}

func TestTranspileInfersNumericParameter(t *testing.T) {
	e, err := parser.ParseFile("f.ru", `fun double(x) { x * 2 }`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.Contains(out, "x: i64"), true))
}

func TestTranspileInfersStringParameter(t *testing.T) {
	e, err := parser.ParseFile("f.ru", `fun greet(name) { "hello " + name }`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.Contains(out, "name: String"), true))
}

func TestTranspileInfersCalleeParameterAsClosure(t *testing.T) {
	e, err := parser.ParseFile("f.ru", `fun apply(f) { f(1) }`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.Transpile(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.Contains(out, "f: impl Fn(i64) -> i64"), true))
}

func TestTranspileMixedParameterUsageIsError(t *testing.T) {
	e, err := parser.ParseFile("f.ru", `fun bad(x) { let a = x + 1; x + "s" }`)
	qt.Assert(t, qt.IsNil(err))
	_, err = transpile.Transpile(e)
	qt.Assert(t, qt.Equals(err != nil, true))
}

func TestTranspileBuiltinArityMismatchIsError(t *testing.T) {
	e, err := parser.ParseExpr("json_parse()")
	qt.Assert(t, qt.IsNil(err))
	_, err = transpile.Transpile(e)
	qt.Assert(t, qt.Equals(err != nil, true))
}

func TestTranspileProgramWithUserMainIsNotNested(t *testing.T) {
	e, err := parser.ParseFile("main.ru", `fun main() { println("hi") }`)
	qt.Assert(t, qt.IsNil(err))
	out, err := transpile.TranspileProgram(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.Count(out, "fn main"), 1))
}

func TestTranspileProgramRejectsStatementsAlongsideUserMain(t *testing.T) {
	e, err := parser.ParseFile("main.ru", `fun main() { 0 }; let x = 1`)
	qt.Assert(t, qt.IsNil(err))
	_, err = transpile.TranspileProgram(e)
	qt.Assert(t, qt.Equals(err != nil, true))
}

func TestTranspileActorIsUnsupported(t *testing.T) {
	e, err := parser.ParseFile("actor.ru", `actor Counter { count: int }`)
	qt.Assert(t, qt.IsNil(err))
	_, err = transpile.Transpile(e)
	qt.Assert(t, qt.Equals(err != nil, true))
}

func TestTranspileDeterministicAcrossRuns(t *testing.T) {
	src := `fun f(x: int, y: int) -> int { if x > y { x } else { y } }`
	e1, err := parser.ParseFile("a.ru", src)
	qt.Assert(t, qt.IsNil(err))
	e2, err := parser.ParseFile("b.ru", src)
	qt.Assert(t, qt.IsNil(err))

	out1, err := transpile.Transpile(e1)
	qt.Assert(t, qt.IsNil(err))
	out2, err := transpile.Transpile(e2)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out1, out2))
}
