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

package interp_test

import (
	"math"
	"testing"

	"github.com/go-quicktest/qt"

	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/interp"
	"github.com/ruchy-lang/ruchy/parser"
)

// eval is the common helper for this file's tests: parse src, evaluate it
// against a fresh root scope with no builtins registered (the core
// arithmetic/control-flow/pattern rules never need one).
func eval(t *testing.T, src string) (interp.Value, error) {
	t.Helper()
	e, err := parser.ParseFile("t.ru", src)
	qt.Assert(t, qt.IsNil(err))
	in := interp.New(map[string]interp.Intrinsic{})
	return in.Eval(e, interp.NewRootScope())
}

func errKind(t *testing.T, err error) rerrors.Kind {
	t.Helper()
	rerr, ok := err.(*rerrors.Error)
	qt.Assert(t, qt.IsTrue(ok), qt.Commentf("not an *errors.Error: %v (%T)", err, err))
	return rerr.Kind
}

func TestArithmeticAndVariables(t *testing.T) {
	v, err := eval(t, "let x = 10; let y = 32; x + y")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Kind(), interp.KindInteger))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(42)))
}

func TestRecursionAndPatternMatch(t *testing.T) {
	src := `
fun fib(n) { match n { 0 => 0, 1 => 1, _ => fib(n-1) + fib(n-2) } }
fib(10)
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(55)))
}

// The interpreter must bind b before a's body executes despite
// declaration order.
func TestModuleTwoPassAllowsForwardReference(t *testing.T) {
	src := `
mod m { pub fun a(x) { b(x) + 1 } pub fun b(x) { x * 2 } }
m.a(3)
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(7)))
}

func TestLetPatternWithRest(t *testing.T) {
	src := `
let [h, ...t] = [1,2,3,4]
(h, t)
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Kind(), interp.KindTuple))
	elems := v.AsSlice()
	qt.Assert(t, qt.Equals(elems[0].AsInt(), int64(1)))
	rest := elems[1].AsSlice()
	qt.Assert(t, qt.HasLen(rest, 3))
	qt.Assert(t, qt.Equals(rest[0].AsInt(), int64(2)))
	qt.Assert(t, qt.Equals(rest[2].AsInt(), int64(4)))
}

func TestPatternRestOnEmptyListDoesNotMatch(t *testing.T) {
	src := `match [] { [h, ...t] => 1, _ => 0 }`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(0)))
}

func TestOptionLikeEnumMatch(t *testing.T) {
	src := `
enum Option { Some(x), None }
let v = Option.Some(42)
match v { Some(x) => x, None => 0 }
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(42)))
}

func TestClassMethodsDispatchOnInstances(t *testing.T) {
	src := `
class Point { x: int, y: int, fun sum(self) { self.x + self.y } }
let p = Point(1, 2)
p.sum()
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(3)))
}

func TestImplMethodsDispatchOnStructInstances(t *testing.T) {
	src := `
struct Point { x: int, y: int }
impl Point { fun norm2(self) { self.x * self.x + self.y * self.y } }
let p = Point(3, 4)
p.norm2()
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(25)))
}

func TestDivisionByZeroRaisesDivisionByZero(t *testing.T) {
	_, err := eval(t, "1 / 0")
	qt.Assert(t, qt.IsTrue(err != nil))
	qt.Assert(t, qt.Equals(errKind(t, err), rerrors.DivisionByZero))
}

func TestModuloByZeroRaisesDivisionByZero(t *testing.T) {
	_, err := eval(t, "1 % 0")
	qt.Assert(t, qt.IsTrue(err != nil))
	qt.Assert(t, qt.Equals(errKind(t, err), rerrors.DivisionByZero))
}

func TestStringPlusNonStringRaisesTypeError(t *testing.T) {
	_, err := eval(t, `"a" + 1`)
	qt.Assert(t, qt.IsTrue(err != nil))
	qt.Assert(t, qt.Equals(errKind(t, err), rerrors.TypeError))
}

func TestArrayIndexOutOfBoundsRaises(t *testing.T) {
	_, err := eval(t, "[1,2,3][10]")
	qt.Assert(t, qt.IsTrue(err != nil))
	qt.Assert(t, qt.Equals(errKind(t, err), rerrors.IndexOutOfBounds))
}

func TestUnboundNameRaisesUnboundName(t *testing.T) {
	_, err := eval(t, "doesNotExist")
	qt.Assert(t, qt.IsTrue(err != nil))
	qt.Assert(t, qt.Equals(errKind(t, err), rerrors.UnboundName))
}

func TestAssignToImmutableBindingRaises(t *testing.T) {
	_, err := eval(t, "let x = 1; x = 2")
	qt.Assert(t, qt.IsTrue(err != nil))
	qt.Assert(t, qt.Equals(errKind(t, err), rerrors.AssignToImmutable))
}

func TestAssignToMutableBindingSucceeds(t *testing.T) {
	v, err := eval(t, "let mut x = 1; x = 2; x")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(2)))
}

func TestNonExhaustiveMatchRaises(t *testing.T) {
	_, err := eval(t, "match 5 { 1 => 1, 2 => 2 }")
	qt.Assert(t, qt.IsTrue(err != nil))
	qt.Assert(t, qt.Equals(errKind(t, err), rerrors.NonExhaustiveMatch))
}

func TestTruthinessOfZeroAndEmptyString(t *testing.T) {
	v, err := eval(t, `if 0 { "yes" } else { "no" }`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsString(), "no"))

	v2, err := eval(t, `if "" { "yes" } else { "no" }`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v2.AsString(), "no"))
}

func TestShortCircuitAndDoesNotEvaluateRightOperand(t *testing.T) {
	// A right operand that would error (unbound name) must never run once
	// the left side of && is false.
	_, err := eval(t, "false && doesNotExist")
	qt.Assert(t, qt.IsNil(err))
}

func TestShortCircuitOrDoesNotEvaluateRightOperand(t *testing.T) {
	_, err := eval(t, "true || doesNotExist")
	qt.Assert(t, qt.IsNil(err))
}

func TestLoopWithBreakValue(t *testing.T) {
	src := `
let mut i = 0
let result = loop {
  i = i + 1
  if i == 5 { break i * 10 }
}
result
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(50)))
}

func TestForLoopOverRangeAccumulates(t *testing.T) {
	src := `
let mut total = 0
for i in 0..5 { total = total + i }
total
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(10))) // 0+1+2+3+4
}

func TestForLoopContinueSkipsIteration(t *testing.T) {
	src := `
let mut total = 0
for i in 0..5 {
  if i == 2 { continue }
  total = total + i
}
total
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(8))) // 0+1+3+4
}

func TestClosureCapturesEnclosingScope(t *testing.T) {
	src := `
let x = 10
let addX = |y| x + y
addX(5)
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(15)))
}

func TestShadowingInnerBindingDoesNotAffectCapturedClosure(t *testing.T) {
	src := `
let x = 1
let getX = || x
let x = 2
(getX(), x)
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	elems := v.AsSlice()
	qt.Assert(t, qt.Equals(elems[0].AsInt(), int64(1)))
	qt.Assert(t, qt.Equals(elems[1].AsInt(), int64(2)))
}

func TestPipelineAppliesFunctionsLeftToRight(t *testing.T) {
	src := `
fun double(x) { x * 2 }
fun inc(x) { x + 1 }
5 |> double |> inc
`
	v, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(11)))
}

func TestNullCoalescingReturnsLeftUnlessNil(t *testing.T) {
	v, err := eval(t, "nil ?? 5")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(5)))

	v2, err := eval(t, "1 ?? 5")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v2.AsInt(), int64(1)))
}

func TestNullCoalescingShortCircuitsRightOperand(t *testing.T) {
	_, err := eval(t, "1 ?? doesNotExist")
	qt.Assert(t, qt.IsNil(err))
}

func TestArrowLambdaEvaluates(t *testing.T) {
	v, err := eval(t, "let f = x => x * 3; f(4)")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(12)))
}

func TestFloatModuloWithNegativeDivisor(t *testing.T) {
	v, err := eval(t, "5.0 % -2.0")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsFloat(), math.Mod(5, -2)))
}

func TestFractionalPower(t *testing.T) {
	v, err := eval(t, "2.0 ** 0.5")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsFloat(), math.Sqrt2))
}

func TestValueCloneEquivalence(t *testing.T) {
	// clone(v) == v structurally, for scalar and heap variants alike.
	vals := []interp.Value{
		interp.Int(42),
		interp.String("hi"),
		interp.Array([]interp.Value{interp.Int(1), interp.Int(2)}),
		interp.Bool(true),
	}
	for _, v := range vals {
		qt.Assert(t, qt.IsTrue(v.Clone().Equal(v)))
	}
}

func TestIntegerFloatPromotionInArithmetic(t *testing.T) {
	v, err := eval(t, "1 + 2.5")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.Kind(), interp.KindFloat))
	qt.Assert(t, qt.Equals(v.AsFloat(), 3.5))
}

func TestCrossTypeEqualityIsFalseNotTypeError(t *testing.T) {
	v, err := eval(t, `1 == "1"`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsBool(), false))
}

func TestEvaluationIsDeterministicAcrossRuns(t *testing.T) {
	src := "let x = 3; let y = 4; x * x + y * y"
	v1, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	v2, err := eval(t, src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(v1.Equal(v2)))
}

func TestCheckpointRestoreIsIdentityOnVisibleEnvironment(t *testing.T) {
	// ParseExpr, not ParseFile: a bare top-level `let` parsed as a file
	// is wrapped in a block, which opens its own child scope for the let
	// (see evalBlock) rather than declaring directly into the scope this
	// test inspects.
	env := interp.NewRootScope()
	e, err := parser.ParseExpr("let x = 1")
	qt.Assert(t, qt.IsNil(err))
	in := interp.New(map[string]interp.Intrinsic{})
	_, err = in.Eval(e, env)
	qt.Assert(t, qt.IsNil(err))

	snap := env.Snapshot()

	mutate, err := parser.ParseExpr("let x = 2")
	qt.Assert(t, qt.IsNil(err))
	_, err = in.Eval(mutate, env)
	qt.Assert(t, qt.IsNil(err))

	env.Restore(snap)
	v, ok := env.Lookup("x")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(1)))
}

func TestCheckpointRestorePreservesImmutability(t *testing.T) {
	env := interp.NewRootScope()
	in := interp.New(map[string]interp.Intrinsic{})
	e, err := parser.ParseExpr("let x = 1")
	qt.Assert(t, qt.IsNil(err))
	_, err = in.Eval(e, env)
	qt.Assert(t, qt.IsNil(err))

	env.Restore(env.Snapshot())

	assign, err := parser.ParseExpr("x = 2")
	qt.Assert(t, qt.IsNil(err))
	_, err = in.Eval(assign, env)
	qt.Assert(t, qt.IsTrue(err != nil))
	qt.Assert(t, qt.Equals(errKind(t, err), rerrors.AssignToImmutable))
}
