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

package ruchy_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy"
	"github.com/ruchy-lang/ruchy/builtin"
)

// runStdout parses src as a program, evaluates it with println/print wired
// to an in-memory buffer, and returns what it printed. It mirrors the way
// an embedder's test harness captures a REPL session's output.
func runStdout(t *testing.T, src string) string {
	t.Helper()
	e, err := ruchy.Parse("e2e.ru", src)
	qt.Assert(t, qt.IsNil(err))

	var buf bytes.Buffer
	opts := builtin.DefaultOptions()
	opts.Stdout = &buf
	sess := ruchy.NewSession(opts)
	_, err = sess.Evaluate(e)
	qt.Assert(t, qt.IsNil(err))
	return buf.String()
}

// TestE2EArithmeticAndVariables: the interpreter value and the
// println-wrapped transpiled form agree.
func TestE2EArithmeticAndVariables(t *testing.T) {
	e, err := ruchy.ParseExpr("let x = 10; let y = 32; x + y")
	qt.Assert(t, qt.IsNil(err))
	v, err := ruchy.Evaluate(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(42)))

	out := runStdout(t, `let x = 10; let y = 32; println(x + y)`)
	qt.Assert(t, qt.Equals(out, "42\n"))

	prog, err := ruchy.Parse("sum.ru", `fun main() { let x = 10; let y = 32; println(x + y) }`)
	qt.Assert(t, qt.IsNil(err))
	code, err := ruchy.TranspileProgram(prog)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(strings.Contains(code, "fn main() {")))
}

func TestE2ERecursionAndPatternMatch(t *testing.T) {
	src := `
fun fib(n) { match n { 0 => 0, 1 => 1, _ => fib(n-1) + fib(n-2) } }
println(fib(10))
`
	out := runStdout(t, src)
	qt.Assert(t, qt.Equals(out, "55\n"))
}

// The interpreter must bind b before a's body executes despite
// declaration order.
func TestE2EModuleTwoPassAllowsForwardReference(t *testing.T) {
	e, err := ruchy.Parse("mod.ru", `
mod m { pub fun a(x) { b(x) + 1 } pub fun b(x) { x * 2 } }
m.a(3)
`)
	qt.Assert(t, qt.IsNil(err))
	v, err := ruchy.Evaluate(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(7)))
}

func TestE2EPatternWithRest(t *testing.T) {
	e, err := ruchy.Parse("rest.ru", `
let [h, ...t] = [1,2,3,4]
(h, t)
`)
	qt.Assert(t, qt.IsNil(err))
	v, err := ruchy.Evaluate(e)
	qt.Assert(t, qt.IsNil(err))
	elems := v.AsSlice()
	qt.Assert(t, qt.Equals(elems[0].AsInt(), int64(1)))
	rest := elems[1].AsSlice()
	qt.Assert(t, qt.HasLen(rest, 3))
	qt.Assert(t, qt.Equals(rest[0].AsInt(), int64(2)))
	qt.Assert(t, qt.Equals(rest[2].AsInt(), int64(4)))
}

func TestE2EStringInterpolation(t *testing.T) {
	e, err := ruchy.ParseExpr(`let name = "world"; f"Hello, {name}!"`)
	qt.Assert(t, qt.IsNil(err))
	v, err := ruchy.Evaluate(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsString(), "Hello, world!"))

	out := runStdout(t, `let name = "world"; println(f"Hello, {name}!")`)
	qt.Assert(t, qt.Equals(out, "Hello, world!\n"))
}

func TestE2EMainWithoutReturnType(t *testing.T) {
	e, err := ruchy.Parse("main.ru", `fun main() { let x = 42; println(x) }`)
	qt.Assert(t, qt.IsNil(err))

	out := runStdout(t, `fun main() { let x = 42; println(x) }; main()`)
	qt.Assert(t, qt.Equals(out, "42\n"))

	code, err := ruchy.TranspileProgram(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(strings.Contains(code, "fn main() {")))
	qt.Assert(t, qt.IsFalse(strings.Contains(code, "fn main() ->")))
}
