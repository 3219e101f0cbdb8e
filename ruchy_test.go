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
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy"
	"github.com/ruchy-lang/ruchy/builtin"
	"github.com/ruchy-lang/ruchy/interp"
)

func TestEvaluateArithmetic(t *testing.T) {
	e, err := ruchy.ParseExpr("1 + 2 * 3")
	qt.Assert(t, qt.IsNil(err))

	v, err := ruchy.Evaluate(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(7)))
}

func TestSessionCarriesBindingsAcrossCalls(t *testing.T) {
	sess := ruchy.NewSession(builtin.DefaultOptions())
	env := interp.NewRootScope()

	letExpr, err := ruchy.ParseExpr("let x = 10")
	qt.Assert(t, qt.IsNil(err))
	_, err = sess.EvaluateIn(letExpr, env)
	qt.Assert(t, qt.IsNil(err))

	useExpr, err := ruchy.ParseExpr("x + 1")
	qt.Assert(t, qt.IsNil(err))
	v, err := sess.EvaluateIn(useExpr, env)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(11)))
}

func TestTranspileProgramRoundTrip(t *testing.T) {
	e, err := ruchy.Parse("prog.ru", `fun main() { println("hi") }`)
	qt.Assert(t, qt.IsNil(err))

	out, err := ruchy.TranspileProgram(e)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(strings.Contains(out, "fn main() {"), true))
	qt.Assert(t, qt.Equals(strings.Contains(out, "->"), false))
}

func TestDiagnosticReportsParseError(t *testing.T) {
	_, err := ruchy.Parse("bad.ru", `let = `)
	qt.Assert(t, qt.Equals(err != nil, true))
	msg := ruchy.Diagnostic("bad.ru", `let = `, err)
	qt.Assert(t, qt.Equals(len(msg) > 0, true))
}
