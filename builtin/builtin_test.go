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

package builtin_test

import (
	"bytes"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/builtin"
	"github.com/ruchy-lang/ruchy/interp"
)

func call(t *testing.T, reg map[string]interp.Intrinsic, name string, args ...interp.Value) (interp.Value, error) {
	t.Helper()
	fn, ok := reg[name]
	if !ok {
		t.Fatalf("no builtin named %q", name)
	}
	return fn(&interp.Context{}, args)
}

func TestMathBuiltins(t *testing.T) {
	reg := builtin.NewRegistry(builtin.Options{})

	v, err := call(t, reg, "abs", interp.Int(-5))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(5)))

	v, err = call(t, reg, "max", interp.Int(3), interp.Int(9), interp.Int(1))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(9)))

	v, err = call(t, reg, "sqrt", interp.Float(16))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsFloat(), float64(4)))
}

func TestAssertBuiltins(t *testing.T) {
	reg := builtin.NewRegistry(builtin.Options{})

	_, err := call(t, reg, "assert", interp.Bool(true))
	qt.Assert(t, qt.IsNil(err))

	_, err = call(t, reg, "assert", interp.Bool(false))
	qt.Assert(t, qt.Equals(err != nil, true))

	_, err = call(t, reg, "assert_eq", interp.Int(1), interp.Int(1))
	qt.Assert(t, qt.IsNil(err))

	_, err = call(t, reg, "assert_eq", interp.Int(1), interp.Int(2))
	qt.Assert(t, qt.Equals(err != nil, true))
}

func TestJSONRoundtrip(t *testing.T) {
	reg := builtin.NewRegistry(builtin.Options{})

	parsed, err := call(t, reg, "json_parse", interp.String(`{"a": 1, "b": [1,2,3]}`))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(parsed.Kind(), interp.KindObject))

	a, ok := parsed.ObjectGet("a")
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(a.AsInt(), int64(1)))

	str, err := call(t, reg, "json_stringify", parsed)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(str.Kind(), interp.KindString))

	ok2, err := call(t, reg, "json_validate", str)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ok2.AsBool(), true))
}

func TestTypeConstructors(t *testing.T) {
	reg := builtin.NewRegistry(builtin.Options{})

	v, err := call(t, reg, "int", interp.String("42"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsInt(), int64(42)))

	v, err = call(t, reg, "float", interp.String("3.5"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v.AsFloat(), 3.5))

	vec, err := call(t, reg, "Vec", interp.Int(1), interp.Int(2))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(vec.AsSlice()), 2))

	m, err := call(t, reg, "HashMap", interp.String("k"), interp.Int(7))
	qt.Assert(t, qt.IsNil(err))
	got, ok := m.ObjectGet("k")
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(got.AsInt(), int64(7)))
}

func TestPrintlnWritesToConfiguredSink(t *testing.T) {
	var buf bytes.Buffer
	reg := builtin.NewRegistry(builtin.Options{Stdout: &buf})

	_, err := call(t, reg, "println", interp.String("hello"), interp.Int(42))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(buf.String(), "hello 42\n"))
}
