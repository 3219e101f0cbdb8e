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
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/ruchy-lang/ruchy/builtin"
	"github.com/ruchy-lang/ruchy/interp"
)

func newFrame(cols map[string][]interp.Value, order []string) interp.Value {
	df := interp.EmptyObject().ObjectSet("__type", interp.String("DataFrame"))
	rows := 0
	var colNames []interp.Value
	for _, name := range order {
		vals := cols[name]
		if len(vals) > rows {
			rows = len(vals)
		}
		df = df.ObjectSet(name, interp.Array(vals))
		colNames = append(colNames, interp.String(name))
	}
	df = df.ObjectSet("__columns", interp.Array(colNames))
	df = df.ObjectSet("__rows", interp.Int(int64(rows)))
	return df
}

func TestDataframeColumnsAndRows(t *testing.T) {
	reg := builtin.NewRegistry(builtin.Options{})
	df := newFrame(map[string][]interp.Value{
		"name": {interp.String("a"), interp.String("b")},
		"age":  {interp.Int(1), interp.Int(2)},
	}, []string{"name", "age"})

	cols, err := call(t, reg, "df_columns", df)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(cols.AsSlice()), 2))

	rows, err := call(t, reg, "df_rows", df)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(rows.AsInt(), int64(2)))
}

func TestDataframeMergeAddsColumns(t *testing.T) {
	reg := builtin.NewRegistry(builtin.Options{})
	left := newFrame(map[string][]interp.Value{"a": {interp.Int(1)}}, []string{"a"})
	right := newFrame(map[string][]interp.Value{"b": {interp.Int(2)}}, []string{"b"})

	merged, err := call(t, reg, "df_merge", left, right)
	qt.Assert(t, qt.IsNil(err))

	cols, _ := merged.ObjectGet("__columns")
	qt.Assert(t, qt.Equals(len(cols.AsSlice()), 2))

	b, ok := merged.ObjectGet("b")
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(b.AsSlice()[0].AsInt(), int64(2)))
}

func TestDataframeMergeAssignsSyntheticIDOnCollision(t *testing.T) {
	reg := builtin.NewRegistry(builtin.Options{})
	left := newFrame(map[string][]interp.Value{"a": {interp.Int(1)}}, []string{"a"})
	right := newFrame(map[string][]interp.Value{"a": {interp.Int(9)}}, []string{"a"})

	merged, err := call(t, reg, "df_merge", left, right)
	qt.Assert(t, qt.IsNil(err))

	cols, _ := merged.ObjectGet("__columns")
	qt.Assert(t, qt.Equals(len(cols.AsSlice()), 2))
	// The original "a" column is untouched; the colliding right-hand column
	// was renamed to something else entirely.
	a, ok := merged.ObjectGet("a")
	qt.Assert(t, qt.Equals(ok, true))
	qt.Assert(t, qt.Equals(a.AsSlice()[0].AsInt(), int64(1)))
}
