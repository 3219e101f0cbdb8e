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

package builtin

import (
	"github.com/google/uuid"

	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/interp"
)

// registerDataframe wires the supporting df_* helpers that operate on the
// Object{__type: "DataFrame", ...} shape interp.evalDataframe builds for
// a `df![...]` literal: inspecting it and merging two frames together.
// The literal syntax itself is parsed directly to ast.KindDataframe and
// never reaches this registry (parser/expr.go's parseDataframe).
func registerDataframe(reg map[string]interp.Intrinsic) {
	reg["df_columns"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		df, err := asDataframe(ctx, args)
		if err != nil {
			return interp.Nil, err
		}
		cols, _ := df.ObjectGet("__columns")
		return cols, nil
	}
	reg["df_rows"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		df, err := asDataframe(ctx, args)
		if err != nil {
			return interp.Nil, err
		}
		rows, _ := df.ObjectGet("__rows")
		return rows, nil
	}
	reg["df_merge"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 2 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "df_merge takes exactly two dataframes")
		}
		left, err := asDataframe(ctx, args[:1])
		if err != nil {
			return interp.Nil, err
		}
		right, err := asDataframe(ctx, args[1:])
		if err != nil {
			return interp.Nil, err
		}
		return mergeDataframes(left, right), nil
	}
}

func asDataframe(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
	if len(args) != 1 || args[0].Kind() != interp.KindObject {
		return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "expected a dataframe value")
	}
	tv, ok := args[0].ObjectGet("__type")
	if !ok || tv.AsString() != "DataFrame" {
		return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "expected a dataframe value")
	}
	return args[0], nil
}

// mergeDataframes concatenates two frames' column sets. A right-hand
// column carried in with no Name at all (which can happen when df_merge
// composes an anonymous computed column) is named "col_" plus a fresh
// uuid.NewString, and one whose name is already taken gets "_" plus the
// first 8 characters of a fresh uuid appended. Both ids are random, so
// they differ from one run to the next.
func mergeDataframes(left, right interp.Value) interp.Value {
	out := left
	leftCols, _ := left.ObjectGet("__columns")
	seen := map[string]bool{}
	for _, c := range leftCols.AsSlice() {
		seen[c.AsString()] = true
	}
	order := append([]interp.Value(nil), leftCols.AsSlice()...)

	rightCols, _ := right.ObjectGet("__columns")
	for _, c := range rightCols.AsSlice() {
		name := c.AsString()
		if name == "" {
			name = "col_" + uuid.NewString()
		}
		if seen[name] {
			name = name + "_" + uuid.NewString()[:8]
		}
		seen[name] = true
		v, _ := right.ObjectGet(c.AsString())
		out = out.ObjectSet(name, v)
		order = append(order, interp.String(name))
	}
	out = out.ObjectSet("__columns", interp.Array(order))
	return out
}

// TranspileDataframe returns the Rust expansion for a df_* builtin call
// given its already-emitted argument expressions. These
// map onto the DataFrame type's own inherent methods the way
// transpile's emitDataframe literal already assumes (DataFrame is built
// by DataFrame::from_columns), so no additional import is required here
// beyond whatever constructed the frame value itself.
func TranspileDataframe(name string, args []string) (expr string, imports []string, ok bool) {
	switch name {
	case "df_columns":
		return args[0] + ".columns()", nil, true
	case "df_rows":
		return args[0] + ".rows()", nil, true
	case "df_merge":
		return args[0] + ".merge(&" + args[1] + ")", nil, true
	}
	return "", nil, false
}
