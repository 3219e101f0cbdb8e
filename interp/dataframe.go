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

package interp

import (
	"github.com/ruchy-lang/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/errors"
)

// evalDataframe builds the typed-column value for a `df![ "col" =>
// [v,...], ... ]` literal: validate every column has the same row count,
// then build an Object{__type: "DataFrame", __columns: [...names],
// col: Array} (see the df_* builtins in package builtin for the helpers
// that operate on this shape).
func (in *Interp) evalDataframe(e *ast.Expr, env *Scope) (Value, error) {
	df := EmptyObject().ObjectSet("__type", String("DataFrame"))
	var order []Value
	rowCount := -1
	for _, col := range e.DataframeColumns {
		vals, err := in.evalExprList(col.Values, env)
		if err != nil {
			return Nil, err
		}
		if rowCount == -1 {
			rowCount = len(vals)
		} else if len(vals) != rowCount {
			return Nil, rerrors.Newf(rerrors.PatternShapeMismatch, col.Span,
				"dataframe column %q has %d rows, expected %d", col.Name, len(vals), rowCount)
		}
		df = df.ObjectSet(col.Name, Array(vals))
		order = append(order, String(col.Name))
	}
	df = df.ObjectSet("__columns", Array(order))
	df = df.ObjectSet("__rows", Int(int64(maxInt(rowCount, 0))))
	return df, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
