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
	"fmt"
	"math"
	"strconv"
	"strings"

	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/interp"
)

// registerMath wires the reserved numeric primitives. Every
// entry accepts Integer or Float and promotes to Float on output except
// abs/min/max, which preserve the input kind the way Ruchy's arithmetic
// promotion table does elsewhere (interp/ops.go's applyArith), and pow,
// which returns an Integer when both arguments are Integers.
func registerMath(reg map[string]interp.Intrinsic) {
	reg["sqrt"] = unaryFloat(math.Sqrt)
	reg["floor"] = unaryFloat(math.Floor)
	reg["ceil"] = unaryFloat(math.Ceil)
	reg["round"] = unaryFloat(math.Round)

	reg["pow"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 2 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "pow takes exactly two arguments")
		}
		if args[0].Kind() == interp.KindInteger && args[1].Kind() == interp.KindInteger {
			return interp.Int(intPow(args[0].AsInt(), args[1].AsInt())), nil
		}
		a, err := asFloatArg(ctx, args[0])
		if err != nil {
			return interp.Nil, err
		}
		b, err := asFloatArg(ctx, args[1])
		if err != nil {
			return interp.Nil, err
		}
		return interp.Float(math.Pow(a, b)), nil
	}

	reg["abs"] = func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "abs takes exactly one argument")
		}
		switch args[0].Kind() {
		case interp.KindInteger:
			n := args[0].AsInt()
			if n < 0 {
				n = -n
			}
			return interp.Int(n), nil
		case interp.KindFloat:
			return interp.Float(math.Abs(args[0].AsFloat())), nil
		default:
			return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "abs requires a number, got %s", args[0].TypeName())
		}
	}

	reg["min"] = minMax(func(cmp int) bool { return cmp < 0 })
	reg["max"] = minMax(func(cmp int) bool { return cmp > 0 })
}

func unaryFloat(fn func(float64) float64) interp.Intrinsic {
	return func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "expected exactly one argument")
		}
		f, err := asFloatArg(ctx, args[0])
		if err != nil {
			return interp.Nil, err
		}
		return interp.Float(fn(f)), nil
	}
}

func asFloatArg(ctx *interp.Context, v interp.Value) (float64, error) {
	switch v.Kind() {
	case interp.KindInteger:
		return float64(v.AsInt()), nil
	case interp.KindFloat:
		return v.AsFloat(), nil
	default:
		return 0, rerrors.Newf(rerrors.TypeError, ctx.Span, "expected a number, got %s", v.TypeName())
	}
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func minMax(keep func(cmp int) bool) interp.Intrinsic {
	return func(ctx *interp.Context, args []interp.Value) (interp.Value, error) {
		if len(args) < 1 {
			return interp.Nil, rerrors.Newf(rerrors.ArityError, ctx.Span, "expected at least one argument")
		}
		best := args[0]
		bestF, err := asFloatArg(ctx, best)
		if err != nil {
			return interp.Nil, err
		}
		for _, v := range args[1:] {
			f, err := asFloatArg(ctx, v)
			if err != nil {
				return interp.Nil, err
			}
			if keep(cmpFloat(f, bestF)) {
				best, bestF = v, f
			}
		}
		return best, nil
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// TranspileMath returns the f64-method expansion for a numeric builtin
// call given its already-emitted argument expressions.
// No import is required: these all lower to inherent f64 methods.
func TranspileMath(name string, args []string) (expr string, imports []string, ok bool) {
	switch name {
	case "sqrt":
		return fmt.Sprintf("(%s as f64).sqrt()", args[0]), nil, true
	case "floor":
		return fmt.Sprintf("(%s as f64).floor()", args[0]), nil, true
	case "ceil":
		return fmt.Sprintf("(%s as f64).ceil()", args[0]), nil, true
	case "round":
		return fmt.Sprintf("(%s as f64).round()", args[0]), nil, true
	case "pow":
		return fmt.Sprintf("(%s as f64).powf(%s as f64)", args[0], args[1]), nil, true
	case "abs":
		return fmt.Sprintf("(%s).abs()", args[0]), nil, true
	case "min", "max":
		if len(args) == 0 {
			return "", nil, false
		}
		expr := args[0]
		for _, a := range args[1:] {
			expr = fmt.Sprintf("(%s).%s(%s)", expr, name, a)
		}
		return expr, nil, true
	}
	return "", nil, false
}

// parseNumericString backs int("42")/float("3.14") string conversions.
func parseNumericString(ctx *interp.Context, s string, toInt bool) (interp.Value, error) {
	s = strings.TrimSpace(s)
	if toInt {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "cannot parse %q as an integer", s)
		}
		return interp.Int(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return interp.Nil, rerrors.Newf(rerrors.TypeError, ctx.Span, "cannot parse %q as a float", s)
	}
	return interp.Float(f), nil
}
