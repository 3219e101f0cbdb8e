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
	"github.com/ruchy-lang/ruchy/token"
)

func (in *Interp) evalMatch(e *ast.Expr, env *Scope) (Value, error) {
	scrutinee, err := in.eval(e.Scrutinee, env)
	if err != nil {
		return Nil, err
	}
	for _, arm := range e.Arms {
		armScope := env.Child()
		if !matchPattern(armScope, arm.Pattern, scrutinee) {
			continue
		}
		if arm.Guard != nil {
			g, err := in.eval(arm.Guard, armScope)
			if err != nil {
				return Nil, err
			}
			if !g.Truthy() {
				continue
			}
		}
		return in.eval(arm.Body, armScope)
	}
	return Nil, rerrors.Newf(rerrors.NonExhaustiveMatch, e.Span, "no match arm matched value of type %s", scrutinee.TypeName())
}

func (in *Interp) evalWhile(e *ast.Expr, env *Scope) (Value, error) {
	result := Nil
	for {
		cond, err := in.eval(e.Cond, env)
		if err != nil {
			return Nil, err
		}
		if !cond.Truthy() {
			return result, nil
		}
		_, err = in.eval(e.Body, env.Child())
		if err != nil {
			if s, ok := asSignal(err); ok {
				if s.kind == signalBreak && (s.label == "" || s.label == e.Label) {
					return s.value, nil
				}
				if s.kind == signalContinue && (s.label == "" || s.label == e.Label) {
					continue
				}
			}
			return Nil, err
		}
	}
}

func (in *Interp) evalLoop(e *ast.Expr, env *Scope) (Value, error) {
	for {
		_, err := in.eval(e.Body, env.Child())
		if err != nil {
			if s, ok := asSignal(err); ok {
				if s.kind == signalBreak && (s.label == "" || s.label == e.Label) {
					return s.value, nil
				}
				if s.kind == signalContinue && (s.label == "" || s.label == e.Label) {
					continue
				}
			}
			return Nil, err
		}
	}
}

func (in *Interp) evalFor(e *ast.Expr, env *Scope) (Value, error) {
	iterVal, err := in.eval(e.ForIter, env)
	if err != nil {
		return Nil, err
	}
	seq, err := in.iterate(iterVal, e.Span)
	if err != nil {
		return Nil, err
	}
	result := Nil
	for _, item := range seq {
		iterScope := env.Child()
		if !matchPattern(iterScope, e.ForPattern, item) {
			return Nil, rerrors.Newf(rerrors.PatternShapeMismatch, e.Span, "for-loop pattern did not match iterated value")
		}
		_, err := in.eval(e.Body, iterScope)
		if err != nil {
			if s, ok := asSignal(err); ok {
				if s.kind == signalBreak && (s.label == "" || s.label == e.Label) {
					return s.value, nil
				}
				if s.kind == signalContinue && (s.label == "" || s.label == e.Label) {
					continue
				}
			}
			return Nil, err
		}
	}
	return result, nil
}

// iterate materializes the sequence a value produces under the
// iteration protocol. The interpreter eagerly expands it (no lazy
// generators), which is sufficient for `for` loops and the built-in
// methods like .map/.filter.
func (in *Interp) iterate(v Value, span token.Span) ([]Value, error) {
	switch v.Kind() {
	case KindArray, KindTuple:
		return v.AsSlice(), nil
	case KindString:
		runes := []rune(v.AsString())
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = Char(r)
		}
		return out, nil
	case KindRange:
		return in.expandRange(v.AsRange(), span)
	case KindObject:
		// A bare `for x in obj` iterates the object's entries as (key, value)
		// tuples, the same shape `.items()` returns.
		var out []Value
		for _, k := range v.ObjectKeys() {
			val, _ := v.ObjectGet(k)
			out = append(out, Tuple([]Value{String(k), val}))
		}
		return out, nil
	default:
		return nil, rerrors.Newf(rerrors.TypeError, span, "%s is not iterable", v.TypeName())
	}
}

func (in *Interp) expandRange(r *RangeVal, span token.Span) ([]Value, error) {
	if r.Start.Kind() != KindInteger || r.End.Kind() != KindInteger {
		return nil, rerrors.Newf(rerrors.TypeError, span, "range bounds must be integers")
	}
	start, end := r.Start.AsInt(), r.End.AsInt()
	if r.Inclusive {
		end++
	}
	if end < start {
		return nil, nil
	}
	out := make([]Value, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, Int(i))
	}
	return out, nil
}

func (in *Interp) evalTry(e *ast.Expr, env *Scope) (Value, error) {
	v, err := in.eval(e.Inner, env)
	if err != nil {
		return Nil, err
	}
	if v.Kind() == KindEnumVariant {
		switch v.ev.VariantName {
		case "Ok":
			if len(v.ev.Payload) > 0 {
				return v.ev.Payload[0], nil
			}
			return Nil, nil
		case "Err":
			return Nil, returnSignal(v)
		}
	}
	return v, nil
}
