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

// bindPattern evaluates pat against v, declaring every bound name in env.
// Unlike matchPattern (used by match/for, where a non-match is routine
// control flow) a let-binding shape mismatch is an interpreter error.
func bindPattern(env *Scope, pat *ast.Pattern, v Value, mutable bool) error {
	if matchPatternMut(env, pat, v, mutable) {
		return nil
	}
	return patternShapeError(pat, v)
}

// matchPattern evaluates pat against v for match arms and for loops,
// declaring bound names as immutable. Returns false (with env left
// partially populated but that's fine — a non-match discards the scope)
// if the shapes don't line up.
func matchPattern(env *Scope, pat *ast.Pattern, v Value) bool {
	return matchPatternMut(env, pat, v, false)
}

func matchPatternMut(env *Scope, pat *ast.Pattern, v Value, mutable bool) bool {
	if pat == nil {
		return true
	}
	switch pat.Kind {
	case ast.PatternWildcard:
		return true
	case ast.PatternIdentifier:
		if pat.Name == "_" {
			return true
		}
		env.Declare(pat.Name, v, mutable)
		return true
	case ast.PatternLiteral:
		lit := evalPatternLiteral(pat.Literal)
		return applyEquality(lit, v)
	case ast.PatternTuple:
		if v.Kind() != KindTuple {
			return false
		}
		return matchSeq(env, pat, v.AsSlice(), mutable)
	case ast.PatternList:
		if v.Kind() != KindArray {
			return false
		}
		return matchSeq(env, pat, v.AsSlice(), mutable)
	case ast.PatternStruct:
		if v.Kind() != KindObject {
			return false
		}
		if tv, ok := v.ObjectGet("__type"); ok && pat.StructName != "" && tv.AsString() != pat.StructName {
			return false
		}
		for i, fname := range pat.FieldNames {
			fv, ok := v.ObjectGet(fname)
			if !ok {
				return false
			}
			if !matchPatternMut(env, pat.FieldPats[i], fv, mutable) {
				return false
			}
		}
		return true
	case ast.PatternEnumVariant:
		if v.Kind() != KindEnumVariant {
			return false
		}
		ev := v.AsEnum()
		if pat.EnumName != "" && ev.EnumName != pat.EnumName {
			return false
		}
		if ev.VariantName != pat.VariantName {
			return false
		}
		if len(pat.Payload) != len(ev.Payload) {
			return false
		}
		for i, sub := range pat.Payload {
			if !matchPatternMut(env, sub, ev.Payload[i], mutable) {
				return false
			}
		}
		return true
	case ast.PatternRange:
		lo := evalPatternLiteral(pat.RangeLow)
		hi := evalPatternLiteral(pat.RangeHigh)
		loCmp, err := applyCompare(token.GEQ, v, lo, pat.Span)
		if err != nil || !loCmp.AsBool() {
			return false
		}
		op := token.LSS
		if pat.RangeIncl {
			op = token.LEQ
		}
		hiCmp, err := applyCompare(op, v, hi, pat.Span)
		return err == nil && hiCmp.AsBool()
	case ast.PatternOr:
		for _, alt := range pat.Alts {
			if matchPatternMut(env, alt, v, mutable) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func matchSeq(env *Scope, pat *ast.Pattern, elems []Value, mutable bool) bool {
	if pat.Rest == nil {
		if len(pat.Elems) != len(elems) {
			return false
		}
		for i, sub := range pat.Elems {
			if !matchPatternMut(env, sub, elems[i], mutable) {
				return false
			}
		}
		return true
	}
	if len(elems) < len(pat.Elems) {
		return false
	}
	before := pat.Elems[:pat.RestIndex]
	after := pat.Elems[pat.RestIndex:]
	for i, sub := range before {
		if !matchPatternMut(env, sub, elems[i], mutable) {
			return false
		}
	}
	restCount := len(elems) - len(before) - len(after)
	if restCount < 0 {
		return false
	}
	restSlice := elems[len(before) : len(before)+restCount]
	if !matchPatternMut(env, pat.Rest, Array(restSlice), mutable) {
		return false
	}
	for i, sub := range after {
		if !matchPatternMut(env, sub, elems[len(before)+restCount+i], mutable) {
			return false
		}
	}
	return true
}

// evalPatternLiteral evaluates a literal sub-expression used inside a
// pattern (int/float/string/bool/char literals only — the parser never
// produces anything else here).
func evalPatternLiteral(e *ast.Expr) Value {
	if e == nil {
		return Nil
	}
	switch e.Kind {
	case ast.KindInteger:
		return Int(e.Int)
	case ast.KindFloat:
		return Float(e.Float)
	case ast.KindString:
		return String(e.Str)
	case ast.KindBool:
		return Bool(e.Bool)
	case ast.KindChar:
		return Char(e.Char)
	case ast.KindUnary:
		if e.Op == token.SUB {
			v := evalPatternLiteral(e.Operand)
			if v.Kind() == KindInteger {
				return Int(-v.AsInt())
			}
			return Float(-v.AsFloat())
		}
		return Nil
	default:
		return Nil
	}
}

func patternShapeError(pat *ast.Pattern, v Value) error {
	return rerrors.Newf(rerrors.PatternShapeMismatch, pat.Span, "pattern does not match value of type %s", v.TypeName())
}
