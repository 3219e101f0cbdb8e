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
	"math"
	"strings"

	"github.com/ruchy-lang/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/errors"
	"github.com/ruchy-lang/ruchy/token"
)

// evalBinary implements the arithmetic/comparison/logical operator
// table. Logical && and || short-circuit before the right operand is
// evaluated.
func (in *Interp) evalBinary(e *ast.Expr, env *Scope) (Value, error) {
	switch e.Op {
	case token.PIPELINE:
		// a |> f is f(a); the argument evaluates before the callee, keeping
		// left-to-right ordering.
		arg, err := in.eval(e.Left, env)
		if err != nil {
			return Nil, err
		}
		fn, err := in.eval(e.Right, env)
		if err != nil {
			return Nil, err
		}
		return in.applyCallable(fn, []Value{arg}, e.Span)
	case token.NULL_COALESCE:
		left, err := in.eval(e.Left, env)
		if err != nil {
			return Nil, err
		}
		if left.Kind() != KindNil {
			return left, nil
		}
		return in.eval(e.Right, env)
	}
	if e.Op == token.LAND || e.Op == token.LOR {
		left, err := in.eval(e.Left, env)
		if err != nil {
			return Nil, err
		}
		if e.Op == token.LAND && !left.Truthy() {
			return Bool(false), nil
		}
		if e.Op == token.LOR && left.Truthy() {
			return Bool(true), nil
		}
		right, err := in.eval(e.Right, env)
		if err != nil {
			return Nil, err
		}
		return Bool(right.Truthy()), nil
	}

	left, err := in.eval(e.Left, env)
	if err != nil {
		return Nil, err
	}
	right, err := in.eval(e.Right, env)
	if err != nil {
		return Nil, err
	}
	return applyBinary(e.Op, left, right, e.Span)
}

func applyBinary(op token.Token, left, right Value, span token.Span) (Value, error) {
	switch op {
	case token.ADD:
		return applyAdd(left, right, span)
	case token.SUB, token.MUL, token.QUO, token.REM, token.POW:
		return applyArith(op, left, right, span)
	case token.EQL:
		return Bool(applyEquality(left, right)), nil
	case token.NEQ:
		return Bool(!applyEquality(left, right)), nil
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		return applyCompare(op, left, right, span)
	case token.AND, token.OR, token.XOR, token.SHL, token.SHR:
		return applyBitwise(op, left, right, span)
	default:
		return Nil, rerrors.Newf(rerrors.Unsupported, span, "unsupported binary operator %s", op)
	}
}

func applyAdd(left, right Value, span token.Span) (Value, error) {
	switch {
	case left.Kind() == KindString && right.Kind() == KindString:
		return String(left.AsString() + right.AsString()), nil
	case left.Kind() == KindArray && right.Kind() == KindArray:
		return Array(append(append([]Value(nil), left.AsSlice()...), right.AsSlice()...)), nil
	}
	return applyArith(token.ADD, left, right, span)
}

// applyArith implements integer/float promotion: Integer+Float promotes
// to Float, Integer op Integer stays Integer.
func applyArith(op token.Token, left, right Value, span token.Span) (Value, error) {
	lk, rk := left.Kind(), right.Kind()
	if lk == KindInteger && rk == KindInteger {
		a, b := left.AsInt(), right.AsInt()
		switch op {
		case token.ADD:
			return Int(a + b), nil
		case token.SUB:
			return Int(a - b), nil
		case token.MUL:
			return Int(a * b), nil
		case token.QUO:
			if b == 0 {
				return Nil, rerrors.Newf(rerrors.DivisionByZero, span, "division by zero")
			}
			return Int(a / b), nil
		case token.REM:
			if b == 0 {
				return Nil, rerrors.Newf(rerrors.DivisionByZero, span, "modulo by zero")
			}
			return Int(a % b), nil
		case token.POW:
			return Int(intPow(a, b)), nil
		}
	}
	if (lk == KindInteger || lk == KindFloat) && (rk == KindInteger || rk == KindFloat) {
		a, b := asFloat(left), asFloat(right)
		switch op {
		case token.ADD:
			return Float(a + b), nil
		case token.SUB:
			return Float(a - b), nil
		case token.MUL:
			return Float(a * b), nil
		case token.QUO:
			if b == 0 {
				return Nil, rerrors.Newf(rerrors.DivisionByZero, span, "division by zero")
			}
			return Float(a / b), nil
		case token.REM:
			if b == 0 {
				return Nil, rerrors.Newf(rerrors.DivisionByZero, span, "modulo by zero")
			}
			return Float(math.Mod(a, b)), nil
		case token.POW:
			return Float(math.Pow(a, b)), nil
		}
	}
	return Nil, rerrors.Newf(rerrors.TypeError, span, "unsupported operand types %s and %s for %s", left.TypeName(), right.TypeName(), op)
}

func asFloat(v Value) float64 {
	if v.Kind() == KindInteger {
		return float64(v.AsInt())
	}
	return v.AsFloat()
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


// applyEquality follows IEEE-754 for ==/!= (no NaN special-casing,
// unlike Value.Equal's checkpoint semantics), but still promotes
// Integer/Float so untagged equality matches arithmetic.
func applyEquality(left, right Value) bool {
	lk, rk := left.Kind(), right.Kind()
	if (lk == KindInteger || lk == KindFloat) && (rk == KindInteger || rk == KindFloat) {
		return asFloat(left) == asFloat(right)
	}
	if lk != rk {
		return false
	}
	return left.Equal(right)
}

func applyCompare(op token.Token, left, right Value, span token.Span) (Value, error) {
	lk, rk := left.Kind(), right.Kind()
	var cmp int
	switch {
	case (lk == KindInteger || lk == KindFloat) && (rk == KindInteger || rk == KindFloat):
		a, b := asFloat(left), asFloat(right)
		cmp = compareFloat(a, b)
	case lk == KindString && rk == KindString:
		cmp = strings.Compare(left.AsString(), right.AsString())
	case lk == KindBool && rk == KindBool:
		cmp = compareBool(left.AsBool(), right.AsBool())
	default:
		return Nil, rerrors.Newf(rerrors.TypeError, span, "cannot compare %s and %s", left.TypeName(), right.TypeName())
	}
	switch op {
	case token.LSS:
		return Bool(cmp < 0), nil
	case token.LEQ:
		return Bool(cmp <= 0), nil
	case token.GTR:
		return Bool(cmp > 0), nil
	default: // token.GEQ
		return Bool(cmp >= 0), nil
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	// false < true.
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

func applyBitwise(op token.Token, left, right Value, span token.Span) (Value, error) {
	if left.Kind() != KindInteger || right.Kind() != KindInteger {
		return Nil, rerrors.Newf(rerrors.TypeError, span, "bitwise operator %s requires integers, got %s and %s", op, left.TypeName(), right.TypeName())
	}
	a, b := left.AsInt(), right.AsInt()
	switch op {
	case token.AND:
		return Int(a & b), nil
	case token.OR:
		return Int(a | b), nil
	case token.XOR:
		return Int(a ^ b), nil
	case token.SHL:
		return Int(a << uint(b)), nil
	case token.SHR:
		return Int(a >> uint(b)), nil
	default:
		return Nil, rerrors.Newf(rerrors.Unsupported, span, "unsupported bitwise operator %s", op)
	}
}

// evalUnary implements the unary operator rules.
func (in *Interp) evalUnary(e *ast.Expr, env *Scope) (Value, error) {
	v, err := in.eval(e.Operand, env)
	if err != nil {
		return Nil, err
	}
	switch e.Op {
	case token.SUB:
		switch v.Kind() {
		case KindInteger:
			return Int(-v.AsInt()), nil
		case KindFloat:
			return Float(-v.AsFloat()), nil
		}
		return Nil, rerrors.Newf(rerrors.TypeError, e.Span, "cannot negate %s", v.TypeName())
	case token.ADD:
		return v, nil
	case token.NOT:
		return Bool(!v.Truthy()), nil
	case token.TILDE:
		if v.Kind() != KindInteger {
			return Nil, rerrors.Newf(rerrors.TypeError, e.Span, "~ requires an integer, got %s", v.TypeName())
		}
		return Int(^v.AsInt()), nil
	default:
		return Nil, rerrors.Newf(rerrors.Unsupported, e.Span, "unsupported unary operator %s", e.Op)
	}
}

// evalAssign: the assignment target must be a
// mutable binding, a field access, or an index.
func (in *Interp) evalAssign(e *ast.Expr, env *Scope) (Value, error) {
	val, err := in.eval(e.Right, env)
	if err != nil {
		return Nil, err
	}
	if err := in.assignTo(e.Left, val, env); err != nil {
		return Nil, err
	}
	return val, nil
}

func (in *Interp) evalCompoundAssign(e *ast.Expr, env *Scope) (Value, error) {
	cur, err := in.eval(e.Left, env)
	if err != nil {
		return Nil, err
	}
	rhs, err := in.eval(e.Right, env)
	if err != nil {
		return Nil, err
	}
	next, err := applyBinary(e.Op, cur, rhs, e.Span)
	if err != nil {
		return Nil, err
	}
	if err := in.assignTo(e.Left, next, env); err != nil {
		return Nil, err
	}
	return next, nil
}

func (in *Interp) assignTo(target *ast.Expr, val Value, env *Scope) error {
	switch target.Kind {
	case ast.KindIdentifier:
		ok, violation := env.Assign(target.Name, val)
		if !ok {
			return rerrors.Newf(rerrors.UnboundName, target.Span, "unbound name %q", target.Name)
		}
		if violation {
			return rerrors.Newf(rerrors.AssignToImmutable, target.Span, "cannot assign to immutable binding %q", target.Name)
		}
		return nil
	case ast.KindFieldAccess:
		recv, err := in.eval(target.Left, env)
		if err != nil {
			return err
		}
		if recv.Kind() != KindObject {
			return rerrors.Newf(rerrors.TypeError, target.Span, "cannot assign field on %s", recv.TypeName())
		}
		updated := recv.ObjectSet(target.Field, val)
		return in.assignTo(target.Left, updated, env)
	case ast.KindIndex:
		recv, err := in.eval(target.Left, env)
		if err != nil {
			return err
		}
		idx, err := in.eval(target.Index, env)
		if err != nil {
			return err
		}
		updated, err := setIndex(recv, idx, val, target.Span)
		if err != nil {
			return err
		}
		return in.assignTo(target.Left, updated, env)
	default:
		return rerrors.Newf(rerrors.AssignToImmutable, target.Span, "invalid assignment target")
	}
}

func setIndex(recv, idx, val Value, span token.Span) (Value, error) {
	switch recv.Kind() {
	case KindArray:
		elems := append([]Value(nil), recv.AsSlice()...)
		i, err := indexOf(idx, len(elems), span)
		if err != nil {
			return Nil, err
		}
		elems[i] = val
		return Array(elems), nil
	case KindObject:
		if idx.Kind() != KindString {
			return Nil, rerrors.Newf(rerrors.TypeError, span, "object index must be a string, got %s", idx.TypeName())
		}
		return recv.ObjectSet(idx.AsString(), val), nil
	default:
		return Nil, rerrors.Newf(rerrors.TypeError, span, "cannot index-assign into %s", recv.TypeName())
	}
}

func indexOf(idx Value, length int, span token.Span) (int, error) {
	if idx.Kind() != KindInteger {
		return 0, rerrors.Newf(rerrors.TypeError, span, "index must be an integer, got %s", idx.TypeName())
	}
	i := int(idx.AsInt())
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, rerrors.Newf(rerrors.IndexOutOfBounds, span, "index %d out of bounds for length %d", idx.AsInt(), length)
	}
	return i, nil
}

func (in *Interp) evalIndex(e *ast.Expr, env *Scope) (Value, error) {
	recv, err := in.eval(e.Left, env)
	if err != nil {
		return Nil, err
	}
	idx, err := in.eval(e.Index, env)
	if err != nil {
		return Nil, err
	}
	switch recv.Kind() {
	case KindArray, KindTuple:
		i, err := indexOf(idx, len(recv.AsSlice()), e.Span)
		if err != nil {
			return Nil, err
		}
		return recv.AsSlice()[i], nil
	case KindString:
		runes := []rune(recv.AsString())
		i, err := indexOf(idx, len(runes), e.Span)
		if err != nil {
			return Nil, err
		}
		return Char(runes[i]), nil
	case KindObject:
		if idx.Kind() != KindString {
			return Nil, rerrors.Newf(rerrors.TypeError, e.Span, "object index must be a string, got %s", idx.TypeName())
		}
		v, ok := recv.ObjectGet(idx.AsString())
		if !ok {
			return Nil, rerrors.Newf(rerrors.IndexOutOfBounds, e.Span, "no field %q", idx.AsString())
		}
		return v, nil
	default:
		return Nil, rerrors.Newf(rerrors.TypeError, e.Span, "cannot index %s", recv.TypeName())
	}
}

func (in *Interp) evalFieldAccess(e *ast.Expr, env *Scope) (Value, error) {
	recv, err := in.eval(e.Left, env)
	if err != nil {
		return Nil, err
	}
	if v, ok := recv.ObjectGet(e.Field); ok {
		return v, nil
	}
	if recv.Kind() == KindEnumVariant {
		return Nil, rerrors.Newf(rerrors.TypeError, e.Span, "enum variant %s has no field %q", recv.ev.VariantName, e.Field)
	}
	return Nil, rerrors.Newf(rerrors.UnboundName, e.Span, "no field %q on %s", e.Field, recv.TypeName())
}
