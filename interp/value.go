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

// Package interp is a tree-walking evaluator for the Ruchy Expr tree
// produced by package parser. Its Value type is a tagged union whose
// heap variants are reference-counted handles, so cloning a Value is
// always a cheap bump, never a deep copy.
package interp

import (
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/apd/v3"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNil Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindByte
	KindChar
	KindString
	KindArray
	KindTuple
	KindObject
	KindEnumVariant
	KindRange
	KindClosure
	KindBuiltin
	KindBigNum // apd.Decimal-backed, produced when json_parse meets a number that overflows int64/float64
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindByte:
		return "Byte"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindObject:
		return "Object"
	case KindEnumVariant:
		return "EnumVariant"
	case KindRange:
		return "Range"
	case KindClosure:
		return "Closure"
	case KindBuiltin:
		return "BuiltinFunction"
	case KindBigNum:
		return "BigNum"
	default:
		return "?"
	}
}

// refCounted is embedded by every heap-backed Value payload. Cloning a
// Value bumps the count; nothing in this package ever frees early — Go's
// GC reclaims when the last handle drops. The counter exists for
// embedders that inspect it, not to manage memory by hand.
type refCounted struct {
	count int64
}

func (r *refCounted) retain() { atomic.AddInt64(&r.count, 1) }

// stringHandle is the shared, interned payload behind KindString.
type stringHandle struct {
	refCounted
	s string
}

// arrayHandle backs KindArray and KindTuple: an immutable boxed slice.
// "Mutation" (push, set) always allocates a new handle, so a write is
// never observable through another handle.
type arrayHandle struct {
	refCounted
	elems []Value
}

// objectHandle backs KindObject: an ordered name→Value map. Order is
// preserved for modules and for deterministic iteration
// via .items().
type objectHandle struct {
	refCounted
	keys   []string
	values map[string]Value
}

func newObjectHandle() *objectHandle {
	return &objectHandle{keys: nil, values: map[string]Value{}}
}

func (o *objectHandle) get(name string) (Value, bool) {
	v, ok := o.values[name]
	return v, ok
}

func (o *objectHandle) set(name string, v Value) *objectHandle {
	next := &objectHandle{values: map[string]Value{}}
	next.keys = append(next.keys, o.keys...)
	for k, val := range o.values {
		next.values[k] = val
	}
	if _, exists := next.values[name]; !exists {
		next.keys = append(next.keys, name)
	}
	next.values[name] = v
	return next
}

// EnumVariant is the payload for KindEnumVariant.
type EnumVariant struct {
	refCounted
	EnumName    string
	VariantName string
	Payload     []Value
}

// RangeVal is the payload for KindRange.
type RangeVal struct {
	refCounted
	Start, End Value
	Inclusive  bool
}

// Closure is the payload for KindClosure: parameters, a body, and the
// captured environment.
type Closure struct {
	refCounted
	Name     string // empty for anonymous lambdas
	Params   []ClosureParam
	Body     BodyFunc
	Env      *Scope
	IsAsync  bool
}

// ClosureParam mirrors ast.Param, stripped to what the evaluator needs at
// call time.
type ClosureParam struct {
	Name    string
	Mutable bool
	Default BodyFunc // nil if no default; evaluated in the call-time scope when the argument is omitted
}

// BodyFunc defers to the evaluator so interp/value.go has no dependency
// on interp/eval.go's Expr-walking code — it is filled in by buildClosure.
type BodyFunc func(env *Scope) (Value, error)

// Builtin is the payload for KindBuiltin: a symbolic name resolved
// through the shared registry.
type Builtin struct {
	Name string
}

// Value is the tagged union shared across the interpreter. It is a plain
// struct (not an interface) so cloning is always a flat copy plus, for
// heap variants, a ref-count bump — preserving structural equality at
// zero allocation cost for the scalar cases.
type Value struct {
	kind Kind

	i   int64
	f   float64
	b   bool
	ch  rune
	by  byte
	str *stringHandle
	arr *arrayHandle
	obj *objectHandle
	ev  *EnumVariant
	rv  *RangeVal
	cl  *Closure
	bf  *Builtin
	big *apd.Decimal
}

// Nil is the canonical unit/absent value.
var Nil = Value{kind: KindNil}

func Int(i int64) Value    { return Value{kind: KindInteger, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value    { return Value{kind: KindBool, b: b} }
func Byte(b byte) Value    { return Value{kind: KindByte, by: b} }
func Char(r rune) Value    { return Value{kind: KindChar, ch: r} }

func String(s string) Value {
	return Value{kind: KindString, str: &stringHandle{s: s}}
}

func Array(elems []Value) Value {
	return Value{kind: KindArray, arr: &arrayHandle{elems: elems}}
}

func Tuple(elems []Value) Value {
	return Value{kind: KindTuple, arr: &arrayHandle{elems: elems}}
}

func EmptyObject() Value {
	return Value{kind: KindObject, obj: newObjectHandle()}
}

func ObjectFromHandle(h *objectHandle) Value {
	return Value{kind: KindObject, obj: h}
}

func Enum(enumName, variant string, payload []Value) Value {
	return Value{kind: KindEnumVariant, ev: &EnumVariant{EnumName: enumName, VariantName: variant, Payload: payload}}
}

func Range(start, end Value, inclusive bool) Value {
	return Value{kind: KindRange, rv: &RangeVal{Start: start, End: end, Inclusive: inclusive}}
}

func ClosureValue(c *Closure) Value { return Value{kind: KindClosure, cl: c} }

func BuiltinValue(name string) Value { return Value{kind: KindBuiltin, bf: &Builtin{Name: name}} }

func BigNum(d *apd.Decimal) Value { return Value{kind: KindBigNum, big: d} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsInt() int64     { return v.i }
func (v Value) AsFloat() float64 { return v.f }
func (v Value) AsBool() bool     { return v.b }
func (v Value) AsByte() byte     { return v.by }
func (v Value) AsChar() rune     { return v.ch }
func (v Value) AsString() string {
	if v.str == nil {
		return ""
	}
	return v.str.s
}
func (v Value) AsSlice() []Value {
	if v.arr == nil {
		return nil
	}
	return v.arr.elems
}
func (v Value) AsEnum() *EnumVariant   { return v.ev }
func (v Value) AsRange() *RangeVal     { return v.rv }
func (v Value) AsClosure() *Closure    { return v.cl }
func (v Value) AsBuiltin() *Builtin    { return v.bf }
func (v Value) AsBigNum() *apd.Decimal { return v.big }
func (v Value) objectHandle() *objectHandle { return v.obj }

// ObjectGet looks up a field on a KindObject value.
func (v Value) ObjectGet(name string) (Value, bool) {
	if v.obj == nil {
		return Nil, false
	}
	return v.obj.get(name)
}

// ObjectKeys returns field names in insertion order.
func (v Value) ObjectKeys() []string {
	if v.obj == nil {
		return nil
	}
	return append([]string(nil), v.obj.keys...)
}

// ObjectSet returns a new Value with name bound to val (copy-on-write).
func (v Value) ObjectSet(name string, val Value) Value {
	if v.obj == nil {
		v = EmptyObject()
	}
	return Value{kind: KindObject, obj: v.obj.set(name, val)}
}

// Clone is a cheap ref-count bump for heap variants; scalar variants are
// already flat copies. Exported so embedders can hand a Value across a
// goroutine boundary.
func (v Value) Clone() Value {
	switch v.kind {
	case KindString:
		v.str.retain()
	case KindArray, KindTuple:
		v.arr.retain()
	case KindObject:
		v.obj.retain()
	case KindEnumVariant:
		v.ev.retain()
	case KindRange:
		v.rv.retain()
	case KindClosure:
		v.cl.retain()
	}
	return v
}

// Truthy implements the language's truthiness table.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.b
	case KindInteger:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.AsString() != ""
	default:
		return true
	}
}

// TypeName reports the Ruchy-level type name used in error messages.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindString:
		return "str"
	case KindArray:
		return "Vec"
	case KindTuple:
		return "tuple"
	case KindObject:
		return "object"
	case KindEnumVariant:
		return v.ev.EnumName
	case KindRange:
		return "range"
	case KindClosure:
		return "function"
	case KindBuiltin:
		return "function"
	case KindBigNum:
		return "bignum"
	default:
		return "?"
	}
}

// Equal implements structural equality, with a NaN-equal-to-NaN
// carve-out for checkpoint comparisons (used by Equal, not by arithmetic
// `==`, which follows IEEE-754 and lives in ops.go).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		// Integer/Float cross-kind equality promotes, matching arithmetic.
		if (v.kind == KindInteger && other.kind == KindFloat) {
			return float64(v.i) == other.f
		}
		if (v.kind == KindFloat && other.kind == KindInteger) {
			return v.f == float64(other.i)
		}
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindInteger:
		return v.i == other.i
	case KindFloat:
		if v.f != v.f && other.f != other.f {
			return true // NaN == NaN for structural/checkpoint comparisons
		}
		return v.f == other.f
	case KindBool:
		return v.b == other.b
	case KindByte:
		return v.by == other.by
	case KindChar:
		return v.ch == other.ch
	case KindString:
		return v.AsString() == other.AsString()
	case KindArray, KindTuple:
		a, b := v.AsSlice(), other.AsSlice()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case KindObject:
		ak, bk := v.ObjectKeys(), other.ObjectKeys()
		if len(ak) != len(bk) {
			return false
		}
		for _, k := range ak {
			av, _ := v.ObjectGet(k)
			bv, ok := other.ObjectGet(k)
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	case KindEnumVariant:
		if v.ev.EnumName != other.ev.EnumName || v.ev.VariantName != other.ev.VariantName {
			return false
		}
		if len(v.ev.Payload) != len(other.ev.Payload) {
			return false
		}
		for i := range v.ev.Payload {
			if !v.ev.Payload[i].Equal(other.ev.Payload[i]) {
				return false
			}
		}
		return true
	case KindRange:
		return v.rv.Start.Equal(other.rv.Start) && v.rv.End.Equal(other.rv.End) && v.rv.Inclusive == other.rv.Inclusive
	case KindClosure:
		return v.cl == other.cl
	case KindBuiltin:
		return v.bf.Name == other.bf.Name
	case KindBigNum:
		return v.big.Cmp(other.big) == 0
	default:
		return false
	}
}

// String renders a Value the way println/interpolation do.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindByte:
		return fmt.Sprintf("%d", v.by)
	case KindChar:
		return string(v.ch)
	case KindString:
		return v.AsString()
	case KindArray:
		return sliceString(v.AsSlice(), "[", "]")
	case KindTuple:
		return sliceString(v.AsSlice(), "(", ")")
	case KindObject:
		s := "{"
		for i, k := range v.ObjectKeys() {
			if i > 0 {
				s += ", "
			}
			val, _ := v.ObjectGet(k)
			s += k + ": " + val.String()
		}
		return s + "}"
	case KindEnumVariant:
		s := v.ev.EnumName + "." + v.ev.VariantName
		if len(v.ev.Payload) > 0 {
			s += sliceString(v.ev.Payload, "(", ")")
		}
		return s
	case KindRange:
		op := ".."
		if v.rv.Inclusive {
			op = "..="
		}
		return v.rv.Start.String() + op + v.rv.End.String()
	case KindClosure:
		return "<closure>"
	case KindBuiltin:
		return "<builtin " + v.bf.Name + ">"
	case KindBigNum:
		return v.big.String()
	default:
		return "?"
	}
}

func sliceString(elems []Value, open, close string) string {
	s := open
	for i, e := range elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + close
}
